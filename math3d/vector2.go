// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package math3d

// Vector2 is a 2D vector.
type Vector2 struct {
	X, Y float32
}

// Vector2 constants.
var (
	Zero2  = Vector2{}
	One2   = Vector2{1, 1}
	UnitX2 = Vector2{1, 0}
	UnitY2 = Vector2{0, 1}
)

// V2 is a convenience function to create a Vector2.
func V2(x, y float32) Vector2 { return Vector2{X: x, Y: y} }

// Add returns v + w.
func (v Vector2) Add(w Vector2) Vector2 { return Vector2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vector2) Sub(w Vector2) Vector2 { return Vector2{v.X - w.X, v.Y - w.Y} }

// Neg returns -v.
func (v Vector2) Neg() Vector2 { return Vector2{-v.X, -v.Y} }

// Scale returns v scaled by s.
func (v Vector2) Scale(s float32) Vector2 { return Vector2{v.X * s, v.Y * s} }

// Mul returns the component-wise product.
func (v Vector2) Mul(w Vector2) Vector2 { return Vector2{v.X * w.X, v.Y * w.Y} }

// Div returns v divided by s.
func (v Vector2) Div(s float32) Vector2 { return Vector2{v.X / s, v.Y / s} }

// Dot returns the dot product.
func (v Vector2) Dot(w Vector2) float32 { return v.X*w.X + v.Y*w.Y }

// Cross returns the z component of the 3D cross product with z=0.
func (v Vector2) Cross(w Vector2) float32 { return v.X*w.Y - v.Y*w.X }

// LengthSquared returns the squared length.
func (v Vector2) LengthSquared() float32 { return v.Dot(v) }

// Length returns the length.
func (v Vector2) Length() float32 { return sqrt(v.Dot(v)) }

// Normalized returns a unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vector2) Normalized() Vector2 {
	l := v.Length()
	if l == 0 {
		return Vector2{}
	}
	return v.Scale(1 / l)
}

// Distance returns the distance between v and w.
func (v Vector2) Distance(w Vector2) float32 { return w.Sub(v).Length() }

// Lerp interpolates from v to w.
func (v Vector2) Lerp(w Vector2, t float32) Vector2 { return v.Add(w.Sub(v).Scale(t)) }

// Min returns the component-wise minimum.
func (v Vector2) Min(w Vector2) Vector2 { return Vector2{min32(v.X, w.X), min32(v.Y, w.Y)} }

// Max returns the component-wise maximum.
func (v Vector2) Max(w Vector2) Vector2 { return Vector2{max32(v.X, w.X), max32(v.Y, w.Y)} }
