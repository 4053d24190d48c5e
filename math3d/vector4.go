// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package math3d

// Vector4 is a 4D vector, also used for homogeneous coordinates and colors.
type Vector4 struct {
	X, Y, Z, W float32
}

// V4 is a convenience function to create a Vector4.
func V4(x, y, z, w float32) Vector4 { return Vector4{X: x, Y: y, Z: z, W: w} }

// Add returns v + w.
func (v Vector4) Add(w Vector4) Vector4 {
	return Vector4{v.X + w.X, v.Y + w.Y, v.Z + w.Z, v.W + w.W}
}

// Sub returns v - w.
func (v Vector4) Sub(w Vector4) Vector4 {
	return Vector4{v.X - w.X, v.Y - w.Y, v.Z - w.Z, v.W - w.W}
}

// Scale returns v scaled by s.
func (v Vector4) Scale(s float32) Vector4 { return Vector4{v.X * s, v.Y * s, v.Z * s, v.W * s} }

// Dot returns the dot product.
func (v Vector4) Dot(w Vector4) float32 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z + v.W*w.W }

// Length returns the length.
func (v Vector4) Length() float32 { return sqrt(v.Dot(v)) }

// Normalized returns a unit vector in the direction of v.
func (v Vector4) Normalized() Vector4 {
	l := v.Length()
	if l == 0 {
		return Vector4{}
	}
	return v.Scale(1 / l)
}

// Lerp interpolates from v to w.
func (v Vector4) Lerp(w Vector4, t float32) Vector4 { return v.Add(w.Sub(v).Scale(t)) }

// XYZ drops the w component.
func (v Vector4) XYZ() Vector3 { return Vector3{v.X, v.Y, v.Z} }

// Array returns the components in order.
func (v Vector4) Array() [4]float32 { return [4]float32{v.X, v.Y, v.Z, v.W} }
