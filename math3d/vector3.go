// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package math3d

import "math"

// Vector3 is a 3D vector.
type Vector3 struct {
	X, Y, Z float32
}

// Vector3 constants. Forward is +Z (left-handed).
var (
	Zero3   = Vector3{}
	One3    = Vector3{1, 1, 1}
	UnitX3  = Vector3{1, 0, 0}
	UnitY3  = Vector3{0, 1, 0}
	UnitZ3  = Vector3{0, 0, 1}
	Right   = Vector3{1, 0, 0}
	Left    = Vector3{-1, 0, 0}
	Up      = Vector3{0, 1, 0}
	Down    = Vector3{0, -1, 0}
	Forward = Vector3{0, 0, 1}
	Back    = Vector3{0, 0, -1}
)

// V3 is a convenience function to create a Vector3.
func V3(x, y, z float32) Vector3 { return Vector3{X: x, Y: y, Z: z} }

// Add returns v + w.
func (v Vector3) Add(w Vector3) Vector3 { return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v - w.
func (v Vector3) Sub(w Vector3) Vector3 { return Vector3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Neg returns -v.
func (v Vector3) Neg() Vector3 { return Vector3{-v.X, -v.Y, -v.Z} }

// Scale returns v scaled by s.
func (v Vector3) Scale(s float32) Vector3 { return Vector3{v.X * s, v.Y * s, v.Z * s} }

// Mul returns the component-wise product.
func (v Vector3) Mul(w Vector3) Vector3 { return Vector3{v.X * w.X, v.Y * w.Y, v.Z * w.Z} }

// Div returns v divided by s.
func (v Vector3) Div(s float32) Vector3 { return Vector3{v.X / s, v.Y / s, v.Z / s} }

// Dot returns the dot product.
func (v Vector3) Dot(w Vector3) float32 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product v × w.
func (v Vector3) Cross(w Vector3) Vector3 {
	return Vector3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// LengthSquared returns the squared length.
func (v Vector3) LengthSquared() float32 { return v.Dot(v) }

// Length returns the length.
func (v Vector3) Length() float32 { return sqrt(v.Dot(v)) }

// Normalized returns a unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vector3) Normalized() Vector3 {
	l := v.Length()
	if l == 0 {
		return Vector3{}
	}
	return v.Scale(1 / l)
}

// Distance returns the distance between v and w.
func (v Vector3) Distance(w Vector3) float32 { return w.Sub(v).Length() }

// Angle returns the unsigned angle in radians between v and w.
func (v Vector3) Angle(w Vector3) float32 {
	return acos(v.Normalized().Dot(w.Normalized()))
}

// SignedAngle returns the angle between v and w, negative when the rotation
// from v to w is clockwise about axis.
func (v Vector3) SignedAngle(w, axis Vector3) float32 {
	a := v.Angle(w)
	if v.Cross(w).Dot(axis) < 0 {
		return a
	}
	return -a
}

// Project returns the projection of v onto direction.
func (v Vector3) Project(direction Vector3) Vector3 {
	n := direction.Normalized()
	return n.Scale(v.Dot(n))
}

// ProjectOnPlane returns v with its component along planeNormal removed.
func (v Vector3) ProjectOnPlane(planeNormal Vector3) Vector3 {
	n := planeNormal.Normalized()
	return v.Sub(n.Scale(v.Dot(n)))
}

// Reflect reflects v off the plane defined by normal.
func (v Vector3) Reflect(normal Vector3) Vector3 {
	n := normal.Normalized()
	return n.Scale(2 * n.Dot(v.Neg())).Add(v)
}

// Min returns the component-wise minimum.
func (v Vector3) Min(w Vector3) Vector3 {
	return Vector3{min32(v.X, w.X), min32(v.Y, w.Y), min32(v.Z, w.Z)}
}

// Max returns the component-wise maximum.
func (v Vector3) Max(w Vector3) Vector3 {
	return Vector3{max32(v.X, w.X), max32(v.Y, w.Y), max32(v.Z, w.Z)}
}

// Lerp interpolates from v to w.
func (v Vector3) Lerp(w Vector3, t float32) Vector3 { return v.Add(w.Sub(v).Scale(t)) }

// Slerp interpolates direction spherically and length linearly.
// Nearly parallel inputs fall back to Lerp.
func (v Vector3) Slerp(w Vector3, t float32) Vector3 {
	lenV, lenW := v.Length(), w.Length()
	if lenV == 0 || lenW == 0 {
		return v.Lerp(w, t)
	}
	nv, nw := v.Scale(1/lenV), w.Scale(1/lenW)
	dot := nv.Dot(nw)
	if float32(math.Abs(float64(dot))) > 0.999 {
		return v.Lerp(w, t)
	}
	theta := acos(dot)
	inv := 1 / sin(theta)
	t1 := sin((1-t)*theta) * inv
	t2 := sin(t*theta) * inv
	return nv.Scale(t1).Add(nw.Scale(t2)).Scale(Lerp(lenV, lenW, t))
}

// CatmullRom evaluates a Catmull-Rom spline through p1..p2 at t.
func CatmullRom(p0, p1, p2, p3 Vector3, t float32) Vector3 {
	t2 := t * t
	t3 := t2 * t
	a := p0.Neg().Add(p1.Scale(3)).Sub(p2.Scale(3)).Add(p3).Scale(t3)
	b := p0.Scale(2).Sub(p1.Scale(5)).Add(p2.Scale(4)).Sub(p3).Scale(t2)
	c := p2.Sub(p0).Scale(t)
	return a.Add(b).Add(c).Add(p1.Scale(2)).Scale(0.5)
}

// QuadraticBezier evaluates a quadratic Bézier curve at t.
func QuadraticBezier(p0, p1, p2 Vector3, t float32) Vector3 {
	s := 1 - t
	return p0.Scale(s * s).Add(p1.Scale(2 * s * t)).Add(p2.Scale(t * t))
}

// CubicBezier evaluates a cubic Bézier curve at t.
func CubicBezier(p0, p1, p2, p3 Vector3, t float32) Vector3 {
	s := 1 - t
	return p0.Scale(s * s * s).
		Add(p1.Scale(3 * s * s * t)).
		Add(p2.Scale(3 * s * t * t)).
		Add(p3.Scale(t * t * t))
}
