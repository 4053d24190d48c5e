// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package math3d

// Quaternion represents a rotation. W is the scalar part.
type Quaternion struct {
	X, Y, Z, W float32
}

// QuaternionIdentity is the rotation that does nothing.
var QuaternionIdentity = Quaternion{0, 0, 0, 1}

// Mul returns the Hamilton product q * r, which applies r first and then q.
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y + q.Y*r.W + q.Z*r.X - q.X*r.Z,
		Z: q.W*r.Z + q.Z*r.W + q.X*r.Y - q.Y*r.X,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	qv := q.XYZ()
	return v.Add(qv.Cross(qv.Cross(v).Add(v.Scale(q.W))).Scale(2))
}

// XYZ returns the vector part.
func (q Quaternion) XYZ() Vector3 { return Vector3{q.X, q.Y, q.Z} }

// Add returns the component-wise sum.
func (q Quaternion) Add(r Quaternion) Quaternion {
	return Quaternion{q.X + r.X, q.Y + r.Y, q.Z + r.Z, q.W + r.W}
}

// Scale multiplies every component by s.
func (q Quaternion) Scale(s float32) Quaternion {
	return Quaternion{q.X * s, q.Y * s, q.Z * s, q.W * s}
}

// Dot returns the 4D dot product.
func (q Quaternion) Dot(r Quaternion) float32 {
	return q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W
}

// Length returns the norm of q.
func (q Quaternion) Length() float32 { return sqrt(q.Dot(q)) }

// Normalized returns q scaled to unit length.
func (q Quaternion) Normalized() Quaternion {
	l := q.Length()
	if l == 0 {
		return QuaternionIdentity
	}
	return q.Scale(1 / l)
}

// Conjugate negates the vector part.
func (q Quaternion) Conjugate() Quaternion { return Quaternion{-q.X, -q.Y, -q.Z, q.W} }

// Inverse returns the multiplicative inverse, conj(q)/|q|².
func (q Quaternion) Inverse() Quaternion {
	d := q.Dot(q)
	if d == 0 {
		return QuaternionIdentity
	}
	return q.Conjugate().Scale(1 / d)
}

// Angle returns the rotation angle of a unit quaternion.
func (q Quaternion) Angle() float32 { return acos(q.W) * 2 }

// Axis returns the rotation axis of a unit quaternion.
// The identity rotation has no axis and returns UnitY3.
func (q Quaternion) Axis() Vector3 {
	s := sin(acos(q.W))
	if s == 0 {
		return UnitY3
	}
	return q.XYZ().Scale(1 / s)
}

// Euler returns the pitch, yaw and roll angles (radians) in X, Y and Z.
func (q Quaternion) Euler() Vector3 {
	return Vector3{
		X: atan2(2*(q.W*q.X+q.Y*q.Z), 1-2*(q.X*q.X+q.Y*q.Y)),
		Y: asin(2 * (q.W*q.Y - q.Z*q.X)),
		Z: atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z)),
	}
}

// QuaternionFromEuler builds a rotation from pitch (X), yaw (Y) and roll (Z).
func QuaternionFromEuler(euler Vector3) Quaternion {
	sx, sy, sz := sin(euler.X*0.5), sin(euler.Y*0.5), sin(euler.Z*0.5)
	cx, cy, cz := cos(euler.X*0.5), cos(euler.Y*0.5), cos(euler.Z*0.5)
	return Quaternion{
		X: sx*cy*cz - cx*sy*sz,
		Y: cx*sy*cz + sx*cy*sz,
		Z: cx*cy*sz - sx*sy*cz,
		W: cx*cy*cz + sx*sy*sz,
	}
}

// AngleAxis builds a rotation of angle radians about a unit axis.
func AngleAxis(angle float32, axis Vector3) Quaternion {
	s := sin(angle * 0.5)
	return Quaternion{axis.X * s, axis.Y * s, axis.Z * s, cos(angle * 0.5)}
}

// ForXAxis builds a rotation about the X axis.
func ForXAxis(angle float32) Quaternion { return Quaternion{sin(angle / 2), 0, 0, cos(angle / 2)} }

// ForYAxis builds a rotation about the Y axis.
func ForYAxis(angle float32) Quaternion { return Quaternion{0, sin(angle / 2), 0, cos(angle / 2)} }

// ForZAxis builds a rotation about the Z axis.
func ForZAxis(angle float32) Quaternion { return Quaternion{0, 0, sin(angle / 2), cos(angle / 2)} }

// FromTwoVectors returns the rotation taking unit vector from onto unit
// vector to.
func FromTwoVectors(from, to Vector3) Quaternion {
	axis := from.Cross(to).Normalized()
	if axis == Zero3 {
		return QuaternionIdentity
	}
	return AngleAxis(acos(from.Dot(to)), axis)
}

// FromOrthonormal builds the rotation whose basis rows are x, y and z.
func FromOrthonormal(x, y, z Vector3) Quaternion {
	trace := x.X + y.Y + z.Z
	switch {
	case trace > 0:
		s := sqrt(trace+1) * 0.5
		r := Quaternion{W: s}
		s = 0.25 / s
		r.X = (y.Z - z.Y) * s
		r.Y = (z.X - x.Z) * s
		r.Z = (x.Y - y.X) * s
		return r
	case x.X > y.Y && x.X > z.Z:
		s := sqrt(1+x.X-y.Y-z.Z) * 0.5
		r := Quaternion{X: s}
		s = 0.25 / s
		r.Y = (x.Y + y.X) * s
		r.Z = (z.X + x.Z) * s
		r.W = (y.Z - z.Y) * s
		return r
	case y.Y > z.Z:
		s := sqrt(1-x.X+y.Y-z.Z) * 0.5
		r := Quaternion{Y: s}
		s = 0.25 / s
		r.X = (x.Y + y.X) * s
		r.Z = (y.Z + z.Y) * s
		r.W = (z.X - x.Z) * s
		return r
	default:
		s := sqrt(1-x.X-y.Y+z.Z) * 0.5
		r := Quaternion{Z: s}
		s = 0.25 / s
		r.X = (z.X + x.Z) * s
		r.Y = (y.Z + z.Y) * s
		r.W = (x.Y - y.X) * s
		return r
	}
}

// LookRotation returns the rotation whose forward (+Z) axis points along
// direction, keeping up as close to +Y as possible.
func LookRotation(direction, up Vector3) Quaternion {
	z := direction.Normalized()
	x := up.Cross(z).Normalized()
	y := z.Cross(x)
	return FromOrthonormal(x, y, z)
}

// QuaternionFromMatrix extracts the rotation from the upper 3x3 of m.
// m must not contain scale.
func QuaternionFromMatrix(m Matrix4x4) Quaternion {
	return FromOrthonormal(m.XAxis(), m.YAxis(), m.ZAxis())
}

// LerpQuaternion interpolates component-wise and renormalizes.
func LerpQuaternion(a, b Quaternion, t float32) Quaternion {
	return Quaternion{
		Lerp(a.X, b.X, t),
		Lerp(a.Y, b.Y, t),
		Lerp(a.Z, b.Z, t),
		Lerp(a.W, b.W, t),
	}.Normalized()
}

// Slerp interpolates along the shortest arc from a to b.
func Slerp(a, b Quaternion, t float32) Quaternion {
	dot := a.Dot(b)
	if dot < 0 {
		a = a.Scale(-1)
		dot = -dot
	}
	if dot > 0.9995 {
		return LerpQuaternion(a, b, t)
	}
	theta := acos(dot)
	inv := 1 / sin(theta)
	return a.Scale(sin((1-t)*theta) * inv).Add(b.Scale(sin(t*theta) * inv))
}
