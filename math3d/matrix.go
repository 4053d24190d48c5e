// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package math3d

// Matrix4x4 is a row-major 4x4 matrix. Rows 0..2 hold the basis axes and
// row 3 holds the translation:
//
//	| Xx Xy Xz 0 |
//	| Yx Yy Yz 0 |
//	| Zx Zy Zz 0 |
//	| Tx Ty Tz 1 |
type Matrix4x4 struct {
	M [4][4]float32
}

// Identity returns the identity matrix.
func Identity() Matrix4x4 {
	return Matrix4x4{M: [4][4]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// Mul returns m * n. Applying the result is the same as applying m, then n.
func (m Matrix4x4) Mul(n Matrix4x4) Matrix4x4 {
	var r Matrix4x4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.M[i][j] = m.M[i][0]*n.M[0][j] +
				m.M[i][1]*n.M[1][j] +
				m.M[i][2]*n.M[2][j] +
				m.M[i][3]*n.M[3][j]
		}
	}
	return r
}

// Transpose returns the transposed matrix.
func (m Matrix4x4) Transpose() Matrix4x4 {
	var r Matrix4x4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.M[i][j] = m.M[j][i]
		}
	}
	return r
}

// Row returns row i.
func (m Matrix4x4) Row(i int) Vector4 {
	return Vector4{m.M[i][0], m.M[i][1], m.M[i][2], m.M[i][3]}
}

// SetRow replaces row i.
func (m *Matrix4x4) SetRow(i int, v Vector4) {
	m.M[i] = [4]float32{v.X, v.Y, v.Z, v.W}
}

// XAxis returns the first basis row.
func (m Matrix4x4) XAxis() Vector3 { return Vector3{m.M[0][0], m.M[0][1], m.M[0][2]} }

// YAxis returns the second basis row.
func (m Matrix4x4) YAxis() Vector3 { return Vector3{m.M[1][0], m.M[1][1], m.M[1][2]} }

// ZAxis returns the third basis row.
func (m Matrix4x4) ZAxis() Vector3 { return Vector3{m.M[2][0], m.M[2][1], m.M[2][2]} }

// Translate returns the translation row.
func (m Matrix4x4) Translate() Vector3 { return Vector3{m.M[3][0], m.M[3][1], m.M[3][2]} }

// TransformPoint transforms v as a point (w = 1) without perspective divide.
func (m Matrix4x4) TransformPoint(v Vector3) Vector3 {
	return m.TransformVector(v).Add(m.Translate())
}

// TransformVector transforms v as a direction (w = 0).
func (m Matrix4x4) TransformVector(v Vector3) Vector3 {
	return Vector3{
		v.X*m.M[0][0] + v.Y*m.M[1][0] + v.Z*m.M[2][0],
		v.X*m.M[0][1] + v.Y*m.M[1][1] + v.Z*m.M[2][1],
		v.X*m.M[0][2] + v.Y*m.M[1][2] + v.Z*m.M[2][2],
	}
}

// TransformWDivide transforms v as a point and divides by the resulting w.
// A zero w leaves the undivided result.
func (m Matrix4x4) TransformWDivide(v Vector3) Vector3 {
	r := m.TransformPoint(v)
	w := v.X*m.M[0][3] + v.Y*m.M[1][3] + v.Z*m.M[2][3] + m.M[3][3]
	if w == 0 {
		return r
	}
	return r.Scale(1 / w)
}

// Transform4 multiplies the row vector v by m.
func (m Matrix4x4) Transform4(v Vector4) Vector4 {
	var r [4]float32
	in := v.Array()
	for j := 0; j < 4; j++ {
		r[j] = in[0]*m.M[0][j] + in[1]*m.M[1][j] + in[2]*m.M[2][j] + in[3]*m.M[3][j]
	}
	return Vector4{r[0], r[1], r[2], r[3]}
}

// cofactors returns the 2x2 sub-determinants shared by Determinant and
// Inverse.
func (m Matrix4x4) cofactors() (s, c [6]float32) {
	a := m.M
	s[0] = a[0][0]*a[1][1] - a[1][0]*a[0][1]
	s[1] = a[0][0]*a[1][2] - a[1][0]*a[0][2]
	s[2] = a[0][0]*a[1][3] - a[1][0]*a[0][3]
	s[3] = a[0][1]*a[1][2] - a[1][1]*a[0][2]
	s[4] = a[0][1]*a[1][3] - a[1][1]*a[0][3]
	s[5] = a[0][2]*a[1][3] - a[1][2]*a[0][3]

	c[5] = a[2][2]*a[3][3] - a[3][2]*a[2][3]
	c[4] = a[2][1]*a[3][3] - a[3][1]*a[2][3]
	c[3] = a[2][1]*a[3][2] - a[3][1]*a[2][2]
	c[2] = a[2][0]*a[3][3] - a[3][0]*a[2][3]
	c[1] = a[2][0]*a[3][2] - a[3][0]*a[2][2]
	c[0] = a[2][0]*a[3][1] - a[3][0]*a[2][1]
	return s, c
}

// Determinant returns the determinant of m.
func (m Matrix4x4) Determinant() float32 {
	s, c := m.cofactors()
	return s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
}

// Inverse returns the inverse of m computed as adjugate / determinant.
// A singular matrix yields the zero matrix.
func (m Matrix4x4) Inverse() Matrix4x4 {
	s, c := m.cofactors()
	det := s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
	if det == 0 {
		return Matrix4x4{}
	}
	inv := 1 / det
	a := m.M
	var r Matrix4x4
	r.M[0][0] = (a[1][1]*c[5] - a[1][2]*c[4] + a[1][3]*c[3]) * inv
	r.M[0][1] = (-a[0][1]*c[5] + a[0][2]*c[4] - a[0][3]*c[3]) * inv
	r.M[0][2] = (a[3][1]*s[5] - a[3][2]*s[4] + a[3][3]*s[3]) * inv
	r.M[0][3] = (-a[2][1]*s[5] + a[2][2]*s[4] - a[2][3]*s[3]) * inv

	r.M[1][0] = (-a[1][0]*c[5] + a[1][2]*c[2] - a[1][3]*c[1]) * inv
	r.M[1][1] = (a[0][0]*c[5] - a[0][2]*c[2] + a[0][3]*c[1]) * inv
	r.M[1][2] = (-a[3][0]*s[5] + a[3][2]*s[2] - a[3][3]*s[1]) * inv
	r.M[1][3] = (a[2][0]*s[5] - a[2][2]*s[2] + a[2][3]*s[1]) * inv

	r.M[2][0] = (a[1][0]*c[4] - a[1][1]*c[2] + a[1][3]*c[0]) * inv
	r.M[2][1] = (-a[0][0]*c[4] + a[0][1]*c[2] - a[0][3]*c[0]) * inv
	r.M[2][2] = (a[3][0]*s[4] - a[3][1]*s[2] + a[3][3]*s[0]) * inv
	r.M[2][3] = (-a[2][0]*s[4] + a[2][1]*s[2] - a[2][3]*s[0]) * inv

	r.M[3][0] = (-a[1][0]*c[3] + a[1][1]*c[1] - a[1][2]*c[0]) * inv
	r.M[3][1] = (a[0][0]*c[3] - a[0][1]*c[1] + a[0][2]*c[0]) * inv
	r.M[3][2] = (-a[3][0]*s[3] + a[3][1]*s[1] - a[3][2]*s[0]) * inv
	r.M[3][3] = (a[2][0]*s[3] - a[2][1]*s[1] + a[2][2]*s[0]) * inv
	return r
}

// Scaling returns a scale matrix.
func Scaling(s Vector3) Matrix4x4 {
	return Matrix4x4{M: [4][4]float32{
		{s.X, 0, 0, 0},
		{0, s.Y, 0, 0},
		{0, 0, s.Z, 0},
		{0, 0, 0, 1},
	}}
}

// Translation returns a translation matrix.
func Translation(t Vector3) Matrix4x4 {
	m := Identity()
	m.M[3] = [4]float32{t.X, t.Y, t.Z, 1}
	return m
}

// RotationX returns a rotation of angle radians about X.
func RotationX(angle float32) Matrix4x4 {
	c, s := cos(angle), sin(angle)
	return Matrix4x4{M: [4][4]float32{
		{1, 0, 0, 0},
		{0, c, s, 0},
		{0, -s, c, 0},
		{0, 0, 0, 1},
	}}
}

// RotationY returns a rotation of angle radians about Y.
func RotationY(angle float32) Matrix4x4 {
	c, s := cos(angle), sin(angle)
	return Matrix4x4{M: [4][4]float32{
		{c, 0, -s, 0},
		{0, 1, 0, 0},
		{s, 0, c, 0},
		{0, 0, 0, 1},
	}}
}

// RotationZ returns a rotation of angle radians about Z.
func RotationZ(angle float32) Matrix4x4 {
	c, s := cos(angle), sin(angle)
	return Matrix4x4{M: [4][4]float32{
		{c, s, 0, 0},
		{-s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// RotationXYZ returns RotationX(r.X) * RotationY(r.Y) * RotationZ(r.Z).
func RotationXYZ(r Vector3) Matrix4x4 {
	sx, sy, sz := sin(r.X), sin(r.Y), sin(r.Z)
	cx, cy, cz := cos(r.X), cos(r.Y), cos(r.Z)
	return Matrix4x4{M: [4][4]float32{
		{cy * cz, cy * sz, -sy, 0},
		{sx*sy*cz - cx*sz, sx*sy*sz + cx*cz, sx * cy, 0},
		{cx*sy*cz + sx*sz, cx*sy*sz - sx*cz, cx * cy, 0},
		{0, 0, 0, 1},
	}}
}

// FromQuaternion returns the rotation matrix of q.
func FromQuaternion(q Quaternion) Matrix4x4 {
	w2, x2, y2, z2 := q.W*q.W, q.X*q.X, q.Y*q.Y, q.Z*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	return Matrix4x4{M: [4][4]float32{
		{w2 + x2 - y2 - z2, 2 * (wz + xy), 2 * (xz - wy), 0},
		{2 * (xy - wz), w2 - x2 + y2 - z2, 2 * (yz + wx), 0},
		{2 * (wy + xz), 2 * (-wx + yz), w2 - x2 - y2 + z2, 0},
		{0, 0, 0, 1},
	}}
}

// MakeAffine composes scale, then rotation, then translation.
func MakeAffine(scale Vector3, rotate Quaternion, translate Vector3) Matrix4x4 {
	m := FromQuaternion(rotate)
	for j := 0; j < 3; j++ {
		m.M[0][j] *= scale.X
		m.M[1][j] *= scale.Y
		m.M[2][j] *= scale.Z
	}
	m.M[3] = [4]float32{translate.X, translate.Y, translate.Z, 1}
	return m
}

// MakeAffineEuler is MakeAffine with the rotation given as X/Y/Z angles
// in the same order as RotationXYZ.
func MakeAffineEuler(scale, rotate, translate Vector3) Matrix4x4 {
	m := RotationXYZ(rotate)
	for j := 0; j < 3; j++ {
		m.M[0][j] *= scale.X
		m.M[1][j] *= scale.Y
		m.M[2][j] *= scale.Z
	}
	m.M[3] = [4]float32{translate.X, translate.Y, translate.Z, 1}
	return m
}

// LookRotationMatrix returns the rotation whose +Z row points along
// direction.
func LookRotationMatrix(direction, up Vector3) Matrix4x4 {
	z := direction.Normalized()
	x := up.Cross(z).Normalized()
	y := z.Cross(x)
	return Matrix4x4{M: [4][4]float32{
		{x.X, x.Y, x.Z, 0},
		{y.X, y.Y, y.Z, 0},
		{z.X, z.Y, z.Z, 0},
		{0, 0, 0, 1},
	}}
}

// PerspectiveFovLH returns a left-handed perspective projection with depth
// mapped to [0,1]. fovY is in radians.
func PerspectiveFovLH(fovY, aspect, nearZ, farZ float32) Matrix4x4 {
	s := 1 / tan(fovY*0.5)
	a := farZ / (farZ - nearZ)
	return Matrix4x4{M: [4][4]float32{
		{s / aspect, 0, 0, 0},
		{0, s, 0, 0},
		{0, 0, a, 1},
		{0, 0, a * -nearZ, 0},
	}}
}

// OrthographicLH returns a left-handed orthographic projection with depth
// mapped to [0,1].
func OrthographicLH(width, height, nearZ, farZ float32) Matrix4x4 {
	zRange := farZ - nearZ
	return Matrix4x4{M: [4][4]float32{
		{2 / width, 0, 0, 0},
		{0, 2 / height, 0, 0},
		{0, 0, 1 / zRange, 0},
		{0, 0, nearZ / -zRange, 1},
	}}
}

// Viewport maps normalized device coordinates to window coordinates.
func Viewport(left, top, width, height, minDepth, maxDepth float32) Matrix4x4 {
	hw, hh := width/2, height/2
	return Matrix4x4{M: [4][4]float32{
		{hw, 0, 0, 0},
		{0, -hh, 0, 0},
		{0, 0, maxDepth - minDepth, 0},
		{left + hw, top + hh, minDepth, 1},
	}}
}

// Approx reports whether every element of m is within tol of n.
func (m Matrix4x4) Approx(n Matrix4x4, tol float32) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if !Approx(m.M[i][j], n.M[i][j], tol) {
				return false
			}
		}
	}
	return true
}
