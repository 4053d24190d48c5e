// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package math3d

import "testing"

const tol = 1e-4

func vec3Approx(a, b Vector3) bool {
	return Approx(a.X, b.X, tol) && Approx(a.Y, b.Y, tol) && Approx(a.Z, b.Z, tol)
}

func TestVector3_NormalizedUnitLength(t *testing.T) {
	tests := []struct {
		name string
		v    Vector3
	}{
		{"axis", V3(0, 0, 5)},
		{"diagonal", V3(1, 1, 1)},
		{"negative", V3(-3, 4, -12)},
		{"tiny", V3(1e-3, -2e-3, 5e-4)},
		{"large", V3(1e4, 3e3, -7e3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Normalized().Length(); !Approx(got, 1, tol) {
				t.Errorf("Normalized().Length() = %v, want 1", got)
			}
		})
	}
}

func TestVector3_NormalizedZero(t *testing.T) {
	if got := Zero3.Normalized(); got != Zero3 {
		t.Errorf("Zero3.Normalized() = %v, want zero", got)
	}
	if got := Zero2.Normalized(); got != Zero2 {
		t.Errorf("Zero2.Normalized() = %v, want zero", got)
	}
}

func TestVector3_Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector3
		want Vector3
	}{
		{"x*y", UnitX3, UnitY3, UnitZ3},
		{"y*z", UnitY3, UnitZ3, UnitX3},
		{"z*x", UnitZ3, UnitX3, UnitY3},
		{"parallel", V3(1, 2, 3), V3(2, 4, 6), Zero3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); !vec3Approx(got, tt.want) {
				t.Errorf("Cross() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVector3_Angle(t *testing.T) {
	if got := Right.Angle(Up); !Approx(got, Pi/2, tol) {
		t.Errorf("Angle(right, up) = %v, want π/2", got)
	}
	if got := Forward.Angle(Back); !Approx(got, Pi, tol) {
		t.Errorf("Angle(forward, back) = %v, want π", got)
	}
	a := Right.SignedAngle(Forward, Up)
	b := Forward.SignedAngle(Right, Up)
	if !Approx(a, -b, tol) || Approx(a, 0, tol) {
		t.Errorf("SignedAngle not antisymmetric: %v, %v", a, b)
	}
}

func TestVector3_ProjectReflect(t *testing.T) {
	v := V3(3, 4, 5)
	if got := v.Project(V3(0, 2, 0)); !vec3Approx(got, V3(0, 4, 0)) {
		t.Errorf("Project() = %v", got)
	}
	if got := v.ProjectOnPlane(Up); !vec3Approx(got, V3(3, 0, 5)) {
		t.Errorf("ProjectOnPlane() = %v", got)
	}
	if got := V3(1, -1, 0).Reflect(Up); !vec3Approx(got, V3(1, 1, 0)) {
		t.Errorf("Reflect() = %v", got)
	}
}

func TestVector3_MinMaxDistance(t *testing.T) {
	a, b := V3(1, 5, -2), V3(3, 2, -1)
	if got := a.Min(b); got != V3(1, 2, -2) {
		t.Errorf("Min() = %v", got)
	}
	if got := a.Max(b); got != V3(3, 5, -1) {
		t.Errorf("Max() = %v", got)
	}
	if got := Zero3.Distance(V3(3, 4, 0)); !Approx(got, 5, tol) {
		t.Errorf("Distance() = %v, want 5", got)
	}
}

func TestVector3_Slerp(t *testing.T) {
	got := Right.Scale(2).Slerp(Forward.Scale(4), 0.5)
	if !Approx(got.Length(), 3, tol) {
		t.Errorf("Slerp length = %v, want 3", got.Length())
	}
	if !Approx(got.Normalized().Angle(Right), Pi/4, tol) {
		t.Errorf("Slerp direction = %v", got)
	}
	// near-parallel falls back to lerp
	if got := Right.Slerp(Right.Scale(3), 0.5); !vec3Approx(got, V3(2, 0, 0)) {
		t.Errorf("Slerp parallel = %v, want (2,0,0)", got)
	}
}

func TestCurves(t *testing.T) {
	p0, p1, p2, p3 := V3(0, 0, 0), V3(1, 2, 0), V3(3, 2, 0), V3(4, 0, 0)
	tests := []struct {
		name string
		got  Vector3
		want Vector3
	}{
		{"catmull start", CatmullRom(p0, p1, p2, p3, 0), p1},
		{"catmull end", CatmullRom(p0, p1, p2, p3, 1), p2},
		{"quadratic start", QuadraticBezier(p0, p1, p2, 0), p0},
		{"quadratic end", QuadraticBezier(p0, p1, p2, 1), p2},
		{"quadratic mid", QuadraticBezier(p0, p1, p2, 0.5), V3(1.25, 1.5, 0)},
		{"cubic start", CubicBezier(p0, p1, p2, p3, 0), p0},
		{"cubic end", CubicBezier(p0, p1, p2, p3, 1), p3},
		{"cubic mid", CubicBezier(p0, p1, p2, p3, 0.5), V3(2, 1.5, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vec3Approx(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestVector2(t *testing.T) {
	a, b := V2(3, 4), V2(1, 0)
	if got := a.Length(); got != 5 {
		t.Errorf("Length() = %v, want 5", got)
	}
	if got := b.Cross(V2(0, 1)); got != 1 {
		t.Errorf("Cross() = %v, want 1", got)
	}
	if got := a.Lerp(b, 0.5); got != V2(2, 2) {
		t.Errorf("Lerp() = %v, want (2,2)", got)
	}
	if got := a.Distance(b); !Approx(got, sqrt(20), tol) {
		t.Errorf("Distance() = %v", got)
	}
}

func TestVector4(t *testing.T) {
	v := V4(1, 2, 2, 4)
	if got := v.Length(); got != 5 {
		t.Errorf("Length() = %v, want 5", got)
	}
	if got := v.XYZ(); got != V3(1, 2, 2) {
		t.Errorf("XYZ() = %v", got)
	}
	if got := v.Normalized().Length(); !Approx(got, 1, tol) {
		t.Errorf("Normalized().Length() = %v", got)
	}
}

func TestScalars(t *testing.T) {
	if got := ToRadian(180); !Approx(got, Pi, tol) {
		t.Errorf("ToRadian(180) = %v", got)
	}
	if got := ToDegree(Pi / 2); !Approx(got, 90, 1e-3) {
		t.Errorf("ToDegree(π/2) = %v", got)
	}
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp() = %v", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Clamp() = %v", got)
	}
}
