// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package camera

import (
	"testing"

	"github.com/gogpu/dxframe/math3d"
)

const tol = 1e-4

func vecApprox(a, b math3d.Vector3) bool {
	return math3d.Approx(a.X, b.X, tol) && math3d.Approx(a.Y, b.Y, tol) && math3d.Approx(a.Z, b.Z, tol)
}

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.Position != math3d.V3(0, 1.5, -5) {
		t.Errorf("Position = %v", c.Position)
	}
	if !math3d.Approx(c.FovY, math3d.Pi/4, tol) || !math3d.Approx(c.Aspect, 1280.0/720.0, tol) {
		t.Errorf("FovY/Aspect = %v/%v", c.FovY, c.Aspect)
	}
	if c.Near != 0.1 || c.Far != 1000 {
		t.Errorf("Near/Far = %v/%v", c.Near, c.Far)
	}
	want := c.Position.Neg().Normalized()
	if got := c.Forward(); !vecApprox(got, want) {
		t.Errorf("Forward() = %v, want %v (towards origin)", got, want)
	}
}

func TestViewMovesCameraToOrigin(t *testing.T) {
	c := New()
	if got := c.View().TransformPoint(c.Position); !vecApprox(got, math3d.Zero3) {
		t.Errorf("View * position = %v, want origin", got)
	}
	// The origin lies straight ahead at the camera's distance.
	dist := c.Position.Length()
	if got := c.View().TransformPoint(math3d.Zero3); !vecApprox(got, math3d.V3(0, 0, dist)) {
		t.Errorf("View * origin = %v, want (0, 0, %v)", got, dist)
	}
}

func TestViewProjection(t *testing.T) {
	c := New()
	want := c.View().Mul(c.Projection())
	if !c.ViewProjection().Approx(want, tol) {
		t.Error("ViewProjection() != View()*Projection()")
	}

	clip := c.ViewProjection().Transform4(math3d.V4(0, 0, 0, 1))
	if clip.W <= 0 {
		t.Fatalf("origin is behind the camera: %v", clip)
	}
	ndc := math3d.V3(clip.X/clip.W, clip.Y/clip.W, clip.Z/clip.W)
	if !math3d.Approx(ndc.X, 0, tol) || !math3d.Approx(ndc.Y, 0, tol) || ndc.Z < 0 || ndc.Z > 1 {
		t.Errorf("origin in NDC = %v, want centered with depth in [0,1]", ndc)
	}
}

func TestSetAspect(t *testing.T) {
	c := New()
	c.SetAspect(800, 400)
	if c.Aspect != 2 {
		t.Errorf("Aspect = %v, want 2", c.Aspect)
	}
	c.SetAspect(800, 0)
	if c.Aspect != 2 {
		t.Errorf("SetAspect with zero height changed Aspect to %v", c.Aspect)
	}
}

func TestMoveAndLookAt(t *testing.T) {
	c := New()
	before := c.Position.Length()
	c.Move(math3d.V3(0, 0, 1))
	if got := c.Position.Length(); !math3d.Approx(got, before-1, tol) {
		t.Errorf("distance after moving forward = %v, want %v", got, before-1)
	}

	c.Position = math3d.V3(10, 0, 0)
	c.LookAt(math3d.Zero3)
	if got := c.Forward(); !vecApprox(got, math3d.Left) {
		t.Errorf("Forward() after LookAt = %v, want %v", got, math3d.Left)
	}
	r := c.Rotation
	c.LookAt(c.Position)
	if c.Rotation != r {
		t.Error("LookAt(own position) changed the rotation")
	}
}

func TestRotate(t *testing.T) {
	c := New()
	fwd := c.Forward()

	c.Rotate(0, 0)
	if !vecApprox(c.Forward(), fwd) {
		t.Errorf("Rotate(0, 0) changed Forward to %v", c.Forward())
	}
	c.Rotate(2*math3d.Pi, 0)
	if !vecApprox(c.Forward(), fwd) {
		t.Errorf("full yaw turn changed Forward to %v", c.Forward())
	}

	c = &Camera{Rotation: math3d.QuaternionIdentity}
	c.Rotate(math3d.Pi/2, 0)
	if f := c.Forward(); !math3d.Approx(f.Y, 0, tol) || !math3d.Approx(f.Z, 0, tol) {
		t.Errorf("yaw 90 Forward = %v, want along X", f)
	}
	c = &Camera{Rotation: math3d.QuaternionIdentity}
	c.Rotate(0, math3d.Pi/2)
	if f := c.Forward(); !math3d.Approx(f.X, 0, tol) || !math3d.Approx(f.Z, 0, tol) {
		t.Errorf("pitch 90 Forward = %v, want along Y", f)
	}
}
