// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package camera provides a perspective camera built on math3d.
//
// The view and projection matrices are pure functions of the camera's
// fields and are recomputed on every call.
package camera

import (
	"github.com/gogpu/dxframe/math3d"
)

// Default projection parameters.
const (
	DefaultFovYDegrees float32 = 45
	DefaultAspect      float32 = 1280.0 / 720.0
	DefaultNear        float32 = 0.1
	DefaultFar         float32 = 1000
)

// DefaultPosition is where a new camera is placed.
var DefaultPosition = math3d.V3(0, 1.5, -5)

// Camera is a left-handed perspective camera.
type Camera struct {
	Position math3d.Vector3
	Rotation math3d.Quaternion

	// FovY is the vertical field of view in radians.
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

// New returns a camera at DefaultPosition looking at the origin with the
// default projection.
func New() *Camera {
	return &Camera{
		Position: DefaultPosition,
		Rotation: math3d.LookRotation(DefaultPosition.Neg(), math3d.Up),
		FovY:     math3d.ToRadian(DefaultFovYDegrees),
		Aspect:   DefaultAspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

// SetProjection replaces all projection parameters. fovY is in radians.
func (c *Camera) SetProjection(fovY, aspect, near, far float32) {
	c.FovY, c.Aspect, c.Near, c.Far = fovY, aspect, near, far
}

// SetAspect sets the aspect ratio from a viewport size. A zero height is
// ignored.
func (c *Camera) SetAspect(width, height uint32) {
	if height == 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// LookAt rotates the camera to face target.
func (c *Camera) LookAt(target math3d.Vector3) {
	dir := target.Sub(c.Position)
	if dir.LengthSquared() == 0 {
		return
	}
	c.Rotation = math3d.LookRotation(dir, math3d.Up)
}

// Move translates the camera by offset expressed in camera space.
func (c *Camera) Move(offset math3d.Vector3) {
	c.Position = c.Position.Add(c.Rotation.Rotate(offset))
}

// Rotate applies yaw around world up, then pitch around the camera's
// right axis. Angles are in radians.
func (c *Camera) Rotate(yaw, pitch float32) {
	c.Rotation = math3d.ForYAxis(yaw).Mul(c.Rotation).Normalized()
	c.Rotation = c.Rotation.Mul(math3d.ForXAxis(pitch)).Normalized()
}

// Forward returns the world-space viewing direction.
func (c *Camera) Forward() math3d.Vector3 { return c.Rotation.Rotate(math3d.Forward) }

// World returns the camera-to-world transform.
func (c *Camera) World() math3d.Matrix4x4 {
	return math3d.MakeAffine(math3d.One3, c.Rotation, c.Position)
}

// View returns the world-to-camera transform.
func (c *Camera) View() math3d.Matrix4x4 { return c.World().Inverse() }

// Projection returns the perspective projection.
func (c *Camera) Projection() math3d.Matrix4x4 {
	return math3d.PerspectiveFovLH(c.FovY, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns View·Projection for row vectors.
func (c *Camera) ViewProjection() math3d.Matrix4x4 {
	return c.View().Mul(c.Projection())
}
