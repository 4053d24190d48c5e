// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestResourceStateString(t *testing.T) {
	tests := []struct {
		state ResourceState
		want  string
	}{
		{StateCommon, "Common"},
		{StateRenderTarget, "RenderTarget"},
		{StateUnorderedAccess, "UnorderedAccess"},
		{StatePresent, "Present"},
		{StateVideoEncodeWrite, "VideoEncodeWrite"},
		{ResourceState(-1), "Unknown(-1)"},
		{stateCount, "Unknown(27)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("ResourceState(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestResourceStateCount(t *testing.T) {
	if stateCount != 27 {
		t.Errorf("stateCount = %d, want 27", stateCount)
	}
	for s := StateCommon; s < stateCount; s++ {
		if !s.IsValid() || stateNames[s] == "" {
			t.Errorf("state %d has no name", int(s))
		}
	}
}

func TestResourceStateTextureUsage(t *testing.T) {
	tests := []struct {
		state ResourceState
		want  gputypes.TextureUsage
	}{
		{StateRenderTarget, gputypes.TextureUsageRenderAttachment},
		{StateDepthWrite, gputypes.TextureUsageRenderAttachment},
		{StatePixelShaderResource, gputypes.TextureUsageTextureBinding},
		{StateUnorderedAccess, gputypes.TextureUsageStorageBinding},
		{StateCopyDest, gputypes.TextureUsageCopyDst},
		{StateCopySource, gputypes.TextureUsageCopySrc},
		{StatePresent, gputypes.TextureUsageCopySrc},
		{StateCommon, 0},
		{StateGenericRead, 0},
	}
	for _, tt := range tests {
		if got := tt.state.TextureUsage(); got != tt.want {
			t.Errorf("%v.TextureUsage() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestTransitionBarrier(t *testing.T) {
	r := &GPUResource{label: "rt", state: StatePresent}

	b := r.TransitionBarrier(StateRenderTarget)
	if b.Kind != BarrierTransition || b.Before != StatePresent || b.After != StateRenderTarget || b.Resource != r {
		t.Errorf("TransitionBarrier() = %+v", b)
	}
	if r.State() != StateRenderTarget {
		t.Errorf("State() = %v, want RenderTarget", r.State())
	}

	b = r.TransitionBarrier(StatePresent)
	if b.Before != StateRenderTarget || b.After != StatePresent {
		t.Errorf("second TransitionBarrier() = %v", b)
	}
	if got, want := b.String(), "Transition(rt: RenderTarget -> Present)"; got != want {
		t.Errorf("Barrier.String() = %q, want %q", got, want)
	}
}

func TestUAVBarrier(t *testing.T) {
	r := &GPUResource{label: "particles", state: StateUnorderedAccess}
	b, err := r.UAVBarrier()
	if err != nil {
		t.Fatalf("UAVBarrier() error = %v", err)
	}
	if b.Kind != BarrierUAV || b.String() != "UAV(particles)" {
		t.Errorf("UAVBarrier() = %v", b)
	}

	r.TransitionBarrier(StateGenericRead)
	b, err = r.UAVBarrier()
	if !errors.Is(err, ErrNotUnorderedAccess) {
		t.Errorf("UAVBarrier() in GenericRead error = %v, want ErrNotUnorderedAccess", err)
	}
	if b.Resource != r {
		t.Error("UAVBarrier() did not return the barrier alongside the error")
	}
	if r.State() != StateGenericRead {
		t.Errorf("UAVBarrier changed state to %v", r.State())
	}
}

func TestBufferResourceLifecycle(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewBufferResource(device, &hal.BufferDescriptor{
		Label: "buf",
		Size:  256,
		Usage: gputypes.BufferUsageStorage,
	}, StateCommon)
	if err != nil {
		t.Fatalf("NewBufferResource() error = %v", err)
	}
	if r.Buffer() == nil || r.Texture() != nil || r.IsTexture() {
		t.Error("buffer resource has wrong backing object")
	}
	if r.Size() != 256 || r.Label() != "buf" || r.State() != StateCommon {
		t.Errorf("Size/Label/State = %d/%q/%v", r.Size(), r.Label(), r.State())
	}
	r.Destroy()
	r.Destroy()
	if !r.IsDestroyed() || r.Buffer() != nil {
		t.Error("Destroy() did not release the buffer")
	}
}

func TestTextureResource(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	r, err := NewTextureResource(device, &hal.TextureDescriptor{
		Label:         "tex",
		Size:          hal.Extent3D{Width: 4, Height: 2, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	}, StateRenderTarget)
	if err != nil {
		t.Fatalf("NewTextureResource() error = %v", err)
	}
	defer r.Destroy()
	if !r.IsTexture() || r.Size() != 8 {
		t.Errorf("IsTexture/Size = %v/%d, want true/8", r.IsTexture(), r.Size())
	}
}

func TestResourceInvalidArgs(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := NewBufferResource(nil, &hal.BufferDescriptor{Size: 4}, StateCommon); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewBufferResource(nil) error = %v, want ErrNilDevice", err)
	}
	if _, err := NewBufferResource(device, &hal.BufferDescriptor{}, StateCommon); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("NewBufferResource(size 0) error = %v, want ErrInvalidSize", err)
	}
	if _, err := NewTextureResource(device, &hal.TextureDescriptor{}, StateCommon); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("NewTextureResource(0x0) error = %v, want ErrInvalidSize", err)
	}
}
