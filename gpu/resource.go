// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/dxframe/internal/logging"
	"github.com/gogpu/wgpu/hal"
)

// BarrierKind distinguishes transition and UAV barriers.
type BarrierKind int

const (
	// BarrierTransition changes a resource from one state to another.
	BarrierTransition BarrierKind = iota
	// BarrierUAV orders two unordered access operations on one resource.
	BarrierUAV
)

// String returns the string representation of BarrierKind.
func (k BarrierKind) String() string {
	switch k {
	case BarrierTransition:
		return "Transition"
	case BarrierUAV:
		return "UAV"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Barrier describes a state change to be recorded on a command list.
type Barrier struct {
	Kind     BarrierKind
	Resource *GPUResource
	Before   ResourceState
	After    ResourceState
}

// String returns a short description such as "Transition(back0: Present -> RenderTarget)".
func (b Barrier) String() string {
	label := "<nil>"
	if b.Resource != nil {
		label = b.Resource.Label()
	}
	if b.Kind == BarrierUAV {
		return fmt.Sprintf("UAV(%s)", label)
	}
	return fmt.Sprintf("Transition(%s: %s -> %s)", label, b.Before, b.After)
}

// GPUResource owns one HAL buffer or texture and tracks its state.
//
// The tracked state changes the moment TransitionBarrier is called, not
// when the barrier executes. Callers must record every returned barrier
// or the tracked state and the real state diverge.
type GPUResource struct {
	mu sync.Mutex

	device  hal.Device
	buffer  hal.Buffer
	texture hal.Texture

	label     string
	size      uint64
	state     ResourceState
	destroyed bool
}

// NewBufferResource creates a HAL buffer in the given initial state.
func NewBufferResource(device hal.Device, desc *hal.BufferDescriptor, initial ResourceState) (*GPUResource, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if desc.Size == 0 {
		return nil, ErrInvalidSize
	}
	buf, err := device.CreateBuffer(desc)
	if err != nil {
		return nil, fmt.Errorf("create buffer %q: %w", desc.Label, err)
	}
	return &GPUResource{
		device: device,
		buffer: buf,
		label:  desc.Label,
		size:   desc.Size,
		state:  initial,
	}, nil
}

// NewTextureResource creates a HAL texture in the given initial state.
func NewTextureResource(device hal.Device, desc *hal.TextureDescriptor, initial ResourceState) (*GPUResource, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if desc.Size.Width == 0 || desc.Size.Height == 0 {
		return nil, ErrInvalidSize
	}
	tex, err := device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", desc.Label, err)
	}
	return &GPUResource{
		device:  device,
		texture: tex,
		label:   desc.Label,
		size:    uint64(desc.Size.Width) * uint64(desc.Size.Height) * uint64(desc.Size.DepthOrArrayLayers),
		state:   initial,
	}, nil
}

// TransitionBarrier returns a barrier from the current state to next and
// records next as the current state.
func (r *GPUResource) TransitionBarrier(next ResourceState) Barrier {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := Barrier{Kind: BarrierTransition, Resource: r, Before: r.state, After: next}
	r.state = next
	return b
}

// UAVBarrier returns a UAV barrier for r. When r is not in the
// UnorderedAccess state the barrier is still returned, together with
// ErrNotUnorderedAccess, and a warning is logged.
func (r *GPUResource) UAVBarrier() (Barrier, error) {
	r.mu.Lock()
	state := r.state
	r.mu.Unlock()

	b := Barrier{Kind: BarrierUAV, Resource: r, Before: state, After: state}
	if state != StateUnorderedAccess {
		logging.Logger().Warn("UAV barrier on resource not in UnorderedAccess",
			"resource", r.label, "state", state)
		return b, fmt.Errorf("%w: %s is %s", ErrNotUnorderedAccess, r.label, state)
	}
	return b, nil
}

// State returns the tracked state.
func (r *GPUResource) State() ResourceState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Label returns the debug label.
func (r *GPUResource) Label() string { return r.label }

// Size returns the byte size of a buffer, or the texel count of a texture.
func (r *GPUResource) Size() uint64 { return r.size }

// Buffer returns the HAL buffer, or nil for textures and destroyed resources.
func (r *GPUResource) Buffer() hal.Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	return r.buffer
}

// Texture returns the HAL texture, or nil for buffers and destroyed resources.
func (r *GPUResource) Texture() hal.Texture {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	return r.texture
}

// IsTexture reports whether r wraps a texture.
func (r *GPUResource) IsTexture() bool { return r.texture != nil }

// IsDestroyed reports whether Destroy has been called.
func (r *GPUResource) IsDestroyed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed
}

// Destroy releases the HAL object. It is safe to call more than once.
func (r *GPUResource) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	r.destroyed = true
	if r.buffer != nil {
		r.device.DestroyBuffer(r.buffer)
	}
	if r.texture != nil {
		r.device.DestroyTexture(r.texture)
	}
}
