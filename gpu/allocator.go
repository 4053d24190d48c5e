// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// CommandAllocator owns a HAL command encoder and the command buffers
// recorded through it. Reset frees those buffers, so it may only run once
// the GPU has finished with them; FenceValue records the value to wait for.
type CommandAllocator struct {
	device  hal.Device
	encoder hal.CommandEncoder
	label   string

	buffers    []hal.CommandBuffer
	fenceValue uint64
}

// NewCommandAllocator creates an allocator with its own encoder.
func NewCommandAllocator(device hal.Device, label string) (*CommandAllocator, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	enc, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("create command encoder %q: %w", label, err)
	}
	return &CommandAllocator{device: device, encoder: enc, label: label}, nil
}

// Label returns the debug label.
func (a *CommandAllocator) Label() string { return a.label }

// FenceValue returns the fence value that must complete before Reset.
func (a *CommandAllocator) FenceValue() uint64 { return a.fenceValue }

// SetFenceValue records the fence value guarding this allocator's buffers.
func (a *CommandAllocator) SetFenceValue(v uint64) { a.fenceValue = v }

// Pending returns the number of command buffers not yet freed.
func (a *CommandAllocator) Pending() int { return len(a.buffers) }

// Reset frees every command buffer recorded through the allocator.
func (a *CommandAllocator) Reset() {
	for _, cb := range a.buffers {
		a.device.FreeCommandBuffer(cb)
	}
	a.buffers = a.buffers[:0]
}

func (a *CommandAllocator) track(cb hal.CommandBuffer) {
	a.buffers = append(a.buffers, cb)
}

// Destroy frees outstanding buffers.
func (a *CommandAllocator) Destroy() {
	a.Reset()
	a.encoder = nil
}
