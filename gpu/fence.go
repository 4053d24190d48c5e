// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/dxframe/internal/logging"
	"github.com/gogpu/wgpu/hal"
)

// fenceWaitSlice bounds a single HAL wait. WaitForValue keeps waiting in
// slices of this length until the value is reached.
const fenceWaitSlice = time.Second

// Fence is a monotonically increasing timeline value shared by the CPU and
// the queue.
type Fence struct {
	mu sync.Mutex

	device    hal.Device
	fence     hal.Fence
	value     uint64
	completed uint64
}

// NewFence creates a fence with value zero.
func NewFence(device hal.Device) (*Fence, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	f, err := device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	return &Fence{device: device, fence: f}, nil
}

// Signal increments the fence value and asks queue to signal it once all
// previously submitted work completes. It returns the new value.
func (f *Fence) Signal(queue hal.Queue) (uint64, error) {
	return f.Submit(queue, nil)
}

// Submit submits cmds followed by a signal of the next fence value.
func (f *Fence) Submit(queue hal.Queue, cmds []hal.CommandBuffer) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.value + 1
	if err := queue.Submit(cmds, f.fence, next); err != nil {
		return f.value, fmt.Errorf("submit: %w", err)
	}
	f.value = next
	logging.Logger().Debug("fence signaled", "value", next, "commandBuffers", len(cmds))
	return next, nil
}

// Value returns the last signaled value.
func (f *Fence) Value() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Completed returns the highest value known to have been reached.
func (f *Fence) Completed() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

// WaitForGPU blocks until the last signaled value has been reached.
func (f *Fence) WaitForGPU() error {
	return f.WaitForValue(f.Value())
}

// WaitForValue blocks until the fence reaches v. It never times out.
func (f *Fence) WaitForValue(v uint64) error {
	for {
		ok, err := f.WaitTimeout(v, fenceWaitSlice)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		logging.Logger().Warn("still waiting for GPU", "value", v, "completed", f.Completed())
	}
}

// WaitTimeout waits up to timeout for the fence to reach v and reports
// whether it did.
func (f *Fence) WaitTimeout(v uint64, timeout time.Duration) (bool, error) {
	f.mu.Lock()
	if f.completed >= v {
		f.mu.Unlock()
		return true, nil
	}
	device, fence := f.device, f.fence
	f.mu.Unlock()

	ok, err := device.Wait(fence, v, timeout)
	if err != nil {
		return false, fmt.Errorf("wait for fence value %d: %w", v, err)
	}
	if !ok {
		return false, nil
	}
	f.mu.Lock()
	if v > f.completed {
		f.completed = v
	}
	f.mu.Unlock()
	return true, nil
}

// Destroy releases the HAL fence.
func (f *Fence) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fence != nil {
		f.device.DestroyFence(f.fence)
		f.fence = nil
	}
}
