// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// newTestList creates a fence, an allocator and a closed command list.
func newTestList(t *testing.T, device hal.Device, queue hal.Queue) (*CommandList, *Fence) {
	t.Helper()
	fence, err := NewFence(device)
	if err != nil {
		t.Fatalf("NewFence() error = %v", err)
	}
	t.Cleanup(fence.Destroy)
	alloc, err := NewCommandAllocator(device, "test")
	if err != nil {
		t.Fatalf("NewCommandAllocator() error = %v", err)
	}
	t.Cleanup(alloc.Destroy)
	list, err := NewCommandList(device, queue, fence, alloc)
	if err != nil {
		t.Fatalf("NewCommandList() error = %v", err)
	}
	return list, fence
}

// newTestShader creates a shader module from WGSL source.
func newTestShader(t *testing.T, device hal.Device, entry string) ShaderBytecode {
	t.Helper()
	src := "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }\n" +
		"@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }\n" +
		"@compute @workgroup_size(64) fn cs_main() {}\n"
	m, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "test_shader",
		Source: hal.ShaderSource{WGSL: src},
	})
	if err != nil {
		t.Fatalf("CreateShaderModule() error = %v", err)
	}
	t.Cleanup(func() { device.DestroyShaderModule(m) })
	return ShaderBytecode{Module: m, EntryPoint: entry, Hash: HashBytes([]byte(src + entry))}
}
