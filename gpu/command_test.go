// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestFenceSignalAndWait(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	f, err := NewFence(device)
	if err != nil {
		t.Fatalf("NewFence() error = %v", err)
	}
	defer f.Destroy()

	if f.Value() != 0 || f.Completed() != 0 {
		t.Errorf("new fence Value/Completed = %d/%d, want 0/0", f.Value(), f.Completed())
	}
	for want := uint64(1); want <= 3; want++ {
		v, err := f.Signal(queue)
		if err != nil {
			t.Fatalf("Signal() error = %v", err)
		}
		if v != want {
			t.Errorf("Signal() = %d, want %d", v, want)
		}
	}
	if err := f.WaitForGPU(); err != nil {
		t.Fatalf("WaitForGPU() error = %v", err)
	}
	if f.Completed() != 3 {
		t.Errorf("Completed() = %d, want 3", f.Completed())
	}
	ok, err := f.WaitTimeout(2, 0)
	if err != nil || !ok {
		t.Errorf("WaitTimeout(reached value) = %v, %v", ok, err)
	}
}

func TestListStateString(t *testing.T) {
	tests := []struct {
		s    ListState
		want string
	}{
		{ListClosed, "Closed"},
		{ListRecording, "Recording"},
		{ListExecuted, "Executed"},
		{ListWaited, "Waited"},
		{ListState(9), "Unknown(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("ListState.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCommandListLifecycle(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	list, fence := newTestList(t, device, queue)

	if list.State() != ListClosed || list.IsRecording() {
		t.Fatalf("new list state = %v, want Closed", list.State())
	}
	if err := list.Close(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Close() on closed list error = %v, want ErrNotRecording", err)
	}
	if _, err := list.Execute(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Execute() on closed list error = %v, want ErrNotRecording", err)
	}

	if err := list.Reset(nil); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if !list.IsRecording() {
		t.Fatal("IsRecording() = false after Reset")
	}
	if err := list.Reset(nil); !errors.Is(err, ErrRecording) {
		t.Errorf("Reset() while recording error = %v, want ErrRecording", err)
	}
	if err := list.Wait(); !errors.Is(err, ErrRecording) {
		t.Errorf("Wait() while recording error = %v, want ErrRecording", err)
	}

	v, err := list.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if v != 1 || list.ExecutedValue() != 1 || fence.Value() != 1 {
		t.Errorf("Execute() value = %d, fence = %d, want 1", v, fence.Value())
	}
	if list.State() != ListExecuted {
		t.Errorf("State() after Execute = %v, want Executed", list.State())
	}
	if err := list.Reset(nil); !errors.Is(err, ErrNotWaited) {
		t.Errorf("Reset() before Wait error = %v, want ErrNotWaited", err)
	}

	if err := list.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if list.State() != ListWaited {
		t.Errorf("State() after Wait = %v, want Waited", list.State())
	}
	if err := list.Reset(nil); err != nil {
		t.Fatalf("Reset() after Wait error = %v", err)
	}
	if err := list.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if list.State() != ListClosed {
		t.Errorf("State() after Close = %v, want Closed", list.State())
	}
}

func TestCommandListRequiresRecording(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	list, _ := newTestList(t, device, queue)

	r := &GPUResource{label: "r", state: StateCommon}
	calls := map[string]func() error{
		"ResourceBarrier":   func() error { return list.ResourceBarrier(r.TransitionBarrier(StateCopyDest)) },
		"BeginRenderPass":   func() error { return list.BeginRenderPass(RenderPassDesc{}) },
		"EndRenderPass":     list.EndRenderPass,
		"BeginComputePass":  func() error { return list.BeginComputePass("c") },
		"EndComputePass":    list.EndComputePass,
		"SetPipelineState":  func() error { return list.SetPipelineState(&PipelineState{}) },
		"SetDescriptorTable": func() error { return list.SetDescriptorTable(0, nil) },
		"Draw":              func() error { return list.Draw(3, 1, 0, 0) },
		"DrawIndexed":       func() error { return list.DrawIndexed(3, 1, 0, 0, 0) },
		"Dispatch":          func() error { return list.Dispatch(1, 1, 1) },
		"CopyBuffer":        func() error { return list.CopyBuffer(r, 0, r, 0, 4) },
		"CopyTextureToBuffer": func() error {
			return list.CopyTextureToBuffer(r, r, 1, 1, CopyPitchAlignment)
		},
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, ErrNotRecording) {
			t.Errorf("%s() on closed list error = %v, want ErrNotRecording", name, err)
		}
	}
}

func TestCommandListPasses(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	list, _ := newTestList(t, device, queue)

	heap, _ := NewDescriptorHeap(4, HeapTypeRTV, false, "rtv")
	rt, err := NewRenderTarget(device, heap, 8, 8, gputypes.TextureFormatRGBA8Unorm, StateRenderTarget, "rt")
	if err != nil {
		t.Fatalf("NewRenderTarget() error = %v", err)
	}
	defer rt.Destroy()

	if err := list.Reset(nil); err != nil {
		t.Fatal(err)
	}
	if err := list.EndRenderPass(); !errors.Is(err, ErrNoPass) {
		t.Errorf("EndRenderPass() without pass error = %v, want ErrNoPass", err)
	}
	if err := list.Draw(3, 1, 0, 0); !errors.Is(err, ErrNoPass) {
		t.Errorf("Draw() outside pass error = %v, want ErrNoPass", err)
	}
	if err := list.BeginRenderPass(RenderPassDesc{Targets: []*RenderTarget{rt}, Clear: true}); err != nil {
		t.Fatalf("BeginRenderPass() error = %v", err)
	}
	if err := list.BeginComputePass("c"); !errors.Is(err, ErrPassActive) {
		t.Errorf("BeginComputePass() inside render pass error = %v, want ErrPassActive", err)
	}
	if err := list.ResourceBarrier(rt.Resource().TransitionBarrier(StatePresent)); !errors.Is(err, ErrPassActive) {
		t.Errorf("ResourceBarrier() inside pass error = %v, want ErrPassActive", err)
	}
	if err := list.Draw(3, 1, 0, 0); !errors.Is(err, ErrNoPipeline) {
		t.Errorf("Draw() without pipeline error = %v, want ErrNoPipeline", err)
	}
	if err := list.EndRenderPass(); err != nil {
		t.Fatalf("EndRenderPass() error = %v", err)
	}

	if err := list.BeginComputePass("c"); err != nil {
		t.Fatalf("BeginComputePass() error = %v", err)
	}
	if err := list.Dispatch(1, 1, 1); !errors.Is(err, ErrNoPipeline) {
		t.Errorf("Dispatch() without pipeline error = %v, want ErrNoPipeline", err)
	}
	// Execute ends a pass left open.
	if _, err := list.Execute(); err != nil {
		t.Fatalf("Execute() with open pass error = %v", err)
	}
	if err := list.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestCommandListBarriers(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	list, _ := newTestList(t, device, queue)

	heap, _ := NewDescriptorHeap(4, HeapTypeRTV, false, "rtv")
	rt, err := NewRenderTarget(device, heap, 4, 4, gputypes.TextureFormatRGBA8Unorm, StatePresent, "rt")
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Destroy()
	buf, err := NewBufferResource(device, &hal.BufferDescriptor{
		Label: "buf", Size: 64, Usage: gputypes.BufferUsageStorage,
	}, StateUnorderedAccess)
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Destroy()

	if err := list.Reset(nil); err != nil {
		t.Fatal(err)
	}
	uav, err := buf.UAVBarrier()
	if err != nil {
		t.Fatal(err)
	}
	err = list.ResourceBarrier(
		rt.Resource().TransitionBarrier(StateRenderTarget),
		buf.TransitionBarrier(StateGenericRead),
		uav,
	)
	if err != nil {
		t.Fatalf("ResourceBarrier() error = %v", err)
	}
	if list.BarrierCount() != 3 {
		t.Errorf("BarrierCount() = %d, want 3", list.BarrierCount())
	}
	if err := list.ResourceBarrier(Barrier{}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ResourceBarrier(empty) error = %v, want ErrInvalidParameter", err)
	}

	buf.Destroy()
	if err := list.ResourceBarrier(buf.TransitionBarrier(StateCommon)); !errors.Is(err, ErrResourceDestroyed) {
		t.Errorf("ResourceBarrier(destroyed) error = %v, want ErrResourceDestroyed", err)
	}
	if err := list.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestCommandListCopies(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	list, _ := newTestList(t, device, queue)

	newBuf := func(size uint64) *GPUResource {
		r, err := NewBufferResource(device, &hal.BufferDescriptor{
			Label: "copy", Size: size, Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
		}, StateCopyDest)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(r.Destroy)
		return r
	}
	src, dst := newBuf(64), newBuf(32)

	if err := list.Reset(nil); err != nil {
		t.Fatal(err)
	}
	if err := list.CopyBuffer(dst, 0, src, 0, 32); err != nil {
		t.Errorf("CopyBuffer() error = %v", err)
	}
	if err := list.CopyBuffer(dst, 16, src, 0, 32); !errors.Is(err, ErrDataTooLarge) {
		t.Errorf("CopyBuffer(overflow) error = %v, want ErrDataTooLarge", err)
	}

	heap, _ := NewDescriptorHeap(1, HeapTypeRTV, false, "rtv")
	rt, err := NewRenderTarget(device, heap, 4, 4, gputypes.TextureFormatRGBA8Unorm, StateCopySource, "rt")
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Destroy()
	readback := newBuf(uint64(AlignedRowPitch(4)) * 4)
	if err := list.CopyTextureToBuffer(readback, rt.Resource(), 4, 4, 16); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("CopyTextureToBuffer(unaligned pitch) error = %v, want ErrInvalidParameter", err)
	}
	if err := list.CopyTextureToBuffer(readback, rt.Resource(), 4, 4, AlignedRowPitch(4)); err != nil {
		t.Errorf("CopyTextureToBuffer() error = %v", err)
	}
	if err := list.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestAlignedRowPitch(t *testing.T) {
	tests := []struct {
		width uint32
		want  uint32
	}{
		{1, 256},
		{64, 256},
		{65, 512},
		{1280, 5120},
	}
	for _, tt := range tests {
		if got := AlignedRowPitch(tt.width); got != tt.want {
			t.Errorf("AlignedRowPitch(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}
