// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestRenderTargetResize(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	heap, err := NewDescriptorHeap(1, HeapTypeRTV, false, "rtv")
	if err != nil {
		t.Fatal(err)
	}
	rt, err := NewRenderTarget(device, heap, 16, 16, gputypes.TextureFormatRGBA8Unorm, StatePresent, "target")
	if err != nil {
		t.Fatalf("NewRenderTarget() error = %v", err)
	}
	defer rt.Destroy()
	handle := rt.RTV()

	// The heap has a single slot, so every resize must reuse it.
	for _, size := range []uint32{32, 8, 64} {
		old := rt.Resource()
		if err := rt.Resize(size, size/2); err != nil {
			t.Fatalf("Resize(%d) error = %v", size, err)
		}
		if rt.Width() != size || rt.Height() != size/2 {
			t.Errorf("size = %dx%d, want %dx%d", rt.Width(), rt.Height(), size, size/2)
		}
		if rt.RTV() != handle || heap.Count() != 1 {
			t.Errorf("RTV = %v, heap count = %d after Resize", rt.RTV(), heap.Count())
		}
		if rt.Resource() == old || rt.Resource().State() != StatePresent {
			t.Error("Resize kept the old resource or lost the initial state")
		}
		if v, ok := heap.View(handle); !ok || v.Kind != ViewRTV || v.Resource != rt.Resource() {
			t.Errorf("slot view = %+v, want the resized target", v)
		}
	}
}

func TestDepthBufferResize(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	heap, err := NewDescriptorHeap(1, HeapTypeDSV, false, "dsv")
	if err != nil {
		t.Fatal(err)
	}
	db, err := NewDepthBuffer(device, heap, 16, 16, "depth")
	if err != nil {
		t.Fatalf("NewDepthBuffer() error = %v", err)
	}
	defer db.Destroy()

	for range 3 {
		if err := db.Resize(24, 12); err != nil {
			t.Fatalf("Resize() error = %v", err)
		}
	}
	if db.Width() != 24 || db.Height() != 12 || heap.Count() != 1 {
		t.Errorf("size = %dx%d, heap count = %d", db.Width(), db.Height(), heap.Count())
	}
	if db.Resource().State() != StateDepthWrite || db.ClearDepth != 1 {
		t.Errorf("state = %v, clear depth = %v", db.Resource().State(), db.ClearDepth)
	}
}
