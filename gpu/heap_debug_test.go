// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build dxdebug

package gpu

import (
	"errors"
	"testing"
)

func TestDebugHandleProvenance(t *testing.T) {
	if !DebugHandles {
		t.Fatal("DebugHandles = false in dxdebug build")
	}
	h, _ := NewDescriptorHeap(4, HeapTypeCommon, true, "debug")
	h.Allocate()
	d, _ := h.Allocate()
	if d.Heap() != h {
		t.Errorf("Heap() = %p, want %p", d.Heap(), h)
	}
	if d.Offset() != h.DescriptorSize() {
		t.Errorf("Offset() = %d, want %d", d.Offset(), h.DescriptorSize())
	}
}

func TestDebugDoubleFree(t *testing.T) {
	h, _ := NewDescriptorHeap(4, HeapTypeCommon, true, "debug")
	d, _ := h.Allocate()
	copyOf := d
	if err := h.Deallocate(&d); err != nil {
		t.Fatalf("Deallocate() error = %v", err)
	}
	if err := h.Deallocate(&copyOf); !errors.Is(err, ErrDoubleFree) {
		t.Errorf("Deallocate(copy) error = %v, want ErrDoubleFree", err)
	}
}

func TestDebugForgedHandle(t *testing.T) {
	h, _ := NewDescriptorHeap(4, HeapTypeCommon, true, "debug")
	d, _ := h.Allocate()
	forged := DescriptorHandle{CPU: d.CPU, GPU: d.GPU}
	if err := h.Deallocate(&forged); !errors.Is(err, ErrForeignHandle) {
		t.Errorf("Deallocate(forged) error = %v, want ErrForeignHandle", err)
	}
}
