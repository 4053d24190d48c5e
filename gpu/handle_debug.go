// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build dxdebug

package gpu

// DebugHandles reports whether descriptor handles carry provenance.
const DebugHandles = true

// provenance records where a handle came from.
type provenance struct {
	heap   *DescriptorHeap
	offset uint64
}

func (provenance) bind(h *DescriptorHeap, offset uint64) provenance {
	return provenance{heap: h, offset: offset}
}

// Heap returns the heap that allocated the handle.
func (p provenance) Heap() *DescriptorHeap { return p.heap }

// Offset returns the byte offset of the handle within its heap.
func (p provenance) Offset() uint64 { return p.offset }

// heapTracker remembers released slots so copies of a handle cannot be
// released twice.
type heapTracker struct {
	released map[uint32]struct{}
}

func (t *heapTracker) release(h *DescriptorHeap, d DescriptorHandle, index uint32) error {
	if d.heap != h {
		return ErrForeignHandle
	}
	if d.offset != uint64(index)*h.increment {
		return ErrInvalidHandle
	}
	if t.released == nil {
		t.released = make(map[uint32]struct{})
	}
	if _, ok := t.released[index]; ok {
		return ErrDoubleFree
	}
	t.released[index] = struct{}{}
	return nil
}
