// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/dxframe/internal/logging"
)

// HeapType is the kind of descriptor a heap holds.
type HeapType int

const (
	// HeapTypeCommon holds constant buffer, shader resource and unordered
	// access views.
	HeapTypeCommon HeapType = iota
	// HeapTypeSampler holds samplers.
	HeapTypeSampler
	// HeapTypeRTV holds render target views. Never shader visible.
	HeapTypeRTV
	// HeapTypeDSV holds depth stencil views. Never shader visible.
	HeapTypeDSV
)

// String returns the string representation of HeapType.
func (t HeapType) String() string {
	switch t {
	case HeapTypeCommon:
		return "CBV_SRV_UAV"
	case HeapTypeSampler:
		return "Sampler"
	case HeapTypeRTV:
		return "RTV"
	case HeapTypeDSV:
		return "DSV"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// DescriptorSize returns the byte stride between slots of this type.
func (t HeapType) DescriptorSize() uint64 {
	switch t {
	case HeapTypeDSV:
		return 8
	default:
		return 32
	}
}

// heapAlignment is the granularity of heap address ranges.
const heapAlignment = 1 << 16

// Address spaces for synthetic descriptor addresses. Every heap takes a
// disjoint range so a handle identifies its heap by address alone.
var (
	nextCPUBase atomic.Uint64
	nextGPUBase atomic.Uint64
)

func init() {
	nextCPUBase.Store(heapAlignment)
	nextGPUBase.Store(1 << 40)
}

func reserve(counter *atomic.Uint64, span uint64) uint64 {
	span = (span + heapAlignment - 1) &^ (heapAlignment - 1)
	return counter.Add(span) - span
}

// DescriptorHandle identifies one slot of a DescriptorHeap.
//
// A zero handle is invalid. GPU is zero for slots of heaps that are not
// shader visible. Builds with the dxdebug tag also record the owning heap
// and byte offset, which lets Deallocate reject foreign handles and double
// frees.
type DescriptorHandle struct {
	CPU uint64
	GPU uint64
	provenance
}

// IsNull reports whether the handle is unallocated.
func (h DescriptorHandle) IsNull() bool { return h.CPU == 0 }

// IsShaderVisible reports whether the handle has a GPU address.
func (h DescriptorHandle) IsShaderVisible() bool { return h.GPU != 0 }

// DescriptorHeap is a fixed-capacity bump allocator of descriptor slots.
//
// Allocate hands out slots in order; Deallocate validates and zeroes a
// handle but never returns its slot, so Count only grows.
type DescriptorHeap struct {
	mu sync.Mutex

	name          string
	heapType      HeapType
	shaderVisible bool
	capacity      uint32
	increment     uint64
	cpuBase       uint64
	gpuBase       uint64
	cursor        uint32

	views   []View
	tracker heapTracker
}

// NewDescriptorHeap creates a heap of capacity slots. shaderVisible is
// ignored for RTV and DSV heaps.
func NewDescriptorHeap(capacity uint32, heapType HeapType, shaderVisible bool, name string) (*DescriptorHeap, error) {
	if capacity == 0 {
		return nil, ErrInvalidCapacity
	}
	if heapType == HeapTypeRTV || heapType == HeapTypeDSV {
		shaderVisible = false
	}
	inc := heapType.DescriptorSize()
	span := uint64(capacity) * inc

	h := &DescriptorHeap{
		name:          name,
		heapType:      heapType,
		shaderVisible: shaderVisible,
		capacity:      capacity,
		increment:     inc,
		cpuBase:       reserve(&nextCPUBase, span),
		views:         make([]View, capacity),
	}
	if shaderVisible {
		h.gpuBase = reserve(&nextGPUBase, span)
	}
	logging.Logger().Debug("descriptor heap created",
		"name", name, "type", heapType, "capacity", capacity, "shaderVisible", shaderVisible)
	return h, nil
}

// Allocate returns the next unused slot.
func (h *DescriptorHeap) Allocate() (DescriptorHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor >= h.capacity {
		return DescriptorHandle{}, fmt.Errorf("%w: %s (%d slots)", ErrHeapFull, h.name, h.capacity)
	}
	offset := uint64(h.cursor) * h.increment
	d := DescriptorHandle{CPU: h.cpuBase + offset}
	if h.shaderVisible {
		d.GPU = h.gpuBase + offset
	}
	d.provenance = d.provenance.bind(h, offset)
	h.cursor++
	return d, nil
}

// Deallocate validates d against this heap and zeroes it.
// The slot is not made available again.
func (h *DescriptorHeap) Deallocate(d *DescriptorHandle) error {
	if d == nil || d.IsNull() {
		return ErrInvalidHandle
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	index, err := h.indexLocked(*d)
	if err != nil {
		return err
	}
	if err := h.tracker.release(h, *d, index); err != nil {
		return err
	}
	h.views[index] = View{}
	*d = DescriptorHandle{}
	return nil
}

// indexLocked maps a handle to its slot index. The caller must hold h.mu.
func (h *DescriptorHeap) indexLocked(d DescriptorHandle) (uint32, error) {
	span := uint64(h.capacity) * h.increment
	if d.CPU < h.cpuBase || d.CPU >= h.cpuBase+span {
		return 0, ErrForeignHandle
	}
	offset := d.CPU - h.cpuBase
	if offset%h.increment != 0 {
		return 0, ErrInvalidHandle
	}
	index := uint32(offset / h.increment)
	if index >= h.cursor {
		return 0, ErrInvalidHandle
	}
	if h.shaderVisible && d.GPU != h.gpuBase+offset {
		return 0, ErrInvalidHandle
	}
	return index, nil
}

// SetView records the resource view stored in slot d.
func (h *DescriptorHeap) SetView(d DescriptorHandle, v View) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	index, err := h.indexLocked(d)
	if err != nil {
		return err
	}
	h.views[index] = v
	return nil
}

// View returns the view stored in slot d.
func (h *DescriptorHeap) View(d DescriptorHandle) (View, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	index, err := h.indexLocked(d)
	if err != nil {
		return View{}, false
	}
	v := h.views[index]
	return v, v.Kind != ViewNone
}

// Contains reports whether d was allocated from this heap.
func (h *DescriptorHeap) Contains(d DescriptorHandle) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.indexLocked(d)
	return err == nil
}

// Name returns the debug name.
func (h *DescriptorHeap) Name() string { return h.name }

// Type returns the heap type.
func (h *DescriptorHeap) Type() HeapType { return h.heapType }

// ShaderVisible reports whether handles carry GPU addresses.
func (h *DescriptorHeap) ShaderVisible() bool { return h.shaderVisible }

// Capacity returns the number of slots.
func (h *DescriptorHeap) Capacity() uint32 { return h.capacity }

// DescriptorSize returns the byte stride between slots.
func (h *DescriptorHeap) DescriptorSize() uint64 { return h.increment }

// CPUStart returns the address of slot 0.
func (h *DescriptorHeap) CPUStart() uint64 { return h.cpuBase }

// GPUStart returns the GPU address of slot 0, or zero.
func (h *DescriptorHeap) GPUStart() uint64 { return h.gpuBase }

// Count returns the number of slots handed out so far.
func (h *DescriptorHeap) Count() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

// Remaining returns the number of slots still available.
func (h *DescriptorHeap) Remaining() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.capacity - h.cursor
}
