// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ViewKind says what a descriptor slot describes.
type ViewKind int

const (
	// ViewNone marks an empty slot.
	ViewNone ViewKind = iota
	// ViewCBV is a constant buffer view.
	ViewCBV
	// ViewSRV is a read-only shader resource view.
	ViewSRV
	// ViewUAV is a read-write unordered access view.
	ViewUAV
	// ViewRTV is a render target view.
	ViewRTV
	// ViewDSV is a depth stencil view.
	ViewDSV
)

// String returns the string representation of ViewKind.
func (k ViewKind) String() string {
	switch k {
	case ViewNone:
		return "None"
	case ViewCBV:
		return "CBV"
	case ViewSRV:
		return "SRV"
	case ViewUAV:
		return "UAV"
	case ViewRTV:
		return "RTV"
	case ViewDSV:
		return "DSV"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// View is the content of a descriptor slot: a buffer range for CBV/SRV/UAV
// slots, a texture view for RTV/DSV slots.
type View struct {
	Kind     ViewKind
	Resource *GPUResource

	Offset uint64
	Size   uint64

	TextureView hal.TextureView
}

// bufferBinding converts a buffer view to a bind group resource.
func (v View) bufferBinding() (gputypes.BufferBinding, error) {
	if v.Resource == nil || v.Resource.Buffer() == nil {
		return gputypes.BufferBinding{}, fmt.Errorf("%w: %s view has no buffer", ErrInvalidHandle, v.Kind)
	}
	size := v.Size
	if size == 0 {
		size = v.Resource.Size() - v.Offset
	}
	return gputypes.BufferBinding{
		Buffer: v.Resource.Buffer().NativeHandle(),
		Offset: v.Offset,
		Size:   size,
	}, nil
}

// CreateConstantBufferView writes a CBV for r into slot d of heap.
func CreateConstantBufferView(heap *DescriptorHeap, d DescriptorHandle, r *GPUResource) error {
	return heap.SetView(d, View{Kind: ViewCBV, Resource: r, Size: r.Size()})
}

// CreateShaderResourceView writes a read-only view of r into slot d.
func CreateShaderResourceView(heap *DescriptorHeap, d DescriptorHandle, r *GPUResource) error {
	return heap.SetView(d, View{Kind: ViewSRV, Resource: r, Size: r.Size()})
}

// CreateUnorderedAccessView writes a read-write view of r into slot d.
func CreateUnorderedAccessView(heap *DescriptorHeap, d DescriptorHandle, r *GPUResource) error {
	return heap.SetView(d, View{Kind: ViewUAV, Resource: r, Size: r.Size()})
}
