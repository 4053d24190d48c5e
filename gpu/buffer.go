// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ConstantBufferAlignment is the size granularity of constant buffers.
const ConstantBufferAlignment = 256

// IndexFormat is the element type of an index buffer.
type IndexFormat int

const (
	// IndexUint16 uses 16-bit indices.
	IndexUint16 IndexFormat = iota
	// IndexUint32 uses 32-bit indices.
	IndexUint32
)

// String returns the string representation of IndexFormat.
func (f IndexFormat) String() string {
	switch f {
	case IndexUint16:
		return "Uint16"
	case IndexUint32:
		return "Uint32"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// Size returns the byte size of one index.
func (f IndexFormat) Size() uint64 {
	if f == IndexUint32 {
		return 4
	}
	return 2
}

func (f IndexFormat) halFormat() gputypes.IndexFormat {
	if f == IndexUint32 {
		return gputypes.IndexFormatUint32
	}
	return gputypes.IndexFormatUint16
}

// Float32Bytes encodes values as little-endian bytes.
func Float32Bytes(values ...float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// alignUp rounds n up to a multiple of align, which must be a power of two.
func alignUp(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}

// writeResource uploads data at offset into r through queue.
func writeResource(queue hal.Queue, r *GPUResource, offset uint64, data []byte) error {
	buf := r.Buffer()
	if buf == nil {
		return fmt.Errorf("%w: %s", ErrResourceDestroyed, r.Label())
	}
	if offset+uint64(len(data)) > r.Size() {
		return fmt.Errorf("%w: %d bytes at %d into %s (%d bytes)",
			ErrDataTooLarge, len(data), offset, r.Label(), r.Size())
	}
	if len(data) == 0 {
		return nil
	}
	queue.WriteBuffer(buf, offset, data)
	return nil
}

// VertexBuffer holds vertexCount vertices of stride bytes.
type VertexBuffer struct {
	res    *GPUResource
	queue  hal.Queue
	count  uint32
	stride uint32
}

// NewVertexBuffer creates a vertex buffer in the VertexAndConstantBuffer state.
func NewVertexBuffer(device hal.Device, queue hal.Queue, vertexCount, stride uint32, label string) (*VertexBuffer, error) {
	size := uint64(vertexCount) * uint64(stride)
	res, err := NewBufferResource(device, &hal.BufferDescriptor{
		Label: label,
		Size:  alignUp(size, 4),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	}, StateVertexAndConstantBuffer)
	if err != nil {
		return nil, err
	}
	return &VertexBuffer{res: res, queue: queue, count: vertexCount, stride: stride}, nil
}

// WriteData uploads vertex data starting at the first vertex.
func (b *VertexBuffer) WriteData(data []byte) error {
	return writeResource(b.queue, b.res, 0, data)
}

// Resource returns the underlying resource.
func (b *VertexBuffer) Resource() *GPUResource { return b.res }

// Count returns the vertex count.
func (b *VertexBuffer) Count() uint32 { return b.count }

// Stride returns the size of one vertex.
func (b *VertexBuffer) Stride() uint32 { return b.stride }

// SizeInBytes returns count*stride.
func (b *VertexBuffer) SizeInBytes() uint64 { return uint64(b.count) * uint64(b.stride) }

// Destroy releases the buffer.
func (b *VertexBuffer) Destroy() { b.res.Destroy() }

// IndexBuffer holds indexCount indices.
type IndexBuffer struct {
	res    *GPUResource
	queue  hal.Queue
	count  uint32
	format IndexFormat
}

// NewIndexBuffer creates an index buffer in the IndexBuffer state.
func NewIndexBuffer(device hal.Device, queue hal.Queue, indexCount uint32, format IndexFormat, label string) (*IndexBuffer, error) {
	size := uint64(indexCount) * format.Size()
	res, err := NewBufferResource(device, &hal.BufferDescriptor{
		Label: label,
		Size:  alignUp(size, 4),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	}, StateIndexBuffer)
	if err != nil {
		return nil, err
	}
	return &IndexBuffer{res: res, queue: queue, count: indexCount, format: format}, nil
}

// WriteData uploads raw index bytes.
func (b *IndexBuffer) WriteData(data []byte) error {
	return writeResource(b.queue, b.res, 0, data)
}

// WriteUint16 encodes and uploads 16-bit indices.
func (b *IndexBuffer) WriteUint16(indices []uint16) error {
	out := make([]byte, len(indices)*2)
	for i, v := range indices {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return b.WriteData(out)
}

// WriteUint32 encodes and uploads 32-bit indices.
func (b *IndexBuffer) WriteUint32(indices []uint32) error {
	out := make([]byte, len(indices)*4)
	for i, v := range indices {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return b.WriteData(out)
}

// Resource returns the underlying resource.
func (b *IndexBuffer) Resource() *GPUResource { return b.res }

// Count returns the index count.
func (b *IndexBuffer) Count() uint32 { return b.count }

// Format returns the index format.
func (b *IndexBuffer) Format() IndexFormat { return b.format }

// Destroy releases the buffer.
func (b *IndexBuffer) Destroy() { b.res.Destroy() }

// ConstantBuffer is a uniform buffer with a persistent CPU copy. Writes go
// to the copy and reach the GPU on Flush.
type ConstantBuffer struct {
	res    *GPUResource
	queue  hal.Queue
	mapped []byte
}

// NewConstantBuffer creates a constant buffer of at least size bytes,
// rounded up to ConstantBufferAlignment, in the GenericRead state.
func NewConstantBuffer(device hal.Device, queue hal.Queue, size uint64, label string) (*ConstantBuffer, error) {
	if size == 0 {
		return nil, ErrInvalidSize
	}
	aligned := alignUp(size, ConstantBufferAlignment)
	res, err := NewBufferResource(device, &hal.BufferDescriptor{
		Label: label,
		Size:  aligned,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	}, StateGenericRead)
	if err != nil {
		return nil, err
	}
	return &ConstantBuffer{res: res, queue: queue, mapped: make([]byte, aligned)}, nil
}

// Mapped returns the CPU copy of the buffer contents.
func (b *ConstantBuffer) Mapped() []byte { return b.mapped }

// Write copies data into the CPU copy at offset.
func (b *ConstantBuffer) Write(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > uint64(len(b.mapped)) {
		return fmt.Errorf("%w: %d bytes at %d into %s", ErrDataTooLarge, len(data), offset, b.res.Label())
	}
	copy(b.mapped[offset:], data)
	return nil
}

// Flush uploads the CPU copy.
func (b *ConstantBuffer) Flush() error {
	return writeResource(b.queue, b.res, 0, b.mapped)
}

// Resource returns the underlying resource.
func (b *ConstantBuffer) Resource() *GPUResource { return b.res }

// Size returns the aligned size.
func (b *ConstantBuffer) Size() uint64 { return b.res.Size() }

// Destroy releases the buffer.
func (b *ConstantBuffer) Destroy() { b.res.Destroy() }

// StructuredBuffer is an array of fixed-size elements usable as a shader
// resource or unordered access view.
type StructuredBuffer struct {
	res          *GPUResource
	queue        hal.Queue
	mapped       []byte
	elementCount uint32
	elementSize  uint32
}

// NewStructuredBuffer creates a storage buffer in the Common state.
func NewStructuredBuffer(device hal.Device, queue hal.Queue, elementCount, elementSize uint32, label string) (*StructuredBuffer, error) {
	size := uint64(elementCount) * uint64(elementSize)
	res, err := NewBufferResource(device, &hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageVertex |
			gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc,
	}, StateCommon)
	if err != nil {
		return nil, err
	}
	return &StructuredBuffer{
		res:          res,
		queue:        queue,
		mapped:       make([]byte, size),
		elementCount: elementCount,
		elementSize:  elementSize,
	}, nil
}

// Mapped returns the CPU copy of the buffer contents.
func (b *StructuredBuffer) Mapped() []byte { return b.mapped }

// Flush uploads the CPU copy.
func (b *StructuredBuffer) Flush() error {
	return writeResource(b.queue, b.res, 0, b.mapped)
}

// Resource returns the underlying resource.
func (b *StructuredBuffer) Resource() *GPUResource { return b.res }

// ElementCount returns the number of elements.
func (b *StructuredBuffer) ElementCount() uint32 { return b.elementCount }

// ElementSize returns the byte size of one element.
func (b *StructuredBuffer) ElementSize() uint32 { return b.elementSize }

// Destroy releases the buffer.
func (b *StructuredBuffer) Destroy() { b.res.Destroy() }
