// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/dxframe/internal/logging"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ListState is the lifecycle state of a CommandList.
type ListState int

const (
	// ListClosed is the state after creation and after Close.
	ListClosed ListState = iota
	// ListRecording accepts commands.
	ListRecording
	// ListExecuted has been submitted and not yet waited on.
	ListExecuted
	// ListWaited has completed on the GPU.
	ListWaited
)

// String returns the string representation of ListState.
func (s ListState) String() string {
	switch s {
	case ListClosed:
		return "Closed"
	case ListRecording:
		return "Recording"
	case ListExecuted:
		return "Executed"
	case ListWaited:
		return "Waited"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// RenderPassDesc describes the attachments of a render pass.
type RenderPassDesc struct {
	Label   string
	Targets []*RenderTarget
	Depth   *DepthBuffer

	// Clear clears the targets to their clear colors and the depth buffer
	// to its clear values. Otherwise existing contents are loaded.
	Clear bool
}

// CommandList records GPU work into a command allocator and submits it
// through a fence.
//
// Lifecycle:
//
//	Closed  --Reset-->   Recording
//	Recording --Close--> Closed
//	Recording --Execute--> Executed --Wait--> Waited --Reset--> Recording
type CommandList struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	fence  *Fence

	allocator *CommandAllocator
	encoder   hal.CommandEncoder
	state     ListState

	// executedValue is the fence value signaled by the last Execute.
	executedValue uint64

	render   hal.RenderPassEncoder
	compute  hal.ComputePassEncoder
	pipeline *PipelineState
	rootSig  *RootSignature
	tables   map[uint32]hal.BindGroup

	barriers int
}

// NewCommandList creates a closed command list bound to allocator.
func NewCommandList(device hal.Device, queue hal.Queue, fence *Fence, allocator *CommandAllocator) (*CommandList, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if fence == nil || allocator == nil {
		return nil, fmt.Errorf("gpu: command list needs a fence and an allocator")
	}
	return &CommandList{
		device:    device,
		queue:     queue,
		fence:     fence,
		allocator: allocator,
		state:     ListClosed,
		tables:    make(map[uint32]hal.BindGroup),
	}, nil
}

// State returns the lifecycle state.
func (l *CommandList) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// IsRecording reports whether the list accepts commands.
func (l *CommandList) IsRecording() bool {
	return l.State() == ListRecording
}

// ExecutedValue returns the fence value signaled by the last Execute.
func (l *CommandList) ExecutedValue() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.executedValue
}

// BarrierCount returns the number of barriers recorded since Reset.
func (l *CommandList) BarrierCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.barriers
}

// Reset begins recording into allocator. A nil allocator reuses the
// current one. Reset fails while recording, and after Execute until Wait
// has been called.
func (l *CommandList) Reset(allocator *CommandAllocator) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case ListRecording:
		return ErrRecording
	case ListExecuted:
		return ErrNotWaited
	}
	if allocator != nil {
		l.allocator = allocator
	}
	l.encoder = l.allocator.encoder
	if err := l.encoder.BeginEncoding(l.allocator.label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	l.state = ListRecording
	l.render = nil
	l.compute = nil
	l.pipeline = nil
	l.rootSig = nil
	l.barriers = 0
	clear(l.tables)
	return nil
}

// Close finishes recording without submitting. The recorded commands are
// released with the allocator.
func (l *CommandList) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != ListRecording {
		return ErrNotRecording
	}
	l.endPassLocked()
	cb, err := l.encoder.EndEncoding()
	if err != nil {
		l.encoder.DiscardEncoding()
		l.state = ListClosed
		return fmt.Errorf("end encoding: %w", err)
	}
	l.allocator.track(cb)
	l.state = ListClosed
	return nil
}

// Execute closes the list, submits it to the queue and signals the fence.
// It returns the signaled fence value.
func (l *CommandList) Execute() (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != ListRecording {
		return 0, ErrNotRecording
	}
	l.endPassLocked()
	cb, err := l.encoder.EndEncoding()
	if err != nil {
		l.encoder.DiscardEncoding()
		l.state = ListClosed
		return 0, fmt.Errorf("end encoding: %w", err)
	}
	l.allocator.track(cb)

	value, err := l.fence.Submit(l.queue, []hal.CommandBuffer{cb})
	if err != nil {
		l.state = ListClosed
		return 0, err
	}
	l.executedValue = value
	l.state = ListExecuted
	return value, nil
}

// Wait blocks until the last execution has completed.
func (l *CommandList) Wait() error {
	l.mu.Lock()
	if l.state == ListRecording {
		l.mu.Unlock()
		return ErrRecording
	}
	value := l.executedValue
	l.mu.Unlock()

	if err := l.fence.WaitForValue(value); err != nil {
		return err
	}

	l.mu.Lock()
	if l.state == ListExecuted {
		l.state = ListWaited
	}
	l.mu.Unlock()
	return nil
}

// ResourceBarrier records barriers. Texture transitions become HAL texture
// barriers; buffer transitions and UAV barriers are validated and logged.
func (l *CommandList) ResourceBarrier(barriers ...Barrier) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != ListRecording {
		return ErrNotRecording
	}
	if l.render != nil || l.compute != nil {
		return ErrPassActive
	}

	var halBarriers []hal.TextureBarrier
	for _, b := range barriers {
		if b.Resource == nil {
			return fmt.Errorf("%w: barrier without resource", ErrInvalidParameter)
		}
		if b.Resource.IsDestroyed() {
			return fmt.Errorf("%w: %s", ErrResourceDestroyed, b.Resource.Label())
		}
		logging.Logger().Debug("resource barrier", "barrier", b.String())
		l.barriers++

		if b.Kind != BarrierTransition || !b.Resource.IsTexture() {
			continue
		}
		oldUsage, newUsage := b.Before.TextureUsage(), b.After.TextureUsage()
		if oldUsage == 0 || newUsage == 0 || oldUsage == newUsage {
			continue
		}
		halBarriers = append(halBarriers, hal.TextureBarrier{
			Texture: b.Resource.Texture(),
			Usage:   hal.TextureUsageTransition{OldUsage: oldUsage, NewUsage: newUsage},
		})
	}
	if len(halBarriers) > 0 {
		l.encoder.TransitionTextures(halBarriers)
	}
	return nil
}

// BeginRenderPass opens a render pass on the given attachments. The
// pipeline state and descriptor tables set so far are applied to it.
func (l *CommandList) BeginRenderPass(desc RenderPassDesc) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != ListRecording {
		return ErrNotRecording
	}
	if l.render != nil || l.compute != nil {
		return ErrPassActive
	}

	colorLoad := gputypes.LoadOpLoad
	if desc.Clear {
		colorLoad = gputypes.LoadOpClear
	}
	rpDesc := &hal.RenderPassDescriptor{Label: desc.Label}
	for _, rt := range desc.Targets {
		rpDesc.ColorAttachments = append(rpDesc.ColorAttachments, hal.RenderPassColorAttachment{
			View:       rt.View(),
			LoadOp:     colorLoad,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: rt.ClearColor,
		})
	}
	if desc.Depth != nil {
		rpDesc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              desc.Depth.View(),
			DepthLoadOp:       colorLoad,
			DepthStoreOp:      gputypes.StoreOpStore,
			DepthClearValue:   desc.Depth.ClearDepth,
			StencilLoadOp:     colorLoad,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: desc.Depth.ClearStencil,
		}
	}

	l.render = l.encoder.BeginRenderPass(rpDesc)
	if l.pipeline != nil && l.pipeline.render != nil {
		l.render.SetPipeline(l.pipeline.render)
	}
	for slot, bg := range l.tables {
		l.render.SetBindGroup(slot, bg, nil)
	}
	return nil
}

// EndRenderPass closes the active render pass.
func (l *CommandList) EndRenderPass() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != ListRecording {
		return ErrNotRecording
	}
	if l.render == nil {
		return ErrNoPass
	}
	l.render.End()
	l.render = nil
	return nil
}

// BeginComputePass opens a compute pass.
func (l *CommandList) BeginComputePass(label string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != ListRecording {
		return ErrNotRecording
	}
	if l.render != nil || l.compute != nil {
		return ErrPassActive
	}
	l.compute = l.encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: label})
	if l.pipeline != nil && l.pipeline.compute != nil {
		l.compute.SetPipeline(l.pipeline.compute)
	}
	for slot, bg := range l.tables {
		l.compute.SetBindGroup(slot, bg, nil)
	}
	return nil
}

// EndComputePass closes the active compute pass.
func (l *CommandList) EndComputePass() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != ListRecording {
		return ErrNotRecording
	}
	if l.compute == nil {
		return ErrNoPass
	}
	l.compute.End()
	l.compute = nil
	return nil
}

func (l *CommandList) endPassLocked() {
	if l.render != nil {
		logging.Logger().Warn("render pass left open, ending it")
		l.render.End()
		l.render = nil
	}
	if l.compute != nil {
		logging.Logger().Warn("compute pass left open, ending it")
		l.compute.End()
		l.compute = nil
	}
}

// SetPipelineState selects the pipeline used by subsequent draws or
// dispatches. Switching root signatures drops bound descriptor tables.
func (l *CommandList) SetPipelineState(p *PipelineState) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != ListRecording {
		return ErrNotRecording
	}
	if p == nil {
		return ErrNoPipeline
	}
	if l.rootSig != p.rootSig {
		clear(l.tables)
	}
	l.pipeline = p
	l.rootSig = p.rootSig
	if l.render != nil && p.render != nil {
		l.render.SetPipeline(p.render)
	}
	if l.compute != nil && p.compute != nil {
		l.compute.SetPipeline(p.compute)
	}
	return nil
}

// SetDescriptorTable binds the views in handles to root parameter param of
// the current pipeline's root signature.
func (l *CommandList) SetDescriptorTable(param uint32, heap *DescriptorHeap, handles ...DescriptorHandle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != ListRecording {
		return ErrNotRecording
	}
	if l.rootSig == nil {
		return ErrNoRootSignature
	}
	bg, err := l.rootSig.bindGroup(param, heap, handles)
	if err != nil {
		return err
	}
	l.tables[param] = bg
	if l.render != nil {
		l.render.SetBindGroup(param, bg, nil)
	}
	if l.compute != nil {
		l.compute.SetBindGroup(param, bg, nil)
	}
	return nil
}

// SetVertexBuffer binds vb to slot.
func (l *CommandList) SetVertexBuffer(slot uint32, vb *VertexBuffer) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.renderReadyLocked(); err != nil {
		return err
	}
	buf := vb.Resource().Buffer()
	if buf == nil {
		return ErrResourceDestroyed
	}
	l.render.SetVertexBuffer(slot, buf, 0)
	return nil
}

// SetIndexBuffer binds ib for indexed draws.
func (l *CommandList) SetIndexBuffer(ib *IndexBuffer) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.renderReadyLocked(); err != nil {
		return err
	}
	buf := ib.Resource().Buffer()
	if buf == nil {
		return ErrResourceDestroyed
	}
	l.render.SetIndexBuffer(buf, ib.Format().halFormat(), 0)
	return nil
}

// Draw records a non-indexed draw.
func (l *CommandList) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.renderReadyLocked(); err != nil {
		return err
	}
	if l.pipeline == nil {
		return ErrNoPipeline
	}
	l.render.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	return nil
}

// DrawIndexed records an indexed draw.
func (l *CommandList) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.renderReadyLocked(); err != nil {
		return err
	}
	if l.pipeline == nil {
		return ErrNoPipeline
	}
	l.render.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
	return nil
}

// Dispatch records a compute dispatch.
func (l *CommandList) Dispatch(x, y, z uint32) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != ListRecording {
		return ErrNotRecording
	}
	if l.compute == nil {
		return ErrNoPass
	}
	if l.pipeline == nil || l.pipeline.compute == nil {
		return ErrNoPipeline
	}
	l.compute.Dispatch(x, y, z)
	return nil
}

func (l *CommandList) renderReadyLocked() error {
	if l.state != ListRecording {
		return ErrNotRecording
	}
	if l.render == nil {
		return ErrNoPass
	}
	return nil
}

// CopyBuffer copies size bytes between two buffer resources.
func (l *CommandList) CopyBuffer(dst *GPUResource, dstOffset uint64, src *GPUResource, srcOffset, size uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.copyReadyLocked(); err != nil {
		return err
	}
	if src.Buffer() == nil || dst.Buffer() == nil {
		return ErrResourceDestroyed
	}
	if srcOffset+size > src.Size() || dstOffset+size > dst.Size() {
		return fmt.Errorf("%w: copy of %d bytes", ErrDataTooLarge, size)
	}
	l.encoder.CopyBufferToBuffer(src.Buffer(), dst.Buffer(), []hal.BufferCopy{{
		SrcOffset: srcOffset,
		DstOffset: dstOffset,
		Size:      size,
	}})
	return nil
}

// CopyTextureToBuffer copies a width×height region of src into dst using
// the given row pitch, which must be a multiple of CopyPitchAlignment.
func (l *CommandList) CopyTextureToBuffer(dst *GPUResource, src *GPUResource, width, height, bytesPerRow uint32) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.copyReadyLocked(); err != nil {
		return err
	}
	if src.Texture() == nil || dst.Buffer() == nil {
		return ErrResourceDestroyed
	}
	if bytesPerRow%CopyPitchAlignment != 0 {
		return fmt.Errorf("%w: row pitch %d not aligned to %d", ErrInvalidParameter, bytesPerRow, CopyPitchAlignment)
	}
	if uint64(bytesPerRow)*uint64(height) > dst.Size() {
		return fmt.Errorf("%w: readback needs %d bytes", ErrDataTooLarge, uint64(bytesPerRow)*uint64(height))
	}
	l.encoder.CopyTextureToBuffer(src.Texture(), dst.Buffer(), []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: bytesPerRow, RowsPerImage: height},
		TextureBase:  hal.ImageCopyTexture{Texture: src.Texture(), MipLevel: 0},
		Size:         hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	}})
	return nil
}

func (l *CommandList) copyReadyLocked() error {
	if l.state != ListRecording {
		return ErrNotRecording
	}
	if l.render != nil || l.compute != nil {
		return ErrPassActive
	}
	return nil
}

// CopyPitchAlignment is the required row pitch alignment for texture to
// buffer copies.
const CopyPitchAlignment = 256

// AlignedRowPitch returns width*4 rounded up to CopyPitchAlignment.
func AlignedRowPitch(width uint32) uint32 {
	return (width*4 + CopyPitchAlignment - 1) &^ (CopyPitchAlignment - 1)
}
