// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/dxframe/internal/logging"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	// Register the Vulkan backend for Open.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Backend names accepted by Options.Backend.
const (
	BackendVulkan = "vulkan"
	BackendNoop   = "noop"
)

// Options configures Open.
type Options struct {
	// Backend selects the HAL backend. Empty means BackendVulkan.
	Backend string

	Width  uint32
	Height uint32

	// BufferCount is the number of back buffers and frame slots.
	BufferCount int

	// Format is the back buffer format.
	Format gputypes.TextureFormat

	// ClearColor is applied to every back buffer. The zero value selects
	// the default color; use a non-zero alpha for transparent black.
	ClearColor gputypes.Color

	RTVHeapSize    uint32
	DSVHeapSize    uint32
	CommonHeapSize uint32
}

// DefaultOptions returns a 1280x720 double-buffered RGBA8 configuration.
func DefaultOptions() Options {
	return Options{
		Backend:        BackendVulkan,
		Width:          1280,
		Height:         720,
		BufferCount:    2,
		Format:         gputypes.TextureFormatRGBA8Unorm,
		ClearColor:     gputypes.Color{R: 0.1, G: 0.25, B: 0.5, A: 1},
		RTVHeapSize:    16,
		DSVHeapSize:    8,
		CommonHeapSize: 1024,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Backend == "" {
		o.Backend = d.Backend
	}
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.BufferCount == 0 {
		o.BufferCount = d.BufferCount
	}
	if o.Format == gputypes.TextureFormatUndefined {
		o.Format = d.Format
	}
	if o.ClearColor == (gputypes.Color{}) {
		o.ClearColor = d.ClearColor
	}
	if o.RTVHeapSize == 0 {
		o.RTVHeapSize = d.RTVHeapSize
	}
	if o.DSVHeapSize == 0 {
		o.DSVHeapSize = d.DSVHeapSize
	}
	if o.CommonHeapSize == 0 {
		o.CommonHeapSize = d.CommonHeapSize
	}
	return o
}

// instanceFactory is implemented by every HAL backend.
type instanceFactory interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

func backendFor(name string) (instanceFactory, error) {
	switch name {
	case BackendVulkan:
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("%w: vulkan not available", ErrUnknownBackend)
		}
		return b, nil
	case BackendNoop:
		return &noop.API{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Device owns the HAL device and every object a frame needs: per-frame
// command allocators, one command list and fence, the descriptor heaps,
// the swap chain and the depth buffer.
//
// Frame flow:
//
//	list, _ := dev.BeginFrame()
//	// record into list
//	dev.EndFrame()
type Device struct {
	mu sync.Mutex

	opts     Options
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	adapter  string
	shared   bool

	fence      *Fence
	allocators []*CommandAllocator
	list       *CommandList

	rtvHeap    *DescriptorHeap
	dsvHeap    *DescriptorHeap
	commonHeap *DescriptorHeap

	swapChain *SwapChain
	depth     *DepthBuffer
	pipelines *PipelineCache

	frameActive bool
	frames      uint64
	closed      bool
}

// Open creates a device on the configured backend, preferring a discrete
// GPU, then an integrated one, then the first adapter.
func Open(opts Options) (*Device, error) {
	opts = opts.withDefaults()
	backend, err := backendFor(opts.Backend)
	if err != nil {
		return nil, err
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := selectAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	d := &Device{
		opts:     opts,
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		adapter:  selected.Info.Name,
	}
	if err := d.bringUp(); err != nil {
		d.Close()
		return nil, err
	}
	logging.Logger().Info("device opened", "backend", opts.Backend, "adapter", d.adapter,
		"width", opts.Width, "height", opts.Height, "buffers", opts.BufferCount)
	return d, nil
}

func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for _, want := range []gputypes.DeviceType{gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU} {
		for i := range adapters {
			if adapters[i].Info.DeviceType == want {
				return &adapters[i]
			}
		}
	}
	return &adapters[0]
}

// OpenShared builds a device on the HAL device and queue of a host
// application. The provider must expose HalDevice and HalQueue. Close does
// not destroy the shared HAL device.
func OpenShared(provider gpucontext.DeviceProvider, opts Options) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHalProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNotHalProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNotHalProvider)
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts.Format = f
	}
	opts = opts.withDefaults()

	d := &Device{
		opts:    opts,
		device:  device,
		queue:   queue,
		adapter: "shared",
		shared:  true,
	}
	if err := d.bringUp(); err != nil {
		d.Close()
		return nil, err
	}
	logging.Logger().Info("device opened on shared HAL device", "format", opts.Format)
	return d, nil
}

func (d *Device) bringUp() error {
	var err error
	if d.fence, err = NewFence(d.device); err != nil {
		return err
	}
	for i := range d.opts.BufferCount {
		alloc, err := NewCommandAllocator(d.device, fmt.Sprintf("frame_%d", i))
		if err != nil {
			return err
		}
		d.allocators = append(d.allocators, alloc)
	}
	if d.list, err = NewCommandList(d.device, d.queue, d.fence, d.allocators[0]); err != nil {
		return err
	}

	if d.rtvHeap, err = NewDescriptorHeap(d.opts.RTVHeapSize, HeapTypeRTV, false, "rtv"); err != nil {
		return err
	}
	if d.dsvHeap, err = NewDescriptorHeap(d.opts.DSVHeapSize, HeapTypeDSV, false, "dsv"); err != nil {
		return err
	}
	if d.commonHeap, err = NewDescriptorHeap(d.opts.CommonHeapSize, HeapTypeCommon, true, "cbv_srv_uav"); err != nil {
		return err
	}

	if d.swapChain, err = NewSwapChain(d.device, d.queue, d.rtvHeap, d.opts.BufferCount,
		d.opts.Width, d.opts.Height, d.opts.Format); err != nil {
		return err
	}
	d.applyClearColor()
	if d.depth, err = NewDepthBuffer(d.device, d.dsvHeap, d.opts.Width, d.opts.Height, "depth"); err != nil {
		return err
	}
	d.pipelines = NewPipelineCache(d.device)
	return nil
}

func (d *Device) applyClearColor() {
	for i := range d.swapChain.BufferCount() {
		d.swapChain.BackBuffer(i).ClearColor = d.opts.ClearColor
	}
}

// Close waits for the GPU and releases everything in reverse creation
// order. It is safe to call more than once.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true

	if d.fence != nil {
		if err := d.fence.WaitForGPU(); err != nil {
			logging.Logger().Warn("wait for GPU on close", "error", err)
		}
	}
	if d.pipelines != nil {
		d.pipelines.DestroyAll()
	}
	if d.depth != nil {
		d.depth.Destroy()
	}
	if d.swapChain != nil {
		d.swapChain.Destroy()
	}
	for _, a := range d.allocators {
		a.Destroy()
	}
	if d.fence != nil {
		d.fence.Destroy()
	}
	if !d.shared && d.device != nil {
		d.device.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
	logging.Logger().Info("device closed", "frames", d.frames)
}

// BeginFrame waits until the current frame slot is free, resets its
// allocator and the command list, transitions the back buffer to
// RenderTarget and opens a render pass clearing the back buffer and the
// depth buffer.
func (d *Device) BeginFrame() (*CommandList, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrDeviceClosed
	}
	if d.frameActive {
		return nil, ErrFrameActive
	}

	index := d.swapChain.CurrentBackBufferIndex()
	alloc := d.allocators[index]
	if err := d.fence.WaitForValue(alloc.FenceValue()); err != nil {
		return nil, err
	}
	if d.list.State() == ListExecuted {
		if err := d.list.Wait(); err != nil {
			return nil, err
		}
	}
	alloc.Reset()
	if err := d.list.Reset(alloc); err != nil {
		return nil, err
	}

	back := d.swapChain.BackBuffer(index)
	if err := d.list.ResourceBarrier(back.Resource().TransitionBarrier(StateRenderTarget)); err != nil {
		return nil, err
	}
	if err := d.list.BeginRenderPass(RenderPassDesc{
		Label:   "screen",
		Targets: []*RenderTarget{back},
		Depth:   d.depth,
		Clear:   true,
	}); err != nil {
		return nil, err
	}
	d.frameActive = true
	return d.list, nil
}

// BeginFrameNoPass is BeginFrame without the render pass, for frames that
// start with compute work. Open the screen pass with ScreenPass(true).
func (d *Device) BeginFrameNoPass() (*CommandList, error) {
	list, err := d.BeginFrame()
	if err != nil {
		return nil, err
	}
	if err := list.EndRenderPass(); err != nil {
		return nil, err
	}
	return list, nil
}

// EndFrame closes the render pass, transitions the back buffer to Present,
// submits the list and presents.
func (d *Device) EndFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDeviceClosed
	}
	if !d.frameActive {
		return ErrNoFrame
	}
	d.frameActive = false

	if err := d.list.EndRenderPass(); err != nil && !errors.Is(err, ErrNoPass) {
		return err
	}
	index := d.swapChain.CurrentBackBufferIndex()
	back := d.swapChain.BackBuffer(index)
	if err := d.list.ResourceBarrier(back.Resource().TransitionBarrier(StatePresent)); err != nil {
		return err
	}
	value, err := d.list.Execute()
	if err != nil {
		return err
	}
	d.allocators[index].SetFenceValue(value)
	d.frames++
	return d.swapChain.Present()
}

// ScreenPass describes a render pass on the current back buffer and the
// depth buffer. Passes that were ended mid-frame for barriers or compute
// work resume with ScreenPass(false).
func (d *Device) ScreenPass(clear bool) RenderPassDesc {
	d.mu.Lock()
	defer d.mu.Unlock()
	return RenderPassDesc{
		Label:   "screen",
		Targets: []*RenderTarget{d.swapChain.CurrentBackBuffer()},
		Depth:   d.depth,
		Clear:   clear,
	}
}

// WaitIdle blocks until all submitted work has completed.
func (d *Device) WaitIdle() error {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return ErrDeviceClosed
	}
	if err := d.fence.WaitForGPU(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.list.State() == ListExecuted {
		return d.list.Wait()
	}
	return nil
}

// Resize recreates the back buffers and the depth buffer in their existing
// descriptor slots. On failure the device keeps its previous size.
func (d *Device) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return ErrInvalidSize
	}
	if err := d.WaitIdle(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDeviceClosed
	}
	if d.frameActive {
		return ErrFrameActive
	}
	depth, err := d.depth.newTexture(width, height)
	if err != nil {
		return fmt.Errorf("resize depth buffer: %w", err)
	}
	if err := d.swapChain.Resize(width, height); err != nil {
		d.depth.discard(depth)
		return err
	}
	if err := d.depth.commit(depth); err != nil {
		d.depth.discard(depth)
		return fmt.Errorf("resize depth buffer: %w", err)
	}
	d.opts.Width, d.opts.Height = width, height
	return nil
}

// Capture reads back the most recently presented back buffer.
func (d *Device) Capture() (*image.RGBA, error) {
	d.mu.Lock()
	if d.frameActive {
		d.mu.Unlock()
		return nil, ErrFrameActive
	}
	n := d.swapChain.BufferCount()
	index := (d.swapChain.CurrentBackBufferIndex() + n - 1) % n
	d.mu.Unlock()

	if err := d.WaitIdle(); err != nil {
		return nil, err
	}
	return d.swapChain.ReadBack(d.fence, index)
}

// AllocateDescriptor allocates a slot from the heap of the given type.
func (d *Device) AllocateDescriptor(t HeapType) (DescriptorHandle, error) {
	return d.Heap(t).Allocate()
}

// Heap returns the device heap of type t. Sampler heaps share the common heap.
func (d *Device) Heap(t HeapType) *DescriptorHeap {
	switch t {
	case HeapTypeRTV:
		return d.rtvHeap
	case HeapTypeDSV:
		return d.dsvHeap
	default:
		return d.commonHeap
	}
}

// NewVertexBuffer creates a vertex buffer on the device.
func (d *Device) NewVertexBuffer(vertexCount, stride uint32, label string) (*VertexBuffer, error) {
	return NewVertexBuffer(d.device, d.queue, vertexCount, stride, label)
}

// NewIndexBuffer creates an index buffer on the device.
func (d *Device) NewIndexBuffer(indexCount uint32, format IndexFormat, label string) (*IndexBuffer, error) {
	return NewIndexBuffer(d.device, d.queue, indexCount, format, label)
}

// NewConstantBuffer creates a constant buffer on the device.
func (d *Device) NewConstantBuffer(size uint64, label string) (*ConstantBuffer, error) {
	return NewConstantBuffer(d.device, d.queue, size, label)
}

// NewStructuredBuffer creates a structured buffer on the device.
func (d *Device) NewStructuredBuffer(elementCount, elementSize uint32, label string) (*StructuredBuffer, error) {
	return NewStructuredBuffer(d.device, d.queue, elementCount, elementSize, label)
}

// Pipelines returns the device pipeline cache.
func (d *Device) Pipelines() *PipelineCache { return d.pipelines }

// SwapChain returns the swap chain.
func (d *Device) SwapChain() *SwapChain { return d.swapChain }

// DepthBuffer returns the depth buffer.
func (d *Device) DepthBuffer() *DepthBuffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.depth
}

// CommandList returns the device command list.
func (d *Device) CommandList() *CommandList { return d.list }

// Fence returns the device fence.
func (d *Device) Fence() *Fence { return d.fence }

// Options returns the effective options.
func (d *Device) Options() Options {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opts
}

// AdapterName returns the name of the selected adapter.
func (d *Device) AdapterName() string { return d.adapter }

// FrameCount returns the number of completed EndFrame calls.
func (d *Device) FrameCount() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// HalDevice returns the HAL device.
func (d *Device) HalDevice() hal.Device { return d.device }

// HalQueue returns the HAL queue.
func (d *Device) HalQueue() hal.Queue { return d.queue }
