// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/dxframe/internal/logging"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Presenter receives each back buffer as it is presented. It runs after
// the frame has been submitted, not after it has completed.
type Presenter func(target *RenderTarget) error

// SwapChain rotates through a fixed set of offscreen back buffers.
type SwapChain struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	heap   *DescriptorHeap
	format gputypes.TextureFormat

	buffers   []*RenderTarget
	current   int
	presenter Presenter
	presented uint64
}

// NewSwapChain creates count back buffers in the Present state with RTVs
// allocated from heap.
func NewSwapChain(device hal.Device, queue hal.Queue, heap *DescriptorHeap, count int,
	width, height uint32, format gputypes.TextureFormat,
) (*SwapChain, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: swap chain needs at least one buffer", ErrInvalidParameter)
	}
	sc := &SwapChain{device: device, queue: queue, heap: heap, format: format}
	if err := sc.createBuffers(count, width, height); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *SwapChain) createBuffers(count int, width, height uint32) error {
	sc.buffers = make([]*RenderTarget, 0, count)
	for i := range count {
		rt, err := NewRenderTarget(sc.device, sc.heap, width, height, sc.format, StatePresent,
			fmt.Sprintf("back_buffer_%d", i))
		if err != nil {
			sc.destroyBuffers()
			return fmt.Errorf("create back buffer %d: %w", i, err)
		}
		sc.buffers = append(sc.buffers, rt)
	}
	sc.current = 0
	return nil
}

func (sc *SwapChain) destroyBuffers() {
	for _, rt := range sc.buffers {
		rt.Destroy()
	}
	sc.buffers = nil
}

// SetPresenter installs a callback invoked by Present. Nil removes it.
func (sc *SwapChain) SetPresenter(p Presenter) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.presenter = p
}

// BufferCount returns the number of back buffers.
func (sc *SwapChain) BufferCount() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.buffers)
}

// CurrentBackBufferIndex returns the index of the buffer being rendered.
func (sc *SwapChain) CurrentBackBufferIndex() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.current
}

// BackBuffer returns back buffer i.
func (sc *SwapChain) BackBuffer(i int) *RenderTarget {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.buffers[i]
}

// CurrentBackBuffer returns the buffer being rendered.
func (sc *SwapChain) CurrentBackBuffer() *RenderTarget {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.buffers[sc.current]
}

// Presented returns the number of Present calls.
func (sc *SwapChain) Presented() uint64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.presented
}

// Present hands the current buffer to the presenter and advances to the
// next buffer.
func (sc *SwapChain) Present() error {
	sc.mu.Lock()
	rt := sc.buffers[sc.current]
	p := sc.presenter
	sc.current = (sc.current + 1) % len(sc.buffers)
	sc.presented++
	sc.mu.Unlock()

	if p != nil {
		if err := p(rt); err != nil {
			return fmt.Errorf("present: %w", err)
		}
	}
	return nil
}

// Resize recreates every back buffer at the new size. The RTV slots are
// kept, so resizing never allocates descriptors. All new textures are
// created before any old one is released; on failure the swap chain is
// unchanged. The caller must ensure the GPU no longer uses the old buffers.
func (sc *SwapChain) Resize(width, height uint32) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	next := make([]texture, 0, len(sc.buffers))
	for i, rt := range sc.buffers {
		tex, err := rt.newTexture(width, height)
		if err != nil {
			for j, t := range next {
				sc.buffers[j].discard(t)
			}
			return fmt.Errorf("resize back buffer %d: %w", i, err)
		}
		next = append(next, tex)
	}
	for i, rt := range sc.buffers {
		if err := rt.commit(next[i]); err != nil {
			for j := i; j < len(next); j++ {
				sc.buffers[j].discard(next[j])
			}
			return fmt.Errorf("resize back buffer %d: %w", i, err)
		}
	}
	sc.current = 0
	logging.Logger().Info("swap chain resized", "width", width, "height", height, "buffers", len(sc.buffers))
	return nil
}

// Destroy releases all back buffers.
func (sc *SwapChain) Destroy() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.destroyBuffers()
}

// ReadBack copies back buffer index into an image. It records and submits
// its own command list on fence and blocks until the copy completes, so it
// must not be called between BeginFrame and EndFrame.
func (sc *SwapChain) ReadBack(fence *Fence, index int) (*image.RGBA, error) {
	rt := sc.BackBuffer(index)
	w, h := rt.Width(), rt.Height()
	pitch := AlignedRowPitch(w)

	staging, err := NewBufferResource(sc.device, &hal.BufferDescriptor{
		Label: "readback_staging",
		Size:  uint64(pitch) * uint64(h),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	}, StateCopyDest)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy()

	alloc, err := NewCommandAllocator(sc.device, "readback")
	if err != nil {
		return nil, err
	}
	defer alloc.Destroy()
	list, err := NewCommandList(sc.device, sc.queue, fence, alloc)
	if err != nil {
		return nil, err
	}
	if err := list.Reset(nil); err != nil {
		return nil, err
	}

	res := rt.Resource()
	restore := res.State()
	steps := []func() error{
		func() error { return list.ResourceBarrier(res.TransitionBarrier(StateCopySource)) },
		func() error { return list.CopyTextureToBuffer(staging, res, w, h, pitch) },
		func() error { return list.ResourceBarrier(res.TransitionBarrier(restore)) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = list.Close()
			return nil, fmt.Errorf("record readback: %w", err)
		}
	}
	if _, err := list.Execute(); err != nil {
		return nil, err
	}
	if err := list.Wait(); err != nil {
		return nil, err
	}

	raw := make([]byte, uint64(pitch)*uint64(h))
	if err := sc.queue.ReadBuffer(staging.Buffer(), 0, raw); err != nil {
		return nil, fmt.Errorf("read back buffer: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	rowBytes := int(w) * 4
	for y := 0; y < int(h); y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+rowBytes], raw[y*int(pitch):y*int(pitch)+rowBytes])
	}
	if rt.Format() == gputypes.TextureFormatBGRA8Unorm {
		swapRedBlue(img.Pix)
	}
	return img, nil
}

// swapRedBlue converts BGRA pixels to RGBA in place.
func swapRedBlue(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
