// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DepthFormat is the format of every DepthBuffer.
const DepthFormat = gputypes.TextureFormatDepth24PlusStencil8

// textureTarget is the part shared by color and depth targets: a texture
// resource, its view and the heap slot describing it. The slot is
// allocated once and rewritten in place when the target is resized.
type textureTarget struct {
	device  hal.Device
	res     *GPUResource
	view    hal.TextureView
	heap    *DescriptorHeap
	handle  DescriptorHandle
	kind    ViewKind
	label   string
	width   uint32
	height  uint32
	format  gputypes.TextureFormat
	usage   gputypes.TextureUsage
	initial ResourceState
}

// texture is a texture resource with its view, not yet bound to a slot.
type texture struct {
	res           *GPUResource
	view          hal.TextureView
	width, height uint32
}

func (t *textureTarget) newTexture(width, height uint32) (texture, error) {
	res, err := NewTextureResource(t.device, &hal.TextureDescriptor{
		Label:         t.label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.format,
		Usage:         t.usage,
	}, t.initial)
	if err != nil {
		return texture{}, err
	}
	view, err := t.device.CreateTextureView(res.Texture(), &hal.TextureViewDescriptor{Label: t.label + "_view"})
	if err != nil {
		res.Destroy()
		return texture{}, fmt.Errorf("create texture view %q: %w", t.label, err)
	}
	return texture{res: res, view: view, width: width, height: height}, nil
}

func (t *textureTarget) discard(tex texture) {
	if tex.view != nil {
		t.device.DestroyTextureView(tex.view)
	}
	if tex.res != nil {
		tex.res.Destroy()
	}
}

// commit writes tex into the target's slot and releases the previous
// texture. The caller must ensure the GPU no longer uses it.
func (t *textureTarget) commit(tex texture) error {
	if err := t.heap.SetView(t.handle, View{Kind: t.kind, Resource: tex.res, TextureView: tex.view}); err != nil {
		return err
	}
	t.discard(texture{res: t.res, view: t.view})
	t.res, t.view = tex.res, tex.view
	t.width, t.height = tex.width, tex.height
	return nil
}

func newTextureTarget(device hal.Device, heap *DescriptorHeap, kind ViewKind, width, height uint32,
	format gputypes.TextureFormat, usage gputypes.TextureUsage, initial ResourceState, label string,
) (textureTarget, error) {
	t := textureTarget{
		device:  device,
		heap:    heap,
		kind:    kind,
		label:   label,
		format:  format,
		usage:   usage,
		initial: initial,
	}
	tex, err := t.newTexture(width, height)
	if err != nil {
		return textureTarget{}, err
	}
	if t.handle, err = heap.Allocate(); err != nil {
		t.discard(tex)
		return textureTarget{}, err
	}
	if err := t.commit(tex); err != nil {
		_ = heap.Deallocate(&t.handle)
		t.discard(tex)
		return textureTarget{}, err
	}
	return t, nil
}

func (t *textureTarget) destroy() {
	if t.res == nil {
		return
	}
	if !t.handle.IsNull() {
		_ = t.heap.Deallocate(&t.handle)
	}
	t.discard(texture{res: t.res, view: t.view})
	t.res, t.view = nil, nil
}

// RenderTarget is a color texture with an RTV.
type RenderTarget struct {
	textureTarget

	// ClearColor is used when a render pass clears this target.
	ClearColor gputypes.Color
}

// NewRenderTarget creates a color target and writes its RTV into heap.
func NewRenderTarget(device hal.Device, heap *DescriptorHeap, width, height uint32,
	format gputypes.TextureFormat, initial ResourceState, label string,
) (*RenderTarget, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	t, err := newTextureTarget(device, heap, ViewRTV, width, height, format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc|gputypes.TextureUsageTextureBinding,
		initial, label)
	if err != nil {
		return nil, err
	}
	return &RenderTarget{
		textureTarget: t,
		ClearColor:    gputypes.Color{R: 0, G: 0, B: 0, A: 1},
	}, nil
}

// Resource returns the texture resource.
func (t *RenderTarget) Resource() *GPUResource { return t.res }

// View returns the texture view used as a color attachment.
func (t *RenderTarget) View() hal.TextureView { return t.view }

// RTV returns the descriptor handle of the render target view.
func (t *RenderTarget) RTV() DescriptorHandle { return t.handle }

// Width returns the width in pixels.
func (t *RenderTarget) Width() uint32 { return t.width }

// Height returns the height in pixels.
func (t *RenderTarget) Height() uint32 { return t.height }

// Format returns the texture format.
func (t *RenderTarget) Format() gputypes.TextureFormat { return t.format }

// Destroy frees the RTV slot, the view and the texture.
func (t *RenderTarget) Destroy() { t.destroy() }

// Resize recreates the texture at the new size and rewrites it into the
// same RTV slot. On failure the old texture is kept. The caller must
// ensure the GPU no longer uses the target.
func (t *RenderTarget) Resize(width, height uint32) error {
	tex, err := t.newTexture(width, height)
	if err != nil {
		return err
	}
	if err := t.commit(tex); err != nil {
		t.discard(tex)
		return err
	}
	return nil
}

// DepthBuffer is a depth-stencil texture with a DSV.
type DepthBuffer struct {
	textureTarget

	ClearDepth   float32
	ClearStencil uint32
}

// NewDepthBuffer creates a depth buffer in the DepthWrite state and writes
// its DSV into heap.
func NewDepthBuffer(device hal.Device, heap *DescriptorHeap, width, height uint32, label string) (*DepthBuffer, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	t, err := newTextureTarget(device, heap, ViewDSV, width, height, DepthFormat,
		gputypes.TextureUsageRenderAttachment, StateDepthWrite, label)
	if err != nil {
		return nil, err
	}
	return &DepthBuffer{textureTarget: t, ClearDepth: 1}, nil
}

// Resource returns the texture resource.
func (d *DepthBuffer) Resource() *GPUResource { return d.res }

// View returns the texture view used as the depth attachment.
func (d *DepthBuffer) View() hal.TextureView { return d.view }

// DSV returns the descriptor handle of the depth stencil view.
func (d *DepthBuffer) DSV() DescriptorHandle { return d.handle }

// Width returns the width in pixels.
func (d *DepthBuffer) Width() uint32 { return d.width }

// Height returns the height in pixels.
func (d *DepthBuffer) Height() uint32 { return d.height }

// Destroy frees the DSV slot, the view and the texture.
func (d *DepthBuffer) Destroy() { d.destroy() }

// Resize recreates the texture at the new size and rewrites it into the
// same DSV slot. On failure the old texture is kept. The caller must
// ensure the GPU no longer uses the buffer.
func (d *DepthBuffer) Resize(width, height uint32) error {
	tex, err := d.newTexture(width, height)
	if err != nil {
		return err
	}
	if err := d.commit(tex); err != nil {
		d.discard(tex)
		return err
	}
	return nil
}
