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

// MaxRenderTargets is the number of color targets a pipeline may write.
const MaxRenderTargets = 8

// AppendAligned places an input element directly after the previous
// element of the same slot.
const AppendAligned = ^uint64(0)

// ShaderBytecode is a compiled shader stage ready for pipeline creation.
type ShaderBytecode struct {
	Module     hal.ShaderModule
	EntryPoint string

	// Hash identifies the compiled code for pipeline caching.
	Hash uint64
}

// IsZero reports whether no shader is set.
func (s ShaderBytecode) IsZero() bool { return s.Module == nil }

// BlendMode selects a predefined color blend equation.
type BlendMode int

const (
	// BlendNone writes the source color unchanged.
	BlendNone BlendMode = iota
	// BlendNormal is src*srcAlpha + dst*(1-srcAlpha).
	BlendNormal
	// BlendAdd is src*srcAlpha + dst.
	BlendAdd
	// BlendSubtract is dst - src*srcAlpha.
	BlendSubtract
	// BlendMultiply is dst*src.
	BlendMultiply
	// BlendInverse is src*(1-dst).
	BlendInverse
)

// String returns the string representation of BlendMode.
func (m BlendMode) String() string {
	switch m {
	case BlendNone:
		return "None"
	case BlendNormal:
		return "Normal"
	case BlendAdd:
		return "Add"
	case BlendSubtract:
		return "Subtract"
	case BlendMultiply:
		return "Multiply"
	case BlendInverse:
		return "Inverse"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// BlendState returns the blend state for m, or nil for BlendNone. The
// alpha channel always keeps the source alpha.
func (m BlendMode) BlendState() *gputypes.BlendState {
	alpha := gputypes.BlendComponent{
		SrcFactor: gputypes.BlendFactorOne,
		DstFactor: gputypes.BlendFactorZero,
		Operation: gputypes.BlendOperationAdd,
	}
	var color gputypes.BlendComponent
	switch m {
	case BlendNone:
		return nil
	case BlendAdd:
		color = gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationAdd,
		}
	case BlendSubtract:
		color = gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOne,
			Operation: gputypes.BlendOperationReverseSubtract,
		}
	case BlendMultiply:
		color = gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorZero,
			DstFactor: gputypes.BlendFactorSrc,
			Operation: gputypes.BlendOperationAdd,
		}
	case BlendInverse:
		color = gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOneMinusDst,
			DstFactor: gputypes.BlendFactorZero,
			Operation: gputypes.BlendOperationAdd,
		}
	default:
		color = gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		}
	}
	return &gputypes.BlendState{Color: color, Alpha: alpha}
}

// FillMode selects how triangles are rasterized.
type FillMode int

const (
	FillSolid FillMode = iota
	// FillWireframe is accepted but rendered solid; the HAL has no line
	// polygon mode.
	FillWireframe
)

// PrimitiveTopology is the primitive class a pipeline draws.
type PrimitiveTopology int

const (
	TopologyTriangle PrimitiveTopology = iota
	TopologyLine
	TopologyPoint
)

func (t PrimitiveTopology) hal() gputypes.PrimitiveTopology {
	switch t {
	case TopologyPoint:
		return gputypes.PrimitiveTopologyPointList
	case TopologyLine:
		return gputypes.PrimitiveTopologyLineList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

// InputElement describes one vertex attribute. Elements are assigned
// shader locations in the order they are added.
type InputElement struct {
	Semantic      string
	SemanticIndex uint32
	Format        gputypes.VertexFormat
	Slot          uint32
	Offset        uint64
	PerInstance   bool
}

// RenderTargetState is the format and blending of one color target.
type RenderTargetState struct {
	Format gputypes.TextureFormat
	Blend  BlendMode
}

// GraphicsPipelineStateDesc builds a render pipeline.
type GraphicsPipelineStateDesc struct {
	Label         string
	RootSignature *RootSignature
	VertexShader  ShaderBytecode
	PixelShader   ShaderBytecode

	InputLayout []InputElement
	Topology    PrimitiveTopology
	CullMode    gputypes.CullMode
	FillMode    FillMode
	Targets     []RenderTargetState

	DepthEnable  bool
	DepthWrite   bool
	DepthCompare gputypes.CompareFunction
	DepthFormat  gputypes.TextureFormat

	SampleCount uint32
}

// NewGraphicsPipelineStateDesc returns a description with triangle
// topology, back-face culling, solid fill, no depth and one sample.
func NewGraphicsPipelineStateDesc(label string, rs *RootSignature) *GraphicsPipelineStateDesc {
	return &GraphicsPipelineStateDesc{
		Label:         label,
		RootSignature: rs,
		Topology:      TopologyTriangle,
		CullMode:      gputypes.CullModeBack,
		FillMode:      FillSolid,
		SampleCount:   1,
	}
}

// SetVertexShader sets the vertex stage.
func (d *GraphicsPipelineStateDesc) SetVertexShader(s ShaderBytecode) *GraphicsPipelineStateDesc {
	d.VertexShader = s
	return d
}

// SetPixelShader sets the fragment stage.
func (d *GraphicsPipelineStateDesc) SetPixelShader(s ShaderBytecode) *GraphicsPipelineStateDesc {
	d.PixelShader = s
	return d
}

// SetRasterizerState sets fill and cull modes.
func (d *GraphicsPipelineStateDesc) SetRasterizerState(fill FillMode, cull gputypes.CullMode) *GraphicsPipelineStateDesc {
	d.FillMode = fill
	d.CullMode = cull
	return d
}

// AddInputElementVertex appends a per-vertex attribute placed after the
// previous attribute of the same slot.
func (d *GraphicsPipelineStateDesc) AddInputElementVertex(semantic string, index uint32, format gputypes.VertexFormat, slot uint32) *GraphicsPipelineStateDesc {
	d.InputLayout = append(d.InputLayout, InputElement{
		Semantic: semantic, SemanticIndex: index, Format: format, Slot: slot, Offset: AppendAligned,
	})
	return d
}

// AddInputElementInstance appends a per-instance attribute.
func (d *GraphicsPipelineStateDesc) AddInputElementInstance(semantic string, index uint32, format gputypes.VertexFormat, slot uint32) *GraphicsPipelineStateDesc {
	d.InputLayout = append(d.InputLayout, InputElement{
		Semantic: semantic, SemanticIndex: index, Format: format, Slot: slot, Offset: AppendAligned, PerInstance: true,
	})
	return d
}

// SetPrimitiveTopology sets the primitive class.
func (d *GraphicsPipelineStateDesc) SetPrimitiveTopology(t PrimitiveTopology) *GraphicsPipelineStateDesc {
	d.Topology = t
	return d
}

// AddRenderTargetState appends a color target.
func (d *GraphicsPipelineStateDesc) AddRenderTargetState(blend BlendMode, format gputypes.TextureFormat) *GraphicsPipelineStateDesc {
	d.Targets = append(d.Targets, RenderTargetState{Format: format, Blend: blend})
	return d
}

// SetDepthState enables depth testing.
func (d *GraphicsPipelineStateDesc) SetDepthState(write bool, compare gputypes.CompareFunction, format gputypes.TextureFormat) *GraphicsPipelineStateDesc {
	d.DepthEnable = true
	d.DepthWrite = write
	d.DepthCompare = compare
	d.DepthFormat = format
	return d
}

// SetSampleState sets the multisample count.
func (d *GraphicsPipelineStateDesc) SetSampleState(count uint32) *GraphicsPipelineStateDesc {
	d.SampleCount = count
	return d
}

func vertexFormatSize(f gputypes.VertexFormat) uint64 {
	switch f {
	case gputypes.VertexFormatFloat32, gputypes.VertexFormatUint32, gputypes.VertexFormatSint32:
		return 4
	case gputypes.VertexFormatFloat32x2:
		return 8
	case gputypes.VertexFormatFloat32x3:
		return 12
	case gputypes.VertexFormatFloat32x4:
		return 16
	default:
		return 0
	}
}

// vertexBuffers groups the input layout by slot. Slots must be dense from
// zero, and every element in a slot must share its step mode.
func (d *GraphicsPipelineStateDesc) vertexBuffers() ([]gputypes.VertexBufferLayout, error) {
	var layouts []gputypes.VertexBufferLayout
	for loc, e := range d.InputLayout {
		size := vertexFormatSize(e.Format)
		if size == 0 {
			return nil, fmt.Errorf("%w: unsupported vertex format for %s%d", ErrInvalidParameter, e.Semantic, e.SemanticIndex)
		}
		if int(e.Slot) > len(layouts) {
			return nil, fmt.Errorf("%w: input slot %d skips slot %d", ErrInvalidParameter, e.Slot, len(layouts))
		}
		step := gputypes.VertexStepModeVertex
		if e.PerInstance {
			step = gputypes.VertexStepModeInstance
		}
		if int(e.Slot) == len(layouts) {
			layouts = append(layouts, gputypes.VertexBufferLayout{StepMode: step})
		}
		l := &layouts[e.Slot]
		if l.StepMode != step {
			return nil, fmt.Errorf("%w: slot %d mixes vertex and instance data", ErrInvalidParameter, e.Slot)
		}
		offset := e.Offset
		if offset == AppendAligned {
			offset = l.ArrayStride
		}
		l.Attributes = append(l.Attributes, gputypes.VertexAttribute{
			Format:         e.Format,
			Offset:         offset,
			ShaderLocation: uint32(loc),
		})
		if end := offset + size; end > l.ArrayStride {
			l.ArrayStride = end
		}
	}
	return layouts, nil
}

func (d *GraphicsPipelineStateDesc) validate() error {
	if d.RootSignature == nil {
		return ErrNoRootSignature
	}
	if d.VertexShader.IsZero() {
		return fmt.Errorf("%w: vertex", ErrNoShader)
	}
	if len(d.Targets) > MaxRenderTargets {
		return fmt.Errorf("%w: %d render targets", ErrInvalidParameter, len(d.Targets))
	}
	if len(d.Targets) > 0 && d.PixelShader.IsZero() {
		return fmt.Errorf("%w: pixel", ErrNoShader)
	}
	return nil
}

// PipelineState is a created render or compute pipeline together with
// the root signature it was built against.
type PipelineState struct {
	mu sync.Mutex

	device  hal.Device
	label   string
	rootSig *RootSignature
	render  hal.RenderPipeline
	compute hal.ComputePipeline
}

// Create builds the render pipeline.
func (d *GraphicsPipelineStateDesc) Create(device hal.Device) (*PipelineState, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	buffers, err := d.vertexBuffers()
	if err != nil {
		return nil, err
	}
	if d.FillMode == FillWireframe {
		logging.Logger().Warn("wireframe fill not supported, using solid", "pipeline", d.Label)
	}

	sampleCount := d.SampleCount
	if sampleCount == 0 {
		sampleCount = 1
	}
	halDesc := &hal.RenderPipelineDescriptor{
		Label:  d.Label,
		Layout: d.RootSignature.PipelineLayout(),
		Vertex: hal.VertexState{
			Module:     d.VertexShader.Module,
			EntryPoint: d.VertexShader.EntryPoint,
			Buffers:    buffers,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: d.Topology.hal(),
			CullMode: d.CullMode,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	}
	if len(d.Targets) > 0 {
		targets := make([]gputypes.ColorTargetState, 0, len(d.Targets))
		for _, t := range d.Targets {
			targets = append(targets, gputypes.ColorTargetState{
				Format:    t.Format,
				Blend:     t.Blend.BlendState(),
				WriteMask: gputypes.ColorWriteMaskAll,
			})
		}
		halDesc.Fragment = &hal.FragmentState{
			Module:     d.PixelShader.Module,
			EntryPoint: d.PixelShader.EntryPoint,
			Targets:    targets,
		}
	}
	if d.DepthEnable {
		keep := hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionAlways,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationKeep,
		}
		format := d.DepthFormat
		if format == gputypes.TextureFormatUndefined {
			format = DepthFormat
		}
		halDesc.DepthStencil = &hal.DepthStencilState{
			Format:            format,
			DepthWriteEnabled: d.DepthWrite,
			DepthCompare:      d.DepthCompare,
			StencilFront:      keep,
			StencilBack:       keep,
		}
	}

	pipeline, err := device.CreateRenderPipeline(halDesc)
	if err != nil {
		return nil, fmt.Errorf("create render pipeline %q: %w", d.Label, err)
	}
	return &PipelineState{device: device, label: d.Label, rootSig: d.RootSignature, render: pipeline}, nil
}

// ComputePipelineStateDesc builds a compute pipeline.
type ComputePipelineStateDesc struct {
	Label         string
	RootSignature *RootSignature
	ComputeShader ShaderBytecode
}

// Create builds the compute pipeline.
func (d *ComputePipelineStateDesc) Create(device hal.Device) (*PipelineState, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if d.RootSignature == nil {
		return nil, ErrNoRootSignature
	}
	if d.ComputeShader.IsZero() {
		return nil, fmt.Errorf("%w: compute", ErrNoShader)
	}
	pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  d.Label,
		Layout: d.RootSignature.PipelineLayout(),
		Compute: hal.ComputeState{
			Module:     d.ComputeShader.Module,
			EntryPoint: d.ComputeShader.EntryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create compute pipeline %q: %w", d.Label, err)
	}
	return &PipelineState{device: device, label: d.Label, rootSig: d.RootSignature, compute: pipeline}, nil
}

// Label returns the debug label.
func (p *PipelineState) Label() string { return p.label }

// RootSignature returns the root signature the pipeline uses.
func (p *PipelineState) RootSignature() *RootSignature { return p.rootSig }

// IsCompute reports whether p is a compute pipeline.
func (p *PipelineState) IsCompute() bool { return p.compute != nil }

// Destroy releases the HAL pipeline. It is safe to call more than once.
func (p *PipelineState) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.render != nil {
		p.device.DestroyRenderPipeline(p.render)
		p.render = nil
	}
	if p.compute != nil {
		p.device.DestroyComputePipeline(p.compute)
		p.compute = nil
	}
}
