// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package particle runs a GPU particle system: a compute pass scatters and
// then steers ParticleCount particles towards a target point, and a render
// pass draws each particle as a point.
package particle

import (
	_ "embed"
	"errors"
	"fmt"
	"unsafe"

	"github.com/gogpu/dxframe/camera"
	"github.com/gogpu/dxframe/gpu"
	"github.com/gogpu/dxframe/internal/logging"
	"github.com/gogpu/dxframe/math3d"
	"github.com/gogpu/dxframe/shader"
	"github.com/gogpu/gputypes"
)

//go:embed shaders/particle_compute.wgsl
var computeWGSL string

//go:embed shaders/particle_graphics.wgsl
var graphicsWGSL string

const (
	// ParticleCount matches PARTICLE_COUNT in particle_compute.wgsl.
	ParticleCount = 10000

	// threadGroupSize matches @workgroup_size in particle_compute.wgsl.
	threadGroupSize = 64

	// ParticleSize is the byte size of Particle on the GPU.
	ParticleSize = 48
)

var (
	// ErrNilDevice is returned by New without a device or compiler.
	ErrNilDevice = errors.New("particle: nil device or compiler")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("particle: closed")
)

// Particle is the GPU layout of one particle.
type Particle struct {
	Position     math3d.Vector4
	Velocity     math3d.Vector3
	_            float32
	Acceleration math3d.Vector3
	_            float32
}

// Target is the point particles are attracted to.
type Target struct {
	Position math3d.Vector3
	_        float32
}

// Scene holds the camera matrices for drawing.
type Scene struct {
	View       math3d.Matrix4x4
	Projection math3d.Matrix4x4
}

var (
	_ [ParticleSize - unsafe.Sizeof(Particle{})]struct{}
	_ [unsafe.Sizeof(Particle{}) - ParticleSize]struct{}
)

// DispatchCount returns the number of thread groups covering n particles.
func DispatchCount(n uint32) uint32 {
	return (n + threadGroupSize - 1) / threadGroupSize
}

// System owns the particle buffer, its constant buffers and pipelines.
type System struct {
	device *gpu.Device

	particles *gpu.StructuredBuffer
	targetCB  *gpu.ConstantBuffer
	sceneCB   *gpu.ConstantBuffer

	computeRS  *gpu.RootSignature
	graphicsRS *gpu.RootSignature

	initPSO   *gpu.PipelineState
	updatePSO *gpu.PipelineState
	drawPSO   *gpu.PipelineState

	// Descriptors in the common heap: UAV and target CBV for compute,
	// SRV and scene CBV for drawing.
	computeTable  [2]gpu.DescriptorHandle
	graphicsTable [2]gpu.DescriptorHandle

	target      Target
	initialized bool
	closed      bool
}

// New creates the particle buffers and pipelines on device.
func New(device *gpu.Device, compiler *shader.Compiler) (*System, error) {
	if device == nil || compiler == nil {
		return nil, ErrNilDevice
	}
	s := &System{device: device}
	if err := s.createResources(); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.createPipelines(compiler); err != nil {
		s.Close()
		return nil, err
	}
	logging.Logger().Info("particle system created", "count", ParticleCount)
	return s, nil
}

func (s *System) createResources() error {
	var err error
	if s.particles, err = s.device.NewStructuredBuffer(ParticleCount, ParticleSize, "particles"); err != nil {
		return fmt.Errorf("particle buffer: %w", err)
	}
	if s.targetCB, err = s.device.NewConstantBuffer(uint64(unsafe.Sizeof(Target{})), "particle_target"); err != nil {
		return fmt.Errorf("target buffer: %w", err)
	}
	if s.sceneCB, err = s.device.NewConstantBuffer(uint64(unsafe.Sizeof(Scene{})), "particle_scene"); err != nil {
		return fmt.Errorf("scene buffer: %w", err)
	}

	heap := s.device.Heap(gpu.HeapTypeCommon)
	for _, h := range []*gpu.DescriptorHandle{
		&s.computeTable[0], &s.computeTable[1], &s.graphicsTable[0], &s.graphicsTable[1],
	} {
		if *h, err = s.device.AllocateDescriptor(gpu.HeapTypeCommon); err != nil {
			return err
		}
	}
	for _, v := range []error{
		gpu.CreateUnorderedAccessView(heap, s.computeTable[0], s.particles.Resource()),
		gpu.CreateConstantBufferView(heap, s.computeTable[1], s.targetCB.Resource()),
		gpu.CreateShaderResourceView(heap, s.graphicsTable[0], s.particles.Resource()),
		gpu.CreateConstantBufferView(heap, s.graphicsTable[1], s.sceneCB.Resource()),
	} {
		if v != nil {
			return v
		}
	}
	return nil
}

func newTableSignature(label string, s *System, first gpu.ViewKind) (*gpu.RootSignature, error) {
	desc := &gpu.RootSignatureDesc{Label: label}
	table := desc.AddDescriptorTable()
	if err := desc.AddDescriptorRange(table, first, 1, 0, 0); err != nil {
		return nil, err
	}
	if err := desc.AddDescriptorRange(table, gpu.ViewCBV, 1, 0, 0); err != nil {
		return nil, err
	}
	return desc.Create(s.device.HalDevice())
}

func (s *System) createPipelines(compiler *shader.Compiler) error {
	var err error
	if s.computeRS, err = newTableSignature("particle_compute", s, gpu.ViewUAV); err != nil {
		return err
	}
	if s.graphicsRS, err = newTableSignature("particle_graphics", s, gpu.ViewSRV); err != nil {
		return err
	}

	initCS, err := compiler.CompileSource("particle_compute.wgsl", computeWGSL, "init_main", shader.StageCompute)
	if err != nil {
		return err
	}
	updateCS, err := compiler.CompileSource("particle_compute.wgsl", computeWGSL, "update_main", shader.StageCompute)
	if err != nil {
		return err
	}
	vs, err := compiler.CompileSource("particle_graphics.wgsl", graphicsWGSL, "vs_main", shader.StageVertex)
	if err != nil {
		return err
	}
	ps, err := compiler.CompileSource("particle_graphics.wgsl", graphicsWGSL, "ps_main", shader.StagePixel)
	if err != nil {
		return err
	}

	pipelines := s.device.Pipelines()
	if s.initPSO, err = pipelines.Compute(&gpu.ComputePipelineStateDesc{
		Label:         "particle_init",
		RootSignature: s.computeRS,
		ComputeShader: initCS.Bytecode(),
	}); err != nil {
		return err
	}
	if s.updatePSO, err = pipelines.Compute(&gpu.ComputePipelineStateDesc{
		Label:         "particle_update",
		RootSignature: s.computeRS,
		ComputeShader: updateCS.Bytecode(),
	}); err != nil {
		return err
	}

	format := s.device.SwapChain().BackBuffer(0).Format()
	desc := gpu.NewGraphicsPipelineStateDesc("particle_draw", s.graphicsRS).
		SetVertexShader(vs.Bytecode()).
		SetPixelShader(ps.Bytecode()).
		SetRasterizerState(gpu.FillSolid, gputypes.CullModeNone).
		SetPrimitiveTopology(gpu.TopologyPoint).
		AddRenderTargetState(gpu.BlendAdd, format).
		SetDepthState(false, gputypes.CompareFunctionLess, gpu.DepthFormat)
	if s.drawPSO, err = pipelines.Graphics(desc); err != nil {
		return err
	}
	return nil
}

// Initialize records the dispatch that scatters the particles.
func (s *System) Initialize(list *gpu.CommandList) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.dispatch(list, s.initPSO, "particle_init"); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// Update uploads target and records the simulation step.
func (s *System) Update(list *gpu.CommandList, target Target) error {
	if s.closed {
		return ErrClosed
	}
	s.target = target
	if err := s.targetCB.Write(0, gpu.Float32Bytes(target.Position.X, target.Position.Y, target.Position.Z, 0)); err != nil {
		return err
	}
	if err := s.targetCB.Flush(); err != nil {
		return err
	}
	return s.dispatch(list, s.updatePSO, "particle_update")
}

// dispatch ends any open render pass, moves the particle buffer to
// UnorderedAccess and runs pso over every particle.
func (s *System) dispatch(list *gpu.CommandList, pso *gpu.PipelineState, label string) error {
	if err := list.EndRenderPass(); err != nil && !errors.Is(err, gpu.ErrNoPass) {
		return err
	}
	res := s.particles.Resource()
	if res.State() != gpu.StateUnorderedAccess {
		if err := list.ResourceBarrier(res.TransitionBarrier(gpu.StateUnorderedAccess)); err != nil {
			return err
		}
	}
	if err := list.SetPipelineState(pso); err != nil {
		return err
	}
	if err := list.SetDescriptorTable(0, s.device.Heap(gpu.HeapTypeCommon), s.computeTable[:]...); err != nil {
		return err
	}
	if err := list.BeginComputePass(label); err != nil {
		return err
	}
	if err := list.Dispatch(DispatchCount(ParticleCount), 1, 1); err != nil {
		return err
	}
	if err := list.EndComputePass(); err != nil {
		return err
	}
	uav, err := res.UAVBarrier()
	if err != nil {
		return err
	}
	return list.ResourceBarrier(uav)
}

// Draw uploads the camera matrices and draws every particle into the
// screen pass, which is left open for further drawing.
func (s *System) Draw(list *gpu.CommandList, cam *camera.Camera) error {
	if s.closed {
		return ErrClosed
	}
	scene := Scene{View: cam.View(), Projection: cam.Projection()}
	if err := s.sceneCB.Write(0, sceneBytes(scene)); err != nil {
		return err
	}
	if err := s.sceneCB.Flush(); err != nil {
		return err
	}

	if err := list.EndRenderPass(); err != nil && !errors.Is(err, gpu.ErrNoPass) {
		return err
	}
	res := s.particles.Resource()
	if res.State() != gpu.StateNonPixelShaderResource {
		if err := list.ResourceBarrier(res.TransitionBarrier(gpu.StateNonPixelShaderResource)); err != nil {
			return err
		}
	}
	if err := list.SetPipelineState(s.drawPSO); err != nil {
		return err
	}
	if err := list.SetDescriptorTable(0, s.device.Heap(gpu.HeapTypeCommon), s.graphicsTable[:]...); err != nil {
		return err
	}
	if err := list.BeginRenderPass(s.device.ScreenPass(false)); err != nil {
		return err
	}
	return list.Draw(ParticleCount, 1, 0, 0)
}

func sceneBytes(sc Scene) []byte {
	values := make([]float32, 0, 32)
	for _, m := range []math3d.Matrix4x4{sc.View, sc.Projection} {
		for r := range 4 {
			values = append(values, m.M[r][:]...)
		}
	}
	return gpu.Float32Bytes(values...)
}

// Target returns the last target passed to Update.
func (s *System) Target() Target { return s.target }

// Initialized reports whether Initialize has been recorded.
func (s *System) Initialized() bool { return s.initialized }

// Buffer returns the particle buffer.
func (s *System) Buffer() *gpu.StructuredBuffer { return s.particles }

// Close waits for the device to finish submitted work, then releases the
// buffers and root signatures. It must not be called between BeginFrame
// and EndFrame. Pipelines are evicted from the device's pipeline cache
// with their root signatures. Descriptors stay allocated until the device
// closes.
func (s *System) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if err := s.device.WaitIdle(); err != nil {
		logging.Logger().Warn("particle close: wait idle", "error", err)
	}
	for _, rs := range []*gpu.RootSignature{s.computeRS, s.graphicsRS} {
		if rs != nil {
			s.device.Pipelines().EvictRootSignature(rs)
			rs.Destroy()
		}
	}
	s.initPSO, s.updatePSO, s.drawPSO = nil, nil, nil
	if s.particles != nil {
		s.particles.Destroy()
	}
	if s.targetCB != nil {
		s.targetCB.Destroy()
	}
	if s.sceneCB != nil {
		s.sceneCB.Destroy()
	}
}
