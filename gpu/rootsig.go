// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// MaxRootParameters is the number of bind group slots available to a root
// signature.
const MaxRootParameters = 4

// RootParameterType says how a root parameter is bound.
type RootParameterType int

const (
	// RootDescriptor binds a single CBV, SRV or UAV.
	RootDescriptor RootParameterType = iota
	// RootDescriptorTable binds a contiguous list of descriptor ranges.
	RootDescriptorTable
)

// String returns the string representation of RootParameterType.
func (t RootParameterType) String() string {
	switch t {
	case RootDescriptor:
		return "Descriptor"
	case RootDescriptorTable:
		return "DescriptorTable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// RootSignatureFlags adjust root signature behavior.
type RootSignatureFlags uint32

const (
	// RootFlagAllowInputLayout allows pipelines to declare vertex inputs.
	RootFlagAllowInputLayout RootSignatureFlags = 1 << iota
)

// DescriptorRange is a run of descriptors of one kind inside a table.
type DescriptorRange struct {
	Kind         ViewKind
	Count        uint32
	BaseRegister uint32
	Space        uint32
}

// RootParameter is one slot of a root signature.
type RootParameter struct {
	Type RootParameterType

	// Kind, Register and Space describe a RootDescriptor parameter.
	Kind     ViewKind
	Register uint32
	Space    uint32

	// Ranges describe a RootDescriptorTable parameter.
	Ranges []DescriptorRange
}

// descriptorCount returns the number of descriptors the parameter binds.
func (p RootParameter) descriptorCount() int {
	if p.Type == RootDescriptor {
		return 1
	}
	n := 0
	for _, r := range p.Ranges {
		n += int(r.Count)
	}
	return n
}

// kindAt returns the view kind expected at position i of the parameter.
func (p RootParameter) kindAt(i int) ViewKind {
	if p.Type == RootDescriptor {
		return p.Kind
	}
	for _, r := range p.Ranges {
		if i < int(r.Count) {
			return r.Kind
		}
		i -= int(r.Count)
	}
	return ViewNone
}

// StaticSampler is a sampler fixed at root signature creation.
type StaticSampler struct {
	Register uint32
	Filter   gputypes.FilterMode
	Address  gputypes.AddressMode
}

// RootSignatureDesc builds a root signature.
type RootSignatureDesc struct {
	Label    string
	Params   []RootParameter
	Samplers []StaticSampler
	Flags    RootSignatureFlags
}

// AddDescriptor appends a root descriptor parameter.
func (d *RootSignatureDesc) AddDescriptor(kind ViewKind, register, space uint32) *RootSignatureDesc {
	d.Params = append(d.Params, RootParameter{Type: RootDescriptor, Kind: kind, Register: register, Space: space})
	return d
}

// AddDescriptorTable appends an empty descriptor table and returns its
// parameter index.
func (d *RootSignatureDesc) AddDescriptorTable() int {
	d.Params = append(d.Params, RootParameter{Type: RootDescriptorTable})
	return len(d.Params) - 1
}

// AddDescriptorRange appends a range to the table at index table.
func (d *RootSignatureDesc) AddDescriptorRange(table int, kind ViewKind, count, baseRegister, space uint32) error {
	if table < 0 || table >= len(d.Params) || d.Params[table].Type != RootDescriptorTable {
		return fmt.Errorf("%w: %d is not a descriptor table", ErrInvalidParameter, table)
	}
	if count == 0 {
		return fmt.Errorf("%w: empty descriptor range", ErrInvalidParameter)
	}
	if kind != ViewCBV && kind != ViewSRV && kind != ViewUAV {
		return fmt.Errorf("%w: %s range in descriptor table", ErrInvalidParameter, kind)
	}
	d.Params[table].Ranges = append(d.Params[table].Ranges, DescriptorRange{
		Kind: kind, Count: count, BaseRegister: baseRegister, Space: space,
	})
	return nil
}

// AddStaticSampler appends a static sampler.
func (d *RootSignatureDesc) AddStaticSampler(register uint32, filter gputypes.FilterMode, address gputypes.AddressMode) *RootSignatureDesc {
	d.Samplers = append(d.Samplers, StaticSampler{Register: register, Filter: filter, Address: address})
	return d
}

// SetFlags replaces the flags.
func (d *RootSignatureDesc) SetFlags(flags RootSignatureFlags) *RootSignatureDesc {
	d.Flags = flags
	return d
}

// RootSignature maps root parameters onto HAL bind group layouts. Parameter
// i is bind group i, and descriptor j of a parameter is binding j.
type RootSignature struct {
	mu sync.Mutex

	id       uint64
	device   hal.Device
	label    string
	params   []RootParameter
	flags    RootSignatureFlags
	layouts  []hal.BindGroupLayout
	layout   hal.PipelineLayout
	samplers []hal.Sampler

	bindGroups map[string]hal.BindGroup
}

var rootSignatureCounter atomic.Uint64

func bindingType(kind ViewKind) gputypes.BufferBindingType {
	switch kind {
	case ViewCBV:
		return gputypes.BufferBindingTypeUniform
	case ViewSRV:
		return gputypes.BufferBindingTypeReadOnlyStorage
	default:
		return gputypes.BufferBindingTypeStorage
	}
}

// Create builds the HAL layouts and static samplers.
func (d *RootSignatureDesc) Create(device hal.Device) (*RootSignature, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if len(d.Params) > MaxRootParameters {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyParameters, len(d.Params), MaxRootParameters)
	}
	rs := &RootSignature{
		id:         rootSignatureCounter.Add(1),
		device:     device,
		label:      d.Label,
		params:     append([]RootParameter(nil), d.Params...),
		flags:      d.Flags,
		bindGroups: make(map[string]hal.BindGroup),
	}

	visibility := gputypes.ShaderStageVertex | gputypes.ShaderStageFragment | gputypes.ShaderStageCompute
	for i, p := range rs.params {
		if p.descriptorCount() == 0 {
			rs.Destroy()
			return nil, fmt.Errorf("%w: parameter %d binds nothing", ErrInvalidParameter, i)
		}
		entries := make([]gputypes.BindGroupLayoutEntry, 0, p.descriptorCount())
		for j := range p.descriptorCount() {
			entries = append(entries, gputypes.BindGroupLayoutEntry{
				Binding:    uint32(j),
				Visibility: visibility,
				Buffer:     &gputypes.BufferBindingLayout{Type: bindingType(p.kindAt(j))},
			})
		}
		layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s_param%d", d.Label, i),
			Entries: entries,
		})
		if err != nil {
			rs.Destroy()
			return nil, fmt.Errorf("create bind group layout %d: %w", i, err)
		}
		rs.layouts = append(rs.layouts, layout)
	}

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            d.Label + "_layout",
		BindGroupLayouts: rs.layouts,
	})
	if err != nil {
		rs.Destroy()
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	rs.layout = layout

	for _, s := range d.Samplers {
		sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
			Label:        fmt.Sprintf("%s_sampler%d", d.Label, s.Register),
			AddressModeU: s.Address,
			AddressModeV: s.Address,
			AddressModeW: s.Address,
			MagFilter:    s.Filter,
			MinFilter:    s.Filter,
			MipmapFilter: s.Filter,
		})
		if err != nil {
			rs.Destroy()
			return nil, fmt.Errorf("create static sampler s%d: %w", s.Register, err)
		}
		rs.samplers = append(rs.samplers, sampler)
	}
	return rs, nil
}

// Label returns the debug label.
func (rs *RootSignature) Label() string { return rs.label }

// ParameterCount returns the number of root parameters.
func (rs *RootSignature) ParameterCount() int { return len(rs.params) }

// Parameter returns root parameter i.
func (rs *RootSignature) Parameter(i int) RootParameter { return rs.params[i] }

// Flags returns the flags the signature was created with.
func (rs *RootSignature) Flags() RootSignatureFlags { return rs.flags }

// SamplerCount returns the number of static samplers.
func (rs *RootSignature) SamplerCount() int { return len(rs.samplers) }

// PipelineLayout returns the HAL pipeline layout.
func (rs *RootSignature) PipelineLayout() hal.PipelineLayout { return rs.layout }

// CachedBindGroups returns the number of bind groups built so far.
func (rs *RootSignature) CachedBindGroups() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.bindGroups)
}

// bindGroup returns a bind group for param built from the views behind
// handles. Bind groups are cached by parameter, slot and bound resource.
func (rs *RootSignature) bindGroup(param uint32, heap *DescriptorHeap, handles []DescriptorHandle) (hal.BindGroup, error) {
	if int(param) >= len(rs.params) {
		return nil, fmt.Errorf("%w: parameter %d of %d", ErrInvalidParameter, param, len(rs.params))
	}
	if heap == nil {
		return nil, fmt.Errorf("%w: nil heap", ErrInvalidHandle)
	}
	p := rs.params[param]
	if len(handles) != p.descriptorCount() {
		return nil, fmt.Errorf("%w: parameter %d takes %d descriptors, got %d",
			ErrInvalidParameter, param, p.descriptorCount(), len(handles))
	}

	var key strings.Builder
	fmt.Fprintf(&key, "%d", param)
	entries := make([]gputypes.BindGroupEntry, 0, len(handles))
	for j, h := range handles {
		v, ok := heap.View(h)
		if !ok {
			return nil, fmt.Errorf("%w: slot %d of parameter %d", ErrInvalidHandle, j, param)
		}
		if want := p.kindAt(j); v.Kind != want {
			return nil, fmt.Errorf("%w: slot %d holds %s, want %s", ErrInvalidParameter, j, v.Kind, want)
		}
		binding, err := v.bufferBinding()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&key, ":%x/%p", h.CPU, v.Resource)
		entries = append(entries, gputypes.BindGroupEntry{Binding: uint32(j), Resource: binding})
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()
	if bg, ok := rs.bindGroups[key.String()]; ok {
		return bg, nil
	}
	bg, err := rs.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   fmt.Sprintf("%s_table%d", rs.label, param),
		Layout:  rs.layouts[param],
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	rs.bindGroups[key.String()] = bg
	return bg, nil
}

// Destroy releases cached bind groups, samplers and layouts.
func (rs *RootSignature) Destroy() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for k, bg := range rs.bindGroups {
		rs.device.DestroyBindGroup(bg)
		delete(rs.bindGroups, k)
	}
	for _, s := range rs.samplers {
		rs.device.DestroySampler(s)
	}
	rs.samplers = nil
	if rs.layout != nil {
		rs.device.DestroyPipelineLayout(rs.layout)
		rs.layout = nil
	}
	for _, l := range rs.layouts {
		rs.device.DestroyBindGroupLayout(l)
	}
	rs.layouts = nil
}
