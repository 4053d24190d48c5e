// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestRootSignatureDescRanges(t *testing.T) {
	d := &RootSignatureDesc{Label: "rs"}
	d.AddDescriptor(ViewCBV, 0, 0)
	table := d.AddDescriptorTable()
	if table != 1 {
		t.Fatalf("AddDescriptorTable() = %d, want 1", table)
	}

	tests := []struct {
		name  string
		table int
		kind  ViewKind
		count uint32
		err   error
	}{
		{"srv range", table, ViewSRV, 2, nil},
		{"uav range", table, ViewUAV, 1, nil},
		{"not a table", 0, ViewSRV, 1, ErrInvalidParameter},
		{"out of range", 5, ViewSRV, 1, ErrInvalidParameter},
		{"empty range", table, ViewSRV, 0, ErrInvalidParameter},
		{"rtv in table", table, ViewRTV, 1, ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.AddDescriptorRange(tt.table, tt.kind, tt.count, 0, 0)
			if !errors.Is(err, tt.err) {
				t.Errorf("AddDescriptorRange() error = %v, want %v", err, tt.err)
			}
		})
	}

	p := d.Params[table]
	if p.descriptorCount() != 3 {
		t.Errorf("descriptorCount() = %d, want 3", p.descriptorCount())
	}
	wantKinds := []ViewKind{ViewSRV, ViewSRV, ViewUAV, ViewNone}
	for i, want := range wantKinds {
		if got := p.kindAt(i); got != want {
			t.Errorf("kindAt(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestRootSignatureCreate(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	d := &RootSignatureDesc{Label: "scene"}
	d.AddDescriptor(ViewCBV, 0, 0).
		AddStaticSampler(0, gputypes.FilterModeLinear, gputypes.AddressModeClampToEdge).
		SetFlags(RootFlagAllowInputLayout)
	rs, err := d.Create(device)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer rs.Destroy()

	if rs.ParameterCount() != 1 || rs.SamplerCount() != 1 {
		t.Errorf("ParameterCount/SamplerCount = %d/%d, want 1/1", rs.ParameterCount(), rs.SamplerCount())
	}
	if rs.Flags() != RootFlagAllowInputLayout || rs.PipelineLayout() == nil {
		t.Error("flags or pipeline layout missing")
	}
	if rs.Parameter(0).Type != RootDescriptor || rs.Parameter(0).Type.String() != "Descriptor" {
		t.Errorf("Parameter(0).Type = %v", rs.Parameter(0).Type)
	}
}

func TestRootSignatureTooManyParameters(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	d := &RootSignatureDesc{Label: "big"}
	for i := range MaxRootParameters + 1 {
		d.AddDescriptor(ViewCBV, uint32(i), 0)
	}
	if _, err := d.Create(device); !errors.Is(err, ErrTooManyParameters) {
		t.Errorf("Create() error = %v, want ErrTooManyParameters", err)
	}
}

func TestRootSignatureEmptyTable(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	d := &RootSignatureDesc{Label: "empty"}
	d.AddDescriptorTable()
	if _, err := d.Create(device); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Create() error = %v, want ErrInvalidParameter", err)
	}
}

func TestRootSignatureBindGroupCache(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	d := &RootSignatureDesc{Label: "tables"}
	table := d.AddDescriptorTable()
	if err := d.AddDescriptorRange(table, ViewCBV, 1, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := d.AddDescriptorRange(table, ViewUAV, 1, 0, 0); err != nil {
		t.Fatal(err)
	}
	rs, err := d.Create(device)
	if err != nil {
		t.Fatal(err)
	}
	defer rs.Destroy()

	heap, _ := NewDescriptorHeap(8, HeapTypeCommon, true, "cbv_srv_uav")
	cb, err := NewConstantBuffer(device, queue, 64, "cb")
	if err != nil {
		t.Fatal(err)
	}
	defer cb.Destroy()
	sb, err := NewStructuredBuffer(device, queue, 4, 16, "sb")
	if err != nil {
		t.Fatal(err)
	}
	defer sb.Destroy()

	cbv, _ := heap.Allocate()
	uav, _ := heap.Allocate()
	if err := CreateConstantBufferView(heap, cbv, cb.Resource()); err != nil {
		t.Fatal(err)
	}
	if err := CreateUnorderedAccessView(heap, uav, sb.Resource()); err != nil {
		t.Fatal(err)
	}

	if _, err := rs.bindGroup(0, heap, []DescriptorHandle{cbv, uav}); err != nil {
		t.Fatalf("bindGroup() error = %v", err)
	}
	if _, err := rs.bindGroup(0, heap, []DescriptorHandle{cbv, uav}); err != nil {
		t.Fatal(err)
	}
	if rs.CachedBindGroups() != 1 {
		t.Errorf("CachedBindGroups() = %d, want 1", rs.CachedBindGroups())
	}

	if _, err := rs.bindGroup(0, heap, []DescriptorHandle{uav, cbv}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("bindGroup(swapped kinds) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := rs.bindGroup(0, heap, []DescriptorHandle{cbv}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("bindGroup(short) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := rs.bindGroup(1, heap, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("bindGroup(param 1) error = %v, want ErrInvalidParameter", err)
	}
	empty, _ := heap.Allocate()
	if _, err := rs.bindGroup(0, heap, []DescriptorHandle{cbv, empty}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("bindGroup(empty slot) error = %v, want ErrInvalidHandle", err)
	}
}
