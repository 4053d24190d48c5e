// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !dxdebug

package gpu

// DebugHandles reports whether descriptor handles carry provenance.
const DebugHandles = false

// provenance is empty in release builds.
type provenance struct{}

func (provenance) bind(*DescriptorHeap, uint64) provenance { return provenance{} }

// heapTracker does no bookkeeping in release builds.
type heapTracker struct{}

func (heapTracker) release(*DescriptorHeap, DescriptorHandle, uint32) error { return nil }
