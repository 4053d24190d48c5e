// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "errors"

// Descriptor heap errors.
var (
	// ErrHeapFull is returned by Allocate when every slot has been handed out.
	ErrHeapFull = errors.New("gpu: descriptor heap full")

	// ErrInvalidCapacity is returned when a heap is created with no slots.
	ErrInvalidCapacity = errors.New("gpu: descriptor heap capacity must be positive")

	// ErrInvalidHandle is returned for null, misaligned or unallocated handles.
	ErrInvalidHandle = errors.New("gpu: invalid descriptor handle")

	// ErrForeignHandle is returned when a handle belongs to another heap.
	ErrForeignHandle = errors.New("gpu: descriptor handle belongs to another heap")

	// ErrDoubleFree is returned when a handle is deallocated twice.
	ErrDoubleFree = errors.New("gpu: descriptor handle already deallocated")
)

// Resource errors.
var (
	// ErrNotUnorderedAccess is returned by UAVBarrier when the resource is not
	// in the UnorderedAccess state.
	ErrNotUnorderedAccess = errors.New("gpu: UAV barrier on resource not in UnorderedAccess state")

	// ErrResourceDestroyed is returned when operating on a destroyed resource.
	ErrResourceDestroyed = errors.New("gpu: resource has been destroyed")

	// ErrInvalidSize is returned for zero-sized buffers or textures.
	ErrInvalidSize = errors.New("gpu: invalid resource size")

	// ErrDataTooLarge is returned when a write exceeds the buffer size.
	ErrDataTooLarge = errors.New("gpu: data larger than buffer")
)

// Command list errors.
var (
	// ErrRecording is returned when an operation requires a closed list.
	ErrRecording = errors.New("gpu: command list is recording")

	// ErrNotRecording is returned when an operation requires a recording list.
	ErrNotRecording = errors.New("gpu: command list is not recording")

	// ErrNotWaited is returned by Reset when the previous execution has not
	// been waited on.
	ErrNotWaited = errors.New("gpu: command list execution not waited")

	// ErrPassActive is returned when a pass is already open.
	ErrPassActive = errors.New("gpu: a render or compute pass is active")

	// ErrNoPass is returned when a draw or dispatch is recorded outside a pass.
	ErrNoPass = errors.New("gpu: no matching pass is active")

	// ErrNoPipeline is returned when drawing without a pipeline state.
	ErrNoPipeline = errors.New("gpu: no pipeline state set")
)

// Device and pipeline errors.
var (
	// ErrNoAdapter is returned when no GPU adapter is available.
	ErrNoAdapter = errors.New("gpu: no adapter available")

	// ErrUnknownBackend is returned for unsupported backend names.
	ErrUnknownBackend = errors.New("gpu: unknown backend")

	// ErrNilDevice is returned when a constructor is given a nil device.
	ErrNilDevice = errors.New("gpu: device is nil")

	// ErrNotHalProvider is returned by OpenShared when the provider does not
	// expose HAL objects.
	ErrNotHalProvider = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrDeviceClosed is returned after Close.
	ErrDeviceClosed = errors.New("gpu: device is closed")

	// ErrFrameActive is returned by BeginFrame when a frame is already open,
	// and by Resize during a frame.
	ErrFrameActive = errors.New("gpu: frame already begun")

	// ErrNoFrame is returned by EndFrame without a matching BeginFrame.
	ErrNoFrame = errors.New("gpu: no frame begun")

	// ErrTooManyParameters is returned when a root signature has more
	// parameters than bind group slots.
	ErrTooManyParameters = errors.New("gpu: too many root parameters")

	// ErrInvalidParameter is returned for a root parameter index or type
	// that does not fit the call.
	ErrInvalidParameter = errors.New("gpu: invalid root parameter")

	// ErrNoShader is returned when a pipeline is created without a required
	// shader stage.
	ErrNoShader = errors.New("gpu: shader stage missing")

	// ErrNoRootSignature is returned when a pipeline has no root signature.
	ErrNoRootSignature = errors.New("gpu: root signature missing")
)
