// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu wraps gogpu/wgpu HAL objects in a Direct3D 12 style object
// model: a Device owning one queue, rotating command allocators, a single
// command list and fence, descriptor heaps, and a swap chain.
//
// # Descriptor heaps
//
// A DescriptorHeap is a bump allocator over a fixed number of slots. Slots
// are never reused; Deallocate only invalidates the caller's handle. Heaps
// of type RTV and DSV are never shader visible.
//
// # Resource state
//
// Every GPUResource records the state it was last transitioned to.
// TransitionBarrier is the only way to change that state: it returns the
// barrier describing the change and updates the record immediately, so the
// returned barrier must be recorded on a command list before the next
// submission.
//
// # Command list lifecycle
//
//	Closed    -> Reset()   -> Recording
//	Recording -> Close()   -> Closed
//	Recording -> Execute() -> Executed
//	Executed  -> Wait()    -> Waited
//	Waited    -> Reset()   -> Recording
//
// Calls made out of order return ErrRecording, ErrNotRecording or
// ErrNotWaited instead of asserting.
//
// # Threading
//
// A Device and everything it creates is meant to be driven from one
// goroutine. Wrappers guard their own bookkeeping with a mutex, but the
// ordering of recording, submission and waiting is the caller's job.
package gpu
