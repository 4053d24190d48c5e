// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import "errors"

var (
	// ErrNilDevice is returned by NewCompiler without a device.
	ErrNilDevice = errors.New("shader: device is nil")

	// ErrEmptySource is returned for an empty shader source.
	ErrEmptySource = errors.New("shader: empty source")

	// ErrEntryPointNotFound is returned when the source has no function
	// with the requested name and stage attribute.
	ErrEntryPointNotFound = errors.New("shader: entry point not found")

	// ErrCompilerClosed is returned after Close.
	ErrCompilerClosed = errors.New("shader: compiler is closed")
)
