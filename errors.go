// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxframe

import "errors"

var (
	// ErrInvalidConfig is returned by Config.Validate and LoadConfig.
	ErrInvalidConfig = errors.New("dxframe: invalid config")

	// ErrClosed is returned by Context methods after Close.
	ErrClosed = errors.New("dxframe: context closed")
)
