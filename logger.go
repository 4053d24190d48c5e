// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxframe

import (
	"log/slog"

	"github.com/gogpu/dxframe/internal/logging"
)

// SetLogger configures the logger for dxframe and all its sub-packages.
// By default, dxframe produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by dxframe:
//   - [slog.LevelDebug]: per-frame diagnostics (barriers, fence values, descriptor allocation)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, shader compiled, swap chain resized)
//   - [slog.LevelWarn]: suspicious usage that is tolerated (UAV barrier outside UnorderedAccess)
//   - [slog.LevelError]: failures that are also returned as errors
//
// Example:
//
//	// Write the classic Log.txt format:
//	f, _ := os.Create("Log.txt")
//	dxframe.SetLogger(slog.New(logfile.NewHandler(f, nil)))
//
//	// Or plain text to stderr:
//	dxframe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current logger used by dxframe.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
