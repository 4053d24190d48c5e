// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package dxframe is a small rendering framework in the Direct3D 12 style,
// built on the gogpu HAL.
//
// # Overview
//
// The GPU layer (package gpu) keeps the explicit model: descriptor heaps
// with bump allocation, resource state tracking through transition and UAV
// barriers, command allocators and lists gated by a fence, root signatures
// and pipeline state objects. Around it sit a row-major math library
// (math3d), a camera, keyboard and mouse input, a window with a message
// queue, a WGSL shader compiler, and a GPU particle demo.
//
// # Quick Start
//
//	cfg, err := dxframe.LoadConfig("dxframe.toml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	app, err := dxframe.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer app.Close()
//
//	app.Window.Show()
//	for app.Step() {
//		if app.Input.IsTriggered(input.KeyEscape) {
//			app.Window.Close()
//		}
//		err := app.Frame(func(list *gpu.CommandList) error {
//			// record draws into the open screen pass
//			return nil
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Architecture
//
// The library is organized into:
//   - dxframe: Context, Config, logger plumbing
//   - gpu: device, heaps, resources, command lists, pipelines
//   - math3d: Vector2/3/4, Quaternion, Matrix4x4
//   - camera, input, window, shader: engine scaffolding
//   - logfile: slog handler writing the Log.txt format
//   - particle: compute and point rendering demo
//
// # Logging
//
// dxframe is silent by default. Install a logger with SetLogger or the
// WithLogger option; logfile.NewHandler writes the classic Log.txt layout.
package dxframe

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
