// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader compiles WGSL shaders into HAL shader modules.
//
// Sources are translated to SPIR-V with naga and the resulting modules are
// cached by source name, entry point and stage:
//
//	c, err := shader.NewCompiler(device, shader.Options{BaseDir: "shaders"})
//	vs, err := c.Compile("particle.wgsl", "vs_main", shader.StageVertex)
//	desc.SetVertexShader(vs.Bytecode())
package shader
