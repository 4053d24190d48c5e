// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package input tracks keyboard and mouse state between frames.
//
// A window (or any other event source) posts events; the main loop calls
// Update once per frame and then queries edges:
//
//	in.Update()
//	if in.IsTriggered(input.KeyEscape) {
//		win.Close()
//	}
package input
