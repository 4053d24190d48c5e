// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package math3d provides the vector, quaternion and matrix types used by
// dxframe.
//
// All types are small float32 value types. Operations never allocate and
// never fail: normalizing a zero-length vector yields the zero vector.
//
// Matrices are row-major and vectors are row vectors, so a point is
// transformed as
//
//	v' = v * M
//
// and transforms compose left to right (scale * rotate * translate).
// Projection matrices target a left-handed clip space with depth in [0,1].
package math3d
