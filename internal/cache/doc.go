// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides a generic LRU cache for objects that own
// GPU resources.
//
// Entries evicted by the capacity limit, removed by Delete or dropped by
// Clear are passed to the eviction callback, so a cache of shader modules
// or pipelines can release them:
//
//	c := cache.New[string, *Shader](64, func(_ string, s *Shader) { s.Destroy() })
//	s, err := c.GetOrCreate(key, compile)
//
// Cache is safe for concurrent use.
package cache
