// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/gogpu/dxframe/internal/logging"
	"github.com/gogpu/wgpu/hal"
)

// ErrNilDescriptor is returned when the cache is asked for a nil description.
var ErrNilDescriptor = errors.New("gpu: pipeline description is nil")

// PipelineCache deduplicates pipeline creation by description hash.
//
// Thread Safety:
// PipelineCache is safe for concurrent use. Lookups take a read lock and
// creation takes the write lock with a second lookup.
//
// Usage:
//
//	cache := NewPipelineCache(device)
//	pso, err := cache.Graphics(desc)
//
// Pipelines returned by the cache are owned by it; call DestroyAll rather
// than PipelineState.Destroy.
type PipelineCache struct {
	mu sync.RWMutex

	device   hal.Device
	graphics map[uint64]*PipelineState
	compute  map[uint64]*PipelineState

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewPipelineCache creates an empty cache creating pipelines on device.
func NewPipelineCache(device hal.Device) *PipelineCache {
	return &PipelineCache{
		device:   device,
		graphics: make(map[uint64]*PipelineState),
		compute:  make(map[uint64]*PipelineState),
	}
}

// Graphics returns a cached render pipeline for desc or creates one.
//
//nolint:dupl // same double-check locking for graphics and compute
func (c *PipelineCache) Graphics(desc *GraphicsPipelineStateDesc) (*PipelineState, error) {
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	key := hashGraphicsDesc(desc)

	c.mu.RLock()
	if p, ok := c.graphics[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.graphics[key]; ok {
		c.hits.Add(1)
		return p, nil
	}
	p, err := desc.Create(c.device)
	if err != nil {
		return nil, err
	}
	c.graphics[key] = p
	c.misses.Add(1)
	logging.Logger().Debug("pipeline created", "label", desc.Label, "hash", fmt.Sprintf("%016x", key))
	return p, nil
}

// Compute returns a cached compute pipeline for desc or creates one.
//
//nolint:dupl // same double-check locking for graphics and compute
func (c *PipelineCache) Compute(desc *ComputePipelineStateDesc) (*PipelineState, error) {
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	key := hashComputeDesc(desc)

	c.mu.RLock()
	if p, ok := c.compute[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.compute[key]; ok {
		c.hits.Add(1)
		return p, nil
	}
	p, err := desc.Create(c.device)
	if err != nil {
		return nil, err
	}
	c.compute[key] = p
	c.misses.Add(1)
	logging.Logger().Debug("pipeline created", "label", desc.Label, "hash", fmt.Sprintf("%016x", key))
	return p, nil
}

// Stats returns the number of cache hits and misses.
func (c *PipelineCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// HitRate returns hits/(hits+misses), or 0 before any lookup.
func (c *PipelineCache) HitRate() float64 {
	hits, misses := c.Stats()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// Size returns the number of cached pipelines.
func (c *PipelineCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.graphics) + len(c.compute)
}

// EvictRootSignature destroys and forgets every cached pipeline built on
// rs and returns how many were removed. Call it before destroying rs.
func (c *PipelineCache) EvictRootSignature(rs *RootSignature) int {
	if rs == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range []map[uint64]*PipelineState{c.graphics, c.compute} {
		for key, p := range m {
			if p.RootSignature() == rs {
				p.Destroy()
				delete(m, key)
				n++
			}
		}
	}
	if n > 0 {
		logging.Logger().Debug("pipelines evicted", "root_signature", rs.Label(), "count", n)
	}
	return n
}

// DestroyAll destroys every cached pipeline and resets the statistics.
func (c *PipelineCache) DestroyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.graphics {
		p.Destroy()
	}
	for _, p := range c.compute {
		p.Destroy()
	}
	c.graphics = make(map[uint64]*PipelineState)
	c.compute = make(map[uint64]*PipelineState)
	c.hits.Store(0)
	c.misses.Store(0)
}

// hashGraphicsDesc computes an FNV-1a hash over every field that affects
// the created pipeline.
func hashGraphicsDesc(d *GraphicsPipelineStateDesc) uint64 {
	h := fnv.New64a()
	hashWriteUint64(h, rootSignatureID(d.RootSignature))
	hashWriteShader(h, d.VertexShader)
	hashWriteShader(h, d.PixelShader)

	hashWriteUint32(h, uint32(len(d.InputLayout)))
	for _, e := range d.InputLayout {
		hashWriteString(h, e.Semantic)
		hashWriteUint32(h, e.SemanticIndex)
		hashWriteUint32(h, uint32(e.Format))
		hashWriteUint32(h, e.Slot)
		hashWriteUint64(h, e.Offset)
		hashWriteBool(h, e.PerInstance)
	}

	hashWriteUint32(h, uint32(d.Topology))
	hashWriteUint32(h, uint32(d.CullMode))
	hashWriteUint32(h, uint32(d.FillMode))

	hashWriteUint32(h, uint32(len(d.Targets)))
	for _, t := range d.Targets {
		hashWriteUint32(h, uint32(t.Format))
		hashWriteUint32(h, uint32(t.Blend))
	}

	hashWriteBool(h, d.DepthEnable)
	hashWriteBool(h, d.DepthWrite)
	hashWriteUint32(h, uint32(d.DepthCompare))
	hashWriteUint32(h, uint32(d.DepthFormat))
	hashWriteUint32(h, d.SampleCount)
	return h.Sum64()
}

func hashComputeDesc(d *ComputePipelineStateDesc) uint64 {
	h := fnv.New64a()
	hashWriteUint64(h, rootSignatureID(d.RootSignature))
	hashWriteShader(h, d.ComputeShader)
	return h.Sum64()
}

func rootSignatureID(rs *RootSignature) uint64 {
	if rs == nil {
		return 0
	}
	return rs.id
}

// HashBytes returns the FNV-1a hash of data.
func HashBytes(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

func hashWriteShader(h hash.Hash64, s ShaderBytecode) {
	hashWriteBool(h, !s.IsZero())
	hashWriteUint64(h, s.Hash)
	hashWriteString(h, s.EntryPoint)
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteString(h hash.Hash64, s string) {
	hashWriteUint32(h, uint32(len(s)))
	_, _ = h.Write([]byte(s))
}

func hashWriteBool(h hash.Hash64, v bool) {
	if v {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}
