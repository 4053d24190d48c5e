// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/gogpu/dxframe/gpu"
	"github.com/gogpu/dxframe/internal/cache"
	"github.com/gogpu/dxframe/internal/logging"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// DefaultCacheSize is the number of compiled shaders kept when
// Options.CacheSize is zero.
const DefaultCacheSize = 64

// Stage is the pipeline stage a shader entry point runs in.
type Stage int

const (
	StageVertex Stage = iota
	StagePixel
	StageCompute
)

// String returns the string representation of Stage.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "Vertex"
	case StagePixel:
		return "Pixel"
	case StageCompute:
		return "Compute"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// attribute returns the WGSL attribute marking an entry point of stage s.
func (s Stage) attribute() string {
	switch s {
	case StagePixel:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return "vertex"
	}
}

// Options configures a Compiler.
type Options struct {
	// BaseDir is prepended to relative paths passed to Compile.
	BaseDir string

	// CacheSize bounds the number of cached shaders. Evicted shaders are
	// destroyed, so pipelines must not outlive the shaders they were
	// built from unless CacheSize is large enough to hold them all.
	CacheSize int
}

// Shader is a compiled entry point.
type Shader struct {
	mu     sync.Mutex
	device hal.Device

	Module hal.ShaderModule
	Name   string
	Entry  string
	Stage  Stage
	SPIRV  []uint32

	hash uint64
}

// Bytecode returns the shader in the form pipeline builders take.
func (s *Shader) Bytecode() gpu.ShaderBytecode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gpu.ShaderBytecode{Module: s.Module, EntryPoint: s.Entry, Hash: s.hash}
}

// Destroy releases the HAL module. It is safe to call more than once.
func (s *Shader) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Module != nil {
		s.device.DestroyShaderModule(s.Module)
		s.Module = nil
	}
}

// Compiler turns WGSL into HAL shader modules and caches the results.
type Compiler struct {
	device  hal.Device
	baseDir string
	shaders *cache.Cache[string, *Shader]

	mu     sync.Mutex
	closed bool
}

// NewCompiler creates a compiler producing modules on device.
func NewCompiler(device hal.Device, opts Options) (*Compiler, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	return &Compiler{
		device:  device,
		baseDir: opts.BaseDir,
		shaders: cache.New[string, *Shader](size, func(_ string, s *Shader) { s.Destroy() }),
	}, nil
}

// Compile reads the WGSL file at path and compiles entry for stage.
// Relative paths are resolved against Options.BaseDir.
func (c *Compiler) Compile(path, entry string, stage Stage) (*Shader, error) {
	full := path
	if !filepath.IsAbs(path) && c.baseDir != "" {
		full = filepath.Join(c.baseDir, path)
	}
	key := cacheKey(full, entry, stage)
	if s, ok := c.shaders.Get(key); ok {
		return s, nil
	}
	src, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", path, err)
	}
	return c.compile(key, full, string(src), entry, stage)
}

// CompileSource compiles entry of the WGSL source src. name identifies
// the source in logs and errors. Results are cached by name and a hash of
// src, so new source under an old name is compiled again.
func (c *Compiler) CompileSource(name, src, entry string, stage Stage) (*Shader, error) {
	key := fmt.Sprintf("%s#%016x", cacheKey(name, entry, stage), gpu.HashBytes([]byte(src)))
	return c.compile(key, name, src, entry, stage)
}

func cacheKey(name, entry string, stage Stage) string {
	return fmt.Sprintf("%s#%s#%d", name, entry, int(stage))
}

func (c *Compiler) compile(key, name, src, entry string, stage Stage) (*Shader, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrCompilerClosed
	}
	return c.shaders.GetOrCreate(key, func() (*Shader, error) {
		log := logging.Logger()
		log.Info("Begin compile shader", "path", name, "entry", entry, "stage", stage)

		if len(src) == 0 {
			return nil, fmt.Errorf("shader %s: %w", name, ErrEmptySource)
		}
		if !hasEntryPoint(src, entry, stage) {
			log.Error("Compile failed", "path", name, "entry", entry, "error", ErrEntryPointNotFound)
			return nil, fmt.Errorf("shader %s: %w: @%s fn %s", name, ErrEntryPointNotFound, stage.attribute(), entry)
		}
		words, err := CompileWGSL(src)
		if err != nil {
			log.Error("Compile failed", "path", name, "entry", entry, "error", err)
			return nil, fmt.Errorf("shader %s: %w", name, err)
		}
		module, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  name + ":" + entry,
			Source: hal.ShaderSource{SPIRV: words},
		})
		if err != nil {
			return nil, fmt.Errorf("shader %s: create module: %w", name, err)
		}
		log.Info("Compile succeeded", "path", name, "entry", entry, "words", len(words))
		return &Shader{
			device: c.device,
			Module: module,
			Name:   name,
			Entry:  entry,
			Stage:  stage,
			SPIRV:  words,
			hash:   gpu.HashBytes([]byte(key + "\x00" + src)),
		}, nil
	})
}

// Len returns the number of cached shaders.
func (c *Compiler) Len() int { return c.shaders.Len() }

// Close destroys every cached shader.
func (c *Compiler) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.shaders.Clear()
}

// CompileWGSL translates WGSL source to SPIR-V words.
func CompileWGSL(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile WGSL: %w", err)
	}
	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// hasEntryPoint reports whether src declares fn entry with the attribute
// of stage, allowing further attributes such as @workgroup_size between.
func hasEntryPoint(src, entry string, stage Stage) bool {
	re := regexp.MustCompile(`@` + stage.attribute() +
		`\b(\s*@\w+(\([^)]*\))?)*\s*fn\s+` + regexp.QuoteMeta(entry) + `\s*\(`)
	return re.MatchString(src)
}
