// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxframe

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/dxframe/camera"
	"github.com/gogpu/dxframe/gpu"
	"github.com/gogpu/dxframe/internal/logging"
	"github.com/gogpu/gputypes"
)

// Config is the application configuration, usually read from a TOML file:
//
//	[window]
//	title = "dxframe"
//	width = 1280
//	height = 720
//
//	[graphics]
//	backend = "vulkan"
//	clear_color = [0.1, 0.25, 0.5, 1.0]
//
//	[log]
//	path = "Log.txt"
//	level = "debug"
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Graphics GraphicsConfig `toml:"graphics"`
	Camera   CameraConfig   `toml:"camera"`
	Log      LogConfig      `toml:"log"`
}

// WindowConfig is the [window] table.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

// GraphicsConfig is the [graphics] table.
type GraphicsConfig struct {
	Backend        string     `toml:"backend"`
	BufferCount    int        `toml:"buffer_count"`
	RTVHeapSize    uint32     `toml:"rtv_heap_size"`
	DSVHeapSize    uint32     `toml:"dsv_heap_size"`
	CommonHeapSize uint32     `toml:"common_heap_size"`
	ClearColor     [4]float64 `toml:"clear_color"`
}

// CameraConfig is the [camera] table. FovY is in degrees.
type CameraConfig struct {
	FovY float32 `toml:"fov_y"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
}

// LogConfig is the [log] table. An empty Path disables logging.
type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// DefaultConfig returns the built-in configuration: a 1280x720 window,
// two back buffers on the noop backend, and Log.txt at info level.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{Title: "dxframe", Width: 1280, Height: 720},
		Graphics: GraphicsConfig{
			Backend:        gpu.BackendNoop,
			BufferCount:    2,
			RTVHeapSize:    16,
			DSVHeapSize:    8,
			CommonHeapSize: 1024,
			ClearColor:     [4]float64{0.1, 0.25, 0.5, 1},
		},
		Camera: CameraConfig{
			FovY: camera.DefaultFovYDegrees,
			Near: camera.DefaultNear,
			Far:  camera.DefaultFar,
		},
		Log: LogConfig{Path: "Log.txt", Level: "info"},
	}
}

// LoadConfig reads path over DefaultConfig and validates the result.
// Unknown keys are logged and ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		logging.Logger().Warn("unknown config key", "path", path, "key", key.String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path as TOML.
func (c Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Window.Width == 0 || c.Window.Height == 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Graphics.Backend != gpu.BackendVulkan && c.Graphics.Backend != gpu.BackendNoop:
		return fmt.Errorf("%w: backend %q", ErrInvalidConfig, c.Graphics.Backend)
	case c.Graphics.BufferCount < 2 || c.Graphics.BufferCount > 3:
		return fmt.Errorf("%w: buffer_count %d, want 2 or 3", ErrInvalidConfig, c.Graphics.BufferCount)
	case c.Graphics.RTVHeapSize < uint32(c.Graphics.BufferCount):
		return fmt.Errorf("%w: rtv_heap_size %d smaller than buffer_count", ErrInvalidConfig, c.Graphics.RTVHeapSize)
	case c.Graphics.DSVHeapSize == 0 || c.Graphics.CommonHeapSize == 0:
		return fmt.Errorf("%w: empty descriptor heap", ErrInvalidConfig)
	case c.Camera.FovY <= 0 || c.Camera.FovY >= 180:
		return fmt.Errorf("%w: fov_y %v", ErrInvalidConfig, c.Camera.FovY)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: near %v far %v", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// SlogLevel parses Level. Empty means info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", l.Level, err)
	}
	return level, nil
}

// GPUOptions converts the window and graphics tables to device options.
func (c Config) GPUOptions() gpu.Options {
	cc := c.Graphics.ClearColor
	return gpu.Options{
		Backend:        c.Graphics.Backend,
		Width:          c.Window.Width,
		Height:         c.Window.Height,
		BufferCount:    c.Graphics.BufferCount,
		ClearColor:     gputypes.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]},
		RTVHeapSize:    c.Graphics.RTVHeapSize,
		DSVHeapSize:    c.Graphics.DSVHeapSize,
		CommonHeapSize: c.Graphics.CommonHeapSize,
	}
}
