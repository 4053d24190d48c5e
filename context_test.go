// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxframe

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/dxframe/gpu"
	"github.com/gogpu/dxframe/input"
	"github.com/gogpu/dxframe/logfile"
	"github.com/gogpu/dxframe/window"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = 64, 32
	return cfg
}

func TestNewContext(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	presented := 0
	c, err := New(testConfig(),
		WithLogger(slog.New(logfile.NewHandler(&buf, nil))),
		WithPresenter(func(*gpu.RenderTarget) error { presented++; return nil }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	if c.Window == nil || c.Input == nil || c.Device == nil || c.Shaders == nil || c.Camera == nil {
		t.Fatal("Context is missing a component")
	}
	if bb := c.Device.SwapChain().BackBuffer(0); bb.Width() != 64 || bb.Height() != 32 {
		t.Errorf("back buffer = %dx%d, want window size", bb.Width(), bb.Height())
	}
	if c.Camera.Aspect != 2 {
		t.Errorf("camera aspect = %v, want 2", c.Camera.Aspect)
	}

	if !c.Step() {
		t.Fatal("Step() = false on an open window")
	}
	if err := c.Frame(func(*gpu.CommandList) error { return nil }); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if presented != 1 {
		t.Errorf("presented = %d, want 1", presented)
	}

	log := buf.String()
	if !strings.Contains(log, logfile.BorderLine) || !strings.Contains(log, "Info      : Initialize dxframe") {
		t.Errorf("log = %q", log)
	}
}

func TestContextInputAndResize(t *testing.T) {
	w := window.New("test", 32, 32)
	c, err := New(testConfig(), WithWindow(w))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_ = w.PostInput(input.Event{Kind: input.EventKeyDown, Key: input.KeyEscape})
	_ = w.Post(window.Event{Kind: window.EventResize, Width: 100, Height: 50})
	if !c.Step() {
		t.Fatal("Step() = false")
	}
	if !c.Input.IsTriggered(input.KeyEscape) {
		t.Error("Escape did not reach Input")
	}
	if bb := c.Device.SwapChain().BackBuffer(0); bb.Width() != 100 || bb.Height() != 50 {
		t.Errorf("back buffer after resize = %dx%d", bb.Width(), bb.Height())
	}
	if c.Camera.Aspect != 2 {
		t.Errorf("camera aspect after resize = %v", c.Camera.Aspect)
	}

	w.Close()
	if c.Step() {
		t.Error("Step() = true after window close")
	}
}

func TestContextFrameError(t *testing.T) {
	c, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	errRecord := errors.New("record failed")
	if err := c.Frame(func(*gpu.CommandList) error { return errRecord }); !errors.Is(err, errRecord) {
		t.Errorf("Frame() error = %v, want record error", err)
	}
	// The failed frame was still ended.
	if err := c.Frame(func(*gpu.CommandList) error { return nil }); err != nil {
		t.Errorf("Frame() after failure error = %v", err)
	}

	c.Close()
	c.Close()
	if err := c.Frame(func(*gpu.CommandList) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Errorf("Frame() after Close error = %v, want ErrClosed", err)
	}
	if c.Step() {
		t.Error("Step() = true after Close")
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Graphics.Backend = "metal"
	if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New(invalid) error = %v, want ErrInvalidConfig", err)
	}
}
