// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/dxframe"
	"github.com/gogpu/dxframe/gpu"
	"github.com/gogpu/dxframe/math3d"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("", "")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg != dxframe.DefaultConfig() {
		t.Errorf("loadConfig() = %+v, want defaults", cfg)
	}

	cfg, err = loadConfig("", gpu.BackendVulkan)
	if err != nil || cfg.Graphics.Backend != gpu.BackendVulkan {
		t.Errorf("backend override = %q, %v", cfg.Graphics.Backend, err)
	}
	if _, err := loadConfig("", "metal"); !errors.Is(err, dxframe.ErrInvalidConfig) {
		t.Errorf("bad backend error = %v, want ErrInvalidConfig", err)
	}
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), ""); err == nil {
		t.Error("missing file: expected error")
	}
}

func TestOrbit(t *testing.T) {
	p := orbit(0)
	if !math3d.Approx(p.X, orbitRadius, 1e-5) || !math3d.Approx(p.Y, 0, 1e-5) || !math3d.Approx(p.Z, 0, 1e-5) {
		t.Errorf("orbit(0) = %v", p)
	}
	for _, tt := range []float32{0.5, 1, 2.5, 10} {
		q := orbit(tt)
		if r := math3d.V3(q.X, 0, q.Z).Length(); !math3d.Approx(r, orbitRadius, 1e-4) {
			t.Errorf("orbit(%v) radius = %v, want %v", tt, r, orbitRadius)
		}
	}
}

func TestStatusLine(t *testing.T) {
	var buf bytes.Buffer
	s := &statusLine{w: &buf}
	s.Update(10, time.Second, false)
	s.Done()
	if buf.Len() != 0 {
		t.Errorf("non-terminal output = %q, want empty", buf.String())
	}

	s = &statusLine{w: &buf, tty: true, width: 20}
	s.Update(60, time.Second, true)
	line := buf.String()
	if !strings.HasPrefix(line, "\rframe 60") || len(line) != 20 {
		t.Errorf("status = %q (len %d)", line, len(line))
	}
	buf.Reset()
	s.Update(61, time.Second+10*time.Millisecond, false)
	if buf.Len() != 0 {
		t.Errorf("redraw within 250ms = %q", buf.String())
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := dxframe.DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = 64, 64
	cfg.Log.Path = filepath.Join(dir, "Log.txt")
	t.Cleanup(func() { dxframe.SetLogger(nil) })

	if err := run(cfg, 3, ""); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	data, err := os.ReadFile(cfg.Log.Path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Initialize dxframe", "particle system created"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %q:\n%s", want, data)
		}
	}
}
