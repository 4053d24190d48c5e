// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command dxdemo runs the GPU particle demo.
//
// Usage:
//
//	dxdemo [-config dxframe.toml] [-frames 600] [-capture frame.bmp]
//
// Particles chase a target that orbits the origin. WASD moves the camera,
// the arrow keys turn it, Space pauses the simulation and Escape quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/gogpu/dxframe"
	"github.com/gogpu/dxframe/gpu"
	"github.com/gogpu/dxframe/input"
	"github.com/gogpu/dxframe/logfile"
	"github.com/gogpu/dxframe/math3d"
	"github.com/gogpu/dxframe/particle"
)

const (
	moveSpeed   = 0.1
	turnSpeed   = 0.02
	orbitRadius = 3
)

func main() {
	log.SetFlags(0)

	var (
		configPath  = flag.String("config", "", "TOML config file (defaults are used when empty)")
		writeConfig = flag.String("write-config", "", "write the effective config to this file and exit")
		backend     = flag.String("backend", "", "override graphics.backend (vulkan or noop)")
		frames      = flag.Int("frames", 600, "number of frames to run; 0 runs until the window closes")
		capture     = flag.String("capture", "", "save the last frame to this .bmp file")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath, *backend)
	if err != nil {
		log.Fatal(err)
	}
	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			log.Fatal(err)
		}
		log.Printf("config written to %s", *writeConfig)
		return
	}

	if err := run(cfg, *frames, *capture); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(path, backend string) (dxframe.Config, error) {
	cfg := dxframe.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = dxframe.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if backend != "" {
		cfg.Graphics.Backend = backend
	}
	return cfg, cfg.Validate()
}

// openLog creates the log file named by cfg. An empty path returns a nil
// logger, leaving dxframe silent.
func openLog(cfg dxframe.LogConfig) (*slog.Logger, func() error, error) {
	if cfg.Path == "" {
		return nil, func() error { return nil }, nil
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return slog.New(logfile.NewHandler(f, &logfile.Options{Level: level})), f.Close, nil
}

func run(cfg dxframe.Config, frames int, capturePath string) error {
	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	var opts []dxframe.Option
	if logger != nil {
		opts = append(opts, dxframe.WithLogger(logger))
	}
	app, err := dxframe.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer app.Close()

	particles, err := particle.New(app.Device, app.Shaders)
	if err != nil {
		return err
	}
	defer particles.Close()

	app.Window.Show()
	status := newStatusLine(os.Stdout)
	start := time.Now()
	paused := false
	var t float32

	for frame := 0; frames == 0 || frame < frames; frame++ {
		if !app.Step() {
			break
		}
		if app.Input.IsTriggered(input.KeyEscape) {
			app.Window.Close()
		}
		if app.Input.IsTriggered(input.KeySpace) {
			paused = !paused
			dxframe.Logger().Info("simulation paused", "paused", paused)
		}
		steerCamera(app)

		if !paused {
			t += 1.0 / 60
		}
		target := particle.Target{Position: orbit(t)}
		err := app.Frame(func(list *gpu.CommandList) error {
			if !particles.Initialized() {
				if err := particles.Initialize(list); err != nil {
					return err
				}
			}
			if !paused {
				if err := particles.Update(list, target); err != nil {
					return err
				}
			}
			return particles.Draw(list, app.Camera)
		})
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		status.Update(frame+1, time.Since(start), paused)
	}
	status.Done()

	if capturePath != "" {
		if err := saveCapture(app.Device, capturePath); err != nil {
			return err
		}
		log.Printf("captured %s", capturePath)
	}
	return nil
}

func steerCamera(app *dxframe.Context) {
	in, cam := app.Input, app.Camera
	var move math3d.Vector3
	if in.IsPressed(input.KeyW) {
		move.Z += moveSpeed
	}
	if in.IsPressed(input.KeyS) {
		move.Z -= moveSpeed
	}
	if in.IsPressed(input.KeyD) {
		move.X += moveSpeed
	}
	if in.IsPressed(input.KeyA) {
		move.X -= moveSpeed
	}
	if move != math3d.Zero3 {
		cam.Move(move)
	}

	var yaw, pitch float32
	if in.IsPressed(input.KeyRight) {
		yaw += turnSpeed
	}
	if in.IsPressed(input.KeyLeft) {
		yaw -= turnSpeed
	}
	if in.IsPressed(input.KeyDown) {
		pitch += turnSpeed
	}
	if in.IsPressed(input.KeyUp) {
		pitch -= turnSpeed
	}
	if in.IsMousePressed(input.MouseRight) {
		dx, dy := in.MouseDelta()
		yaw += dx * 0.005
		pitch += dy * 0.005
	}
	if yaw != 0 || pitch != 0 {
		cam.Rotate(yaw, pitch)
	}
}

// orbit returns the target position at time t.
func orbit(t float32) math3d.Vector3 {
	s, c := math.Sincos(float64(t))
	return math3d.V3(float32(c)*orbitRadius, float32(math.Sin(2*float64(t))), float32(s)*orbitRadius)
}

var errNoCapture = errors.New("capture: no frame presented")

func saveCapture(d *gpu.Device, path string) error {
	if d.FrameCount() == 0 {
		return errNoCapture
	}
	img, err := d.Capture()
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	return writeBMP(path, img)
}
