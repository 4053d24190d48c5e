// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dxframe

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/dxframe/camera"
	"github.com/gogpu/dxframe/gpu"
	"github.com/gogpu/dxframe/input"
	"github.com/gogpu/dxframe/internal/logging"
	"github.com/gogpu/dxframe/logfile"
	"github.com/gogpu/dxframe/math3d"
	"github.com/gogpu/dxframe/shader"
	"github.com/gogpu/dxframe/window"
	"github.com/gogpu/gpucontext"
)

// Option configures a Context during creation.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	window    *window.Window
	presenter gpu.Presenter
	provider  gpucontext.DeviceProvider
	shaderDir string
}

// WithLogger installs l with SetLogger before anything else is created.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWindow uses w instead of creating a window from Config.Window.
func WithWindow(w *window.Window) Option {
	return func(o *options) { o.window = w }
}

// WithPresenter sets the swap chain presenter.
func WithPresenter(p gpu.Presenter) Option {
	return func(o *options) { o.presenter = p }
}

// WithDeviceProvider builds the device on a host application's HAL device
// instead of opening Config.Graphics.Backend.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) { o.provider = p }
}

// WithShaderDir sets the directory relative shader paths are read from.
func WithShaderDir(dir string) Option {
	return func(o *options) { o.shaderDir = dir }
}

// Context owns the framework objects of one application. It replaces
// process-wide singletons: everything that needs the device, window or
// input gets it from a Context.
type Context struct {
	Config Config

	Window  *window.Window
	Input   *input.Input
	Device  *gpu.Device
	Shaders *shader.Compiler
	Camera  *camera.Camera

	closers []func()
	closed  bool
}

// New creates the window, input, device, shader compiler and camera in
// that order. On failure everything created so far is released.
func New(cfg Config, opts ...Option) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}
	log := logging.Logger()
	logfile.Border(log)
	log.Info("Initialize dxframe", "version", Version, "title", cfg.Window.Title, "backend", cfg.Graphics.Backend)

	c := &Context{Config: cfg}
	if err := c.init(o); err != nil {
		c.Close()
		return nil, err
	}
	logfile.Border(log)
	return c, nil
}

func (c *Context) init(o options) error {
	c.Window = o.window
	if c.Window == nil {
		c.Window = window.New(c.Config.Window.Title, c.Config.Window.Width, c.Config.Window.Height)
	}
	c.Input = input.New()
	c.Window.AttachInput(c.Input)
	c.closers = append(c.closers, func() { c.Window.AttachInput(nil) })

	gpuOpts := c.Config.GPUOptions()
	gpuOpts.Width, gpuOpts.Height = c.Window.ClientSize()
	var err error
	if o.provider != nil {
		c.Device, err = gpu.OpenShared(o.provider, gpuOpts)
	} else {
		c.Device, err = gpu.Open(gpuOpts)
	}
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	c.closers = append(c.closers, c.Device.Close)
	if o.presenter != nil {
		c.Device.SwapChain().SetPresenter(o.presenter)
	}

	if c.Shaders, err = shader.NewCompiler(c.Device.HalDevice(), shader.Options{BaseDir: o.shaderDir}); err != nil {
		return err
	}
	c.closers = append(c.closers, c.Shaders.Close)

	c.Camera = camera.New()
	c.Camera.SetProjection(math3d.ToRadian(c.Config.Camera.FovY), c.Camera.Aspect, c.Config.Camera.Near, c.Config.Camera.Far)
	width, height := c.Window.ClientSize()
	c.Camera.SetAspect(width, height)

	c.Window.OnResize(c.resize)
	return nil
}

func (c *Context) resize(width, height uint32) {
	if c.closed {
		return
	}
	if err := c.Device.Resize(width, height); err != nil {
		logging.Logger().Error("resize failed", "width", width, "height", height, "error", err)
		return
	}
	c.Camera.SetAspect(width, height)
}

// Step pumps window messages and updates input. It returns false once the
// window is closed.
func (c *Context) Step() bool {
	if c.closed || !c.Window.ProcessMessages() {
		return false
	}
	c.Input.Update()
	return true
}

// Frame runs one BeginFrame/record/EndFrame cycle.
func (c *Context) Frame(record func(list *gpu.CommandList) error) error {
	if c.closed {
		return ErrClosed
	}
	list, err := c.Device.BeginFrame()
	if err != nil {
		return err
	}
	if err := record(list); err != nil {
		// The frame is still submitted so the device stays consistent.
		if endErr := c.Device.EndFrame(); endErr != nil {
			logging.Logger().Error("end frame after record failure", "error", endErr)
		}
		return err
	}
	return c.Device.EndFrame()
}

// Close releases everything New created in reverse order. It waits for the
// GPU first. It is safe to call more than once.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.Device != nil {
		if err := c.Device.WaitIdle(); err != nil {
			logging.Logger().Warn("wait idle on close", "error", err)
		}
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
	logging.Logger().Info("dxframe closed")
}
