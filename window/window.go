// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package window provides the application window: its client size, an
// event queue drained once per frame, and close handling.
//
// A Window is headless until a platform layer posts events into it, which
// lets the frame loop run unchanged under tests and on the noop backend.
package window

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/dxframe/input"
	"github.com/gogpu/dxframe/internal/logging"
)

// Defaults used by New for a zero size or empty title.
const (
	DefaultTitle  = "Window"
	DefaultWidth  = 1280
	DefaultHeight = 720
)

var (
	// ErrInvalidSize is returned for a resize to a zero dimension.
	ErrInvalidSize = errors.New("window: invalid size")

	// ErrClosed is returned when posting to a closed window.
	ErrClosed = errors.New("window: closed")
)

// EventKind identifies the type of a window Event.
type EventKind int

const (
	EventResize EventKind = iota
	EventClose
	// EventInput carries a keyboard or mouse event for the attached Input.
	EventInput
)

// String returns the string representation of EventKind.
func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "Resize"
	case EventClose:
		return "Close"
	case EventInput:
		return "Input"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a message for the window's queue.
type Event struct {
	Kind EventKind

	// Width and Height are the new client size for EventResize.
	Width, Height uint32

	Input input.Event
}

// ResizeFunc is called from ProcessMessages after the client size changed.
type ResizeFunc func(width, height uint32)

// Window is an application window.
type Window struct {
	mu      sync.Mutex
	title   string
	width   uint32
	height  uint32
	visible bool
	closed  bool
	queue   []Event

	onResize []ResizeFunc
	input    *input.Input
}

// New creates a hidden window with the given client size.
func New(title string, width, height uint32) *Window {
	if title == "" {
		title = DefaultTitle
	}
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	return &Window{title: title, width: width, height: height}
}

// Show makes the window visible.
func (w *Window) Show() {
	w.mu.Lock()
	w.visible = true
	title := w.title
	w.mu.Unlock()
	logging.Logger().Info(fmt.Sprintf("Show %s Window", title))
}

// Close queues a close request. The next ProcessMessages returns false.
func (w *Window) Close() {
	_ = w.Post(Event{Kind: EventClose})
}

// Post queues e for the next ProcessMessages.
func (w *Window) Post(e Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if e.Kind == EventResize && (e.Width == 0 || e.Height == 0) {
		// Minimized windows report a zero client area; keep the last size.
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, e.Width, e.Height)
	}
	w.queue = append(w.queue, e)
	return nil
}

// PostInput queues an input event.
func (w *Window) PostInput(e input.Event) error {
	return w.Post(Event{Kind: EventInput, Input: e})
}

// OnResize registers fn to run after each client size change.
func (w *Window) OnResize(fn ResizeFunc) {
	w.mu.Lock()
	w.onResize = append(w.onResize, fn)
	w.mu.Unlock()
}

// AttachInput routes input events to in. Pass nil to detach.
func (w *Window) AttachInput(in *input.Input) {
	w.mu.Lock()
	w.input = in
	w.mu.Unlock()
}

// ProcessMessages drains the event queue. It returns false once the
// window has been closed.
func (w *Window) ProcessMessages() bool {
	w.mu.Lock()
	events := w.queue
	w.queue = nil
	in := w.input
	callbacks := w.onResize
	w.mu.Unlock()

	for _, e := range events {
		switch e.Kind {
		case EventResize:
			w.mu.Lock()
			changed := e.Width != w.width || e.Height != w.height
			w.width, w.height = e.Width, e.Height
			w.mu.Unlock()
			if !changed {
				continue
			}
			logging.Logger().Debug("window resized", "width", e.Width, "height", e.Height)
			for _, fn := range callbacks {
				fn(e.Width, e.Height)
			}
		case EventClose:
			w.mu.Lock()
			w.closed = true
			w.visible = false
			w.mu.Unlock()
			logging.Logger().Info("window closed", "title", w.title)
			return false
		case EventInput:
			if in != nil {
				in.Post(e.Input)
			}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed
}

// Title returns the window title.
func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// ClientSize returns the drawable area in pixels.
func (w *Window) ClientSize() (width, height uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Visible reports whether Show was called and the window is still open.
func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Closed reports whether a close request has been processed.
func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
