// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package input

import (
	"fmt"
	"sync"

	"github.com/gogpu/dxframe/internal/logging"
	"github.com/gogpu/gpucontext"
)

// EventKind identifies the type of an input Event.
type EventKind int

const (
	EventKeyDown EventKind = iota
	EventKeyUp
	// EventKeyPress marks a key that went down and up between two updates.
	// It reads as pressed for exactly one Update.
	EventKeyPress
	EventMouseDown
	EventMouseUp
	EventMouseMove
	EventWheel
)

// String returns the string representation of EventKind.
func (k EventKind) String() string {
	switch k {
	case EventKeyDown:
		return "KeyDown"
	case EventKeyUp:
		return "KeyUp"
	case EventKeyPress:
		return "KeyPress"
	case EventMouseDown:
		return "MouseDown"
	case EventMouseUp:
		return "MouseUp"
	case EventMouseMove:
		return "MouseMove"
	case EventWheel:
		return "Wheel"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a single keyboard or mouse event.
type Event struct {
	Kind   EventKind
	Key    Key
	Button MouseButton
	// X and Y are the cursor position in client pixels for EventMouseMove.
	X, Y  float32
	Wheel float32
}

type snapshot struct {
	keys    [KeyCount]bool
	buttons [MouseButtonCount]bool
	x, y    float32
}

// Input holds current and previous keyboard and mouse snapshots. Events
// are queued with Post and applied by Update, so queries are stable for
// the whole frame.
//
// Input is safe for concurrent use.
type Input struct {
	mu      sync.Mutex
	cur     snapshot
	prev    snapshot
	wheel   float32
	pending []Event
	pulsed  []Key
}

// New returns an Input with every key and button up.
func New() *Input {
	return &Input{}
}

// Post queues e until the next Update.
func (in *Input) Post(e Event) {
	in.mu.Lock()
	in.pending = append(in.pending, e)
	in.mu.Unlock()
}

// Update makes the current snapshot the previous one and applies every
// queued event.
func (in *Input) Update() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.prev = in.cur
	in.wheel = 0
	for _, k := range in.pulsed {
		in.cur.keys[k] = false
	}
	in.pulsed = in.pulsed[:0]

	for _, e := range in.pending {
		in.apply(e)
	}
	in.pending = in.pending[:0]
}

func (in *Input) apply(e Event) {
	switch e.Kind {
	case EventKeyDown:
		in.cur.keys[e.Key] = true
	case EventKeyUp:
		in.cur.keys[e.Key] = false
	case EventKeyPress:
		if !in.cur.keys[e.Key] {
			in.cur.keys[e.Key] = true
			in.pulsed = append(in.pulsed, e.Key)
		}
	case EventMouseDown, EventMouseUp:
		if e.Button >= MouseButtonCount {
			logging.Logger().Warn("input: mouse button out of range", "button", e.Button)
			return
		}
		in.cur.buttons[e.Button] = e.Kind == EventMouseDown
	case EventMouseMove:
		in.cur.x, in.cur.y = e.X, e.Y
	case EventWheel:
		in.wheel += e.Wheel
	}
}

// IsPressed reports whether k is down.
func (in *Input) IsPressed(k Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.cur.keys[k]
}

// IsTriggered reports whether k went down since the previous Update.
func (in *Input) IsTriggered(k Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.cur.keys[k] && !in.prev.keys[k]
}

// IsReleased reports whether k went up since the previous Update.
func (in *Input) IsReleased(k Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return !in.cur.keys[k] && in.prev.keys[k]
}

// IsMousePressed reports whether b is down.
func (in *Input) IsMousePressed(b MouseButton) bool {
	if b >= MouseButtonCount {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.cur.buttons[b]
}

// IsMouseTriggered reports whether b went down since the previous Update.
func (in *Input) IsMouseTriggered(b MouseButton) bool {
	if b >= MouseButtonCount {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.cur.buttons[b] && !in.prev.buttons[b]
}

// IsMouseReleased reports whether b went up since the previous Update.
func (in *Input) IsMouseReleased(b MouseButton) bool {
	if b >= MouseButtonCount {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	return !in.cur.buttons[b] && in.prev.buttons[b]
}

// MousePosition returns the last cursor position in client pixels.
func (in *Input) MousePosition() (x, y float32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.cur.x, in.cur.y
}

// MouseDelta returns how far the cursor moved during the last Update.
func (in *Input) MouseDelta() (dx, dy float32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.cur.x - in.prev.x, in.cur.y - in.prev.y
}

// Wheel returns the wheel movement accumulated during the last Update.
func (in *Input) Wheel() float32 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.wheel
}

// KeyMap translates host key codes to scan codes.
type KeyMap map[gpucontext.Key]Key

// DefaultKeyMap maps the host keys dxframe reacts to.
func DefaultKeyMap() KeyMap {
	return KeyMap{gpucontext.KeySpace: KeySpace}
}

// FromKeyPress returns a callback for a gpucontext event source's
// OnKeyPress. Mapped keys are posted as EventKeyPress; others are ignored.
// A nil m uses DefaultKeyMap.
//
//	app.EventSource().OnKeyPress(input.FromKeyPress(in, nil))
func FromKeyPress(in *Input, m KeyMap) func(gpucontext.Key, gpucontext.Modifiers) {
	if m == nil {
		m = DefaultKeyMap()
	}
	return func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if k, ok := m[key]; ok {
			in.Post(Event{Kind: EventKeyPress, Key: k})
		}
	}
}
