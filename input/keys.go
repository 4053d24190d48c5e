// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package input

import "fmt"

// KeyCount is the number of distinct key codes.
const KeyCount = 256

// Key is a keyboard scan code.
type Key uint8

// Keyboard keys. Values are set 1 scan codes.
const (
	KeyUnknown    Key = 0x00
	KeyEscape     Key = 0x01
	Key1          Key = 0x02
	Key2          Key = 0x03
	Key3          Key = 0x04
	Key4          Key = 0x05
	Key5          Key = 0x06
	Key6          Key = 0x07
	Key7          Key = 0x08
	Key8          Key = 0x09
	Key9          Key = 0x0A
	Key0          Key = 0x0B
	KeyMinus      Key = 0x0C
	KeyEquals     Key = 0x0D
	KeyBackspace  Key = 0x0E
	KeyTab        Key = 0x0F
	KeyQ          Key = 0x10
	KeyW          Key = 0x11
	KeyE          Key = 0x12
	KeyR          Key = 0x13
	KeyT          Key = 0x14
	KeyY          Key = 0x15
	KeyU          Key = 0x16
	KeyI          Key = 0x17
	KeyO          Key = 0x18
	KeyP          Key = 0x19
	KeyLBracket   Key = 0x1A
	KeyRBracket   Key = 0x1B
	KeyEnter      Key = 0x1C
	KeyLCtrl      Key = 0x1D
	KeyA          Key = 0x1E
	KeyS          Key = 0x1F
	KeyD          Key = 0x20
	KeyF          Key = 0x21
	KeyG          Key = 0x22
	KeyH          Key = 0x23
	KeyJ          Key = 0x24
	KeyK          Key = 0x25
	KeyL          Key = 0x26
	KeySemicolon  Key = 0x27
	KeyApostrophe Key = 0x28
	KeyGrave      Key = 0x29
	KeyLShift     Key = 0x2A
	KeyBackslash  Key = 0x2B
	KeyZ          Key = 0x2C
	KeyX          Key = 0x2D
	KeyC          Key = 0x2E
	KeyV          Key = 0x2F
	KeyB          Key = 0x30
	KeyN          Key = 0x31
	KeyM          Key = 0x32
	KeyComma      Key = 0x33
	KeyPeriod     Key = 0x34
	KeySlash      Key = 0x35
	KeyRShift     Key = 0x36
	KeyLAlt       Key = 0x38
	KeySpace      Key = 0x39
	KeyCapsLock   Key = 0x3A
	KeyF1         Key = 0x3B
	KeyF2         Key = 0x3C
	KeyF3         Key = 0x3D
	KeyF4         Key = 0x3E
	KeyF5         Key = 0x3F
	KeyF6         Key = 0x40
	KeyF7         Key = 0x41
	KeyF8         Key = 0x42
	KeyF9         Key = 0x43
	KeyF10        Key = 0x44
	KeyF11        Key = 0x57
	KeyF12        Key = 0x58
	KeyRCtrl      Key = 0x9D
	KeyRAlt       Key = 0xB8
	KeyHome       Key = 0xC7
	KeyUp         Key = 0xC8
	KeyPageUp     Key = 0xC9
	KeyLeft       Key = 0xCB
	KeyRight      Key = 0xCD
	KeyEnd        Key = 0xCF
	KeyDown       Key = 0xD0
	KeyPageDown   Key = 0xD1
	KeyInsert     Key = 0xD2
	KeyDelete     Key = 0xD3
)

var keyNames = map[Key]string{
	KeyEscape: "Escape", KeyMinus: "Minus", KeyEquals: "Equals",
	KeyBackspace: "Backspace", KeyTab: "Tab", KeyLBracket: "LBracket",
	KeyRBracket: "RBracket", KeyEnter: "Enter", KeyLCtrl: "LCtrl",
	KeySemicolon: "Semicolon", KeyApostrophe: "Apostrophe", KeyGrave: "Grave",
	KeyLShift: "LShift", KeyBackslash: "Backslash", KeyComma: "Comma",
	KeyPeriod: "Period", KeySlash: "Slash", KeyRShift: "RShift",
	KeyLAlt: "LAlt", KeySpace: "Space", KeyCapsLock: "CapsLock",
	KeyF11: "F11", KeyF12: "F12", KeyRCtrl: "RCtrl", KeyRAlt: "RAlt",
	KeyHome: "Home", KeyUp: "Up", KeyPageUp: "PageUp", KeyLeft: "Left",
	KeyRight: "Right", KeyEnd: "End", KeyDown: "Down", KeyPageDown: "PageDown",
	KeyInsert: "Insert", KeyDelete: "Delete",
}

// String returns the string representation of Key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	switch {
	case k >= Key1 && k <= Key9:
		return string(rune('1' + k - Key1))
	case k == Key0:
		return "0"
	case k >= KeyF1 && k <= KeyF10:
		return fmt.Sprintf("F%d", k-KeyF1+1)
	}
	if l, ok := letterOf(k); ok {
		return string(l)
	}
	return fmt.Sprintf("Key(0x%02X)", uint8(k))
}

// letterRows lists the letter keys in scan code order, one row per run of
// consecutive codes.
var letterRows = []struct {
	first Key
	chars string
}{
	{KeyQ, "QWERTYUIOP"},
	{KeyA, "ASDFGHJKL"},
	{KeyZ, "ZXCVBNM"},
}

func letterOf(k Key) (byte, bool) {
	for _, row := range letterRows {
		if k >= row.first && int(k-row.first) < len(row.chars) {
			return row.chars[k-row.first], true
		}
	}
	return 0, false
}

// MouseButtonCount is the number of tracked mouse buttons.
const MouseButtonCount = 8

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseButton4
	MouseButton5
	MouseButton6
	MouseButton7
	MouseButton8
)

// String returns the string representation of MouseButton.
func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "Left"
	case MouseRight:
		return "Right"
	case MouseMiddle:
		return "Middle"
	default:
		if b < MouseButtonCount {
			return fmt.Sprintf("Button%d", int(b)+1)
		}
		return fmt.Sprintf("MouseButton(%d)", int(b))
	}
}
