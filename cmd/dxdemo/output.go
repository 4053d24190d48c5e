// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/term"
)

func writeBMP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// statusLine rewrites a single progress line when stdout is a terminal and
// stays silent otherwise.
type statusLine struct {
	w     io.Writer
	tty   bool
	width int
	last  time.Duration
}

func newStatusLine(f *os.File) *statusLine {
	s := &statusLine{w: f, tty: term.IsTerminal(int(f.Fd()))}
	if s.tty {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			s.width = w
		}
	}
	return s
}

// Update redraws the line at most four times a second.
func (s *statusLine) Update(frames int, elapsed time.Duration, paused bool) {
	if !s.tty || elapsed-s.last < 250*time.Millisecond {
		return
	}
	s.last = elapsed
	fps := float64(frames) / elapsed.Seconds()
	line := fmt.Sprintf("frame %d  %.1f fps", frames, fps)
	if paused {
		line += "  [paused]"
	}
	fmt.Fprint(s.w, "\r"+s.fit(line))
}

func (s *statusLine) fit(line string) string {
	if s.width <= 1 {
		return line
	}
	if len(line) >= s.width {
		return line[:s.width-1]
	}
	return line + strings.Repeat(" ", s.width-1-len(line))
}

// Done ends the status line.
func (s *statusLine) Done() {
	if s.tty {
		fmt.Fprintln(s.w)
	}
}
