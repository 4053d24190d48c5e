// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package logfile

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestHandlerSeverityPrefix(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "Debug     : hello\n"},
		{slog.LevelInfo, "Info      : hello\n"},
		{slog.LevelWarn, "Warning   : hello\n"},
		{slog.LevelError, "Error     : hello\n"},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := slog.New(NewHandler(&buf, &Options{Level: slog.LevelDebug}))
			l.Log(context.Background(), tt.level, "hello")
			if got := buf.String(); got != tt.want {
				t.Errorf("line = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, nil))
	l.Debug("hidden")
	l.Info("shown")
	if got := buf.String(); got != "Info      : shown\n" {
		t.Errorf("output = %q", got)
	}
}

func TestHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, nil)).With("heap", "rtv")
	l.WithGroup("fence").Info("signaled", "value", 3, "label", "frame fence")
	want := `Info      : signaled heap=rtv fence.value=3 fence.label="frame fence"` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestBorderAndWrite(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, nil))
	l.Info("Begin")
	Border(l)
	Write(l, "raw text")
	want := "Info      : Begin\n" + BorderLine + "\nraw text\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestHandlerConcurrent(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, nil))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Info("tick")
			}
		}()
	}
	wg.Wait()
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 400 {
		t.Fatalf("got %d lines, want 400", len(lines))
	}
	for _, line := range lines {
		if line != "Info      : tick" {
			t.Fatalf("interleaved line %q", line)
		}
	}
}
