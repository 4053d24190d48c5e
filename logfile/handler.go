// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package logfile writes log records in the plain Log.txt layout used by the
// framework: one line per record, a fixed-width severity prefix, and
// optional divider lines between sections.
//
//	Info      : swap chain created buffers=2
//	Warning   : UAV barrier on resource not in UnorderedAccess
//	-------------------------------------------------
//
// Handler implements slog.Handler, so it plugs into dxframe.SetLogger.
package logfile

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// BorderLine is the section divider written by Border.
const BorderLine = "-------------------------------------------------"

// rawKey marks a record whose message is written verbatim.
const rawKey = "logfile.raw"

// Options configures a Handler.
type Options struct {
	// Level is the minimum level written. Defaults to slog.LevelInfo.
	Level slog.Leveler
}

// Handler renders slog records as severity-prefixed lines.
// It is safe for concurrent use.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  string
	prefix string
}

// NewHandler returns a Handler writing to w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	h := &Handler{mu: &sync.Mutex{}, w: w, level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// Enabled reports whether records at level are written.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes one line for r.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	raw := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == rawKey {
			raw = true
			return false
		}
		return true
	})

	if raw {
		b.WriteString(r.Message)
	} else {
		b.WriteString(severity(r.Level))
		b.WriteString(r.Message)
		b.WriteString(h.attrs)
		r.Attrs(func(a slog.Attr) bool {
			appendAttr(&b, h.prefix, a)
			return true
		})
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a Handler that appends attrs to every line.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&b, h.prefix, a)
	}
	h2 := *h
	h2.attrs = b.String()
	return &h2
}

// WithGroup returns a Handler that qualifies later attribute keys.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

// severity returns the fixed-width prefix for level.
func severity(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "Error     : "
	case level >= slog.LevelWarn:
		return "Warning   : "
	case level >= slog.LevelInfo:
		return "Info      : "
	default:
		return "Debug     : "
	}
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) || a.Key == rawKey {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, p, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	s := a.Value.String()
	if strings.ContainsAny(s, " \t\"=") {
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(s, `"`, `\"`))
		b.WriteByte('"')
		return
	}
	b.WriteString(s)
}

// Border writes a divider line through l.
func Border(l *slog.Logger) {
	Write(l, BorderLine)
}

// Write writes line verbatim when l uses a Handler. Other handlers receive
// it as an Info record.
func Write(l *slog.Logger, line string) {
	l.LogAttrs(context.Background(), slog.LevelInfo, line, slog.Bool(rawKey, true))
}
