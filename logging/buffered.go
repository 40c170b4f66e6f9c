package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// BufferedLogHandler captures records in memory as JSON lines. Tests
// install it to assert on what a conversion logged:
//
//	h := logging.NewBufferedLogHandler(nil)
//	logging.SetLogger(slog.New(h))
//	...
//	if !h.Contains("image decode failed") { ... }
type BufferedLogHandler struct {
	level  slog.Leveler
	mu     *sync.Mutex
	buf    *bytes.Buffer
	attrs  []slog.Attr
	groups []string
}

// NewBufferedLogHandler creates a handler. nil opts captures every level.
func NewBufferedLogHandler(opts *slog.HandlerOptions) *BufferedLogHandler {
	h := &BufferedLogHandler{mu: &sync.Mutex{}, buf: &bytes.Buffer{}}
	if opts != nil {
		h.level = opts.Level
	}
	return h
}

type record struct {
	Level   string   `json:"level"`
	Message string   `json:"message"`
	Attrs   []string `json:"attrs,omitempty"`
}

// Enabled implements slog.Handler
func (h *BufferedLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.level == nil || level >= h.level.Level()
}

// Handle implements slog.Handler
func (h *BufferedLogHandler) Handle(_ context.Context, r slog.Record) error {
	rec := record{Level: r.Level.String(), Message: r.Message}
	for _, a := range h.attrs {
		rec.Attrs = append(rec.Attrs, h.qualify(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs = append(rec.Attrs, h.qualify(a))
		return true
	})

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf.Write(data)
	h.buf.WriteByte('\n')
	return nil
}

func (h *BufferedLogHandler) qualify(a slog.Attr) string {
	if len(h.groups) == 0 {
		return a.String()
	}
	return strings.Join(h.groups, ".") + "." + a.String()
}

// WithAttrs implements slog.Handler
func (h *BufferedLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler
func (h *BufferedLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// String returns everything captured so far
func (h *BufferedLogHandler) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buf.String()
}

// Contains reports whether the captured output contains s
func (h *BufferedLogHandler) Contains(s string) bool {
	return strings.Contains(h.String(), s)
}

// Reset clears the captured output
func (h *BufferedLogHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf.Reset()
}
