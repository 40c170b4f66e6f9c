package logging_test

import (
	"log/slog"
	"testing"

	"github.com/tsawler/pdf2docx/logging"
)

func TestLoggerDefaultsToDiscard(t *testing.T) {
	old := logging.Logger()
	defer logging.SetLogger(old)

	logging.SetLogger(nil)
	if logging.Logger().Handler() != slog.DiscardHandler {
		t.Error("expected discard handler after SetLogger(nil)")
	}
}

func TestBufferedLogHandler(t *testing.T) {
	old := logging.Logger()
	defer logging.SetLogger(old)

	h := logging.NewBufferedLogHandler(&slog.HandlerOptions{Level: slog.LevelInfo})
	logging.SetLogger(slog.New(h))

	log := logging.Logger().With("stage", "interpret").WithGroup("page")
	log.Debug("hidden")
	log.Info("decoded", slog.Int("index", 2))

	if h.Contains("hidden") {
		t.Error("debug record should be filtered")
	}
	if !h.Contains("decoded") || !h.Contains("page.index=2") || !h.Contains("stage=interpret") {
		t.Errorf("unexpected output %q", h.String())
	}

	h.Reset()
	if h.String() != "" {
		t.Error("expected empty buffer after Reset")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := logging.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
