package rasterpaint

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestLoggerDefaultsSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger returned nil")
	}
	if l.Enabled(nil, slog.LevelError) { //nolint:staticcheck // nil ctx is fine for slog
		t.Error("default logger should be disabled at every level")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	Logger().Info("hello", "k", "v")
	if buf.Len() == 0 {
		t.Error("configured logger produced no output")
	}
}

func TestSetLoggerNilRestoresSilence(t *testing.T) {
	SetLogger(slog.Default())
	SetLogger(nil)
	if Logger().Enabled(nil, slog.LevelError) { //nolint:staticcheck // nil ctx is fine for slog
		t.Error("nil did not restore the silent logger")
	}
}
