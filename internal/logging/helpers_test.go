package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestHelpersNilLoggerIsNoop(t *testing.T) {
	Info(nil, "msg")
	Warn(nil, "msg")
	Error(nil, "msg", errors.New("boom"))
}

func TestErrorAppendsErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Error(logger, "load failed", errors.New("boom"), FieldDataset, "games_details")

	out := buf.String()
	if !strings.Contains(out, "error=boom") || !strings.Contains(out, "dataset=games_details") {
		t.Fatalf("expected error and dataset fields, got %q", out)
	}
}
