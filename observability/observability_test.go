package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestFields(t *testing.T) {
	if f := String("page", "1"); f.Key() != "page" || f.Value() != "1" {
		t.Errorf("String field: %v=%v", f.Key(), f.Value())
	}
	if f := Int("count", 3); f.Value() != 3 {
		t.Errorf("Int field: %v", f.Value())
	}
	if f := Float64("y", 12.5); f.Value() != 12.5 {
		t.Errorf("Float64 field: %v", f.Value())
	}
	err := errors.New("boom")
	if f := Error("err", err); f.Value() != err {
		t.Errorf("Error field: %v", f.Value())
	}
}

func TestNopLogger(t *testing.T) {
	var log Logger = NopLogger{}
	log.Debug("ignored")
	log.Info("ignored")
	log = log.With(String("k", "v"))
	log.Warn("still ignored")
	log.Error("still ignored")
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	log := SlogLogger{L: slog.New(slog.NewTextHandler(&buf, nil))}
	log.With(String("doc", "Q-1")).Warn("skipping logo", Int("bytes", 12))
	out := buf.String()
	for _, want := range []string{"skipping logo", "doc=Q-1", "bytes=12"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}
