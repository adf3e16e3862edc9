package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf}).
		With(String("observer", "gs1"))

	log.Info(context.Background(), "pass rise", Float("el_deg", 10.5), Int("samples", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "pass rise" || rec["observer"] != "gs1" || rec["el_deg"] != 10.5 {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("level filter not applied: %q", out)
	}
}

func TestFromContext(t *testing.T) {
	if _, ok := FromContext(context.Background(), nil).(noopLogger); !ok {
		t.Fatalf("FromContext without logger or fallback should be Noop")
	}

	var buf bytes.Buffer
	base := New(Config{Output: &buf})
	ctx := ContextWithLogger(context.Background(), base)
	if got := FromContext(ctx, Noop()); got != base {
		t.Fatalf("FromContext = %v, want stored logger", got)
	}
}
