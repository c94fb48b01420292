package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := &Config{Level: level, Format: "json"}
	return NewWithWriter(cfg, "catalog", &buf), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestJSONOutput(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.Info("account registered", Fields("account_id", 7))

	entry := decodeLine(t, buf)
	if entry["message"] != "account registered" {
		t.Errorf("unexpected message: %v", entry["message"])
	}
	if entry["service"] != "catalog" {
		t.Errorf("expected service=catalog, got %v", entry["service"])
	}
	if entry["account_id"] != float64(7) {
		t.Errorf("expected account_id=7, got %v", entry["account_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("warn should be written, got %q", buf.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := newJSONLogger(t, "loud")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected info level fallback, got %q", buf.String())
	}
}

func TestWithComponentAndError(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithComponent("account").WithError(errors.New("boom")).Error("failed")

	entry := decodeLine(t, buf)
	if entry[FieldComponent] != "account" {
		t.Errorf("expected component=account, got %v", entry[FieldComponent])
	}
	if entry["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", entry["error"])
	}
}

func TestWithContext(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = ContextWithRequestID(ctx, "req-1")

	l.WithContext(ctx).Info("handled")

	entry := decodeLine(t, buf)
	if entry[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id=req-1, got %v", entry[FieldRequestID])
	}
	if entry[FieldTraceID] != traceID.String() {
		t.Errorf("expected trace_id=%s, got %v", traceID, entry[FieldTraceID])
	}
}

func TestWithContextEmpty(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithContext(context.Background()).Info("plain")

	entry := decodeLine(t, buf)
	if _, ok := entry[FieldRequestID]; ok {
		t.Error("request_id should be absent without a request ID in context")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "catalog", &buf)
	l.Info("listening", Fields("port", 8000))

	out := buf.String()
	if !strings.Contains(out, "[CAT][INF]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
	if !strings.Contains(out, "port:") {
		t.Errorf("expected field name, got %q", out)
	}
}

func TestInitSetsGlobal(t *testing.T) {
	cfg := Config{ServiceName: "catalog"}
	Init(&cfg)
	if GetGlobalLogger().service != "catalog" {
		t.Errorf("expected global logger for catalog, got %q", GetGlobalLogger().service)
	}
	if cfg.Level != "info" {
		t.Errorf("Init should apply defaults, got level %q", cfg.Level)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{Level: "info", Format: "console"}, false},
		{"json", Config{Level: "debug", Format: "json"}, false},
		{"bad level", Config{Level: "verbose", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(f) != 2 {
		t.Errorf("expected 2 fields, got %d: %v", len(f), f)
	}
	if f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields: %v", f)
	}
}
