package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/catalog/component"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.MetricInterval != 15*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled config should validate: %v", err)
	}

	cfg.Enabled = true
	cfg.SampleRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
}

func TestStartSpanAttributesAndError(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "auth.authenticate")
	SetSpanAttribute(ctx, AttrSubject, "42")
	SetSpanAttribute(ctx, "attempt", 2)
	SetSpanError(ctx, errors.New("denied"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "auth.authenticate" {
		t.Errorf("unexpected span name %q", s.Name())
	}
	if s.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", s.Status())
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrSubject].AsString() != "42" {
		t.Errorf("expected subject attribute, got %v", attrs)
	}
	if attrs["attempt"].AsInt64() != 2 {
		t.Errorf("expected attempt=2, got %v", attrs["attempt"])
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	// Must not panic on a context with no span.
	SetSpanAttribute(context.Background(), "k", "v")
	SetSpanError(context.Background(), errors.New("x"))
}

func TestAuthMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewAuthMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewAuthMetrics: %v", err)
	}
	ctx := context.Background()
	m.RecordLogin(ctx, "ok")
	m.RecordLogin(ctx, "INVALID_CREDENTIALS")
	m.RecordLogin(ctx, "ok")
	m.RecordRegistration(ctx, "ok")
	m.RecordGateFailure(ctx, "TOKEN_EXPIRED")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[md.Name] += dp.Value
			}
		}
	}
	if totals["auth.logins"] != 3 || totals["auth.registrations"] != 1 || totals["auth.gate.failures"] != 1 {
		t.Errorf("unexpected totals: %v", totals)
	}
}

func TestNewAuthMetricsNoop(t *testing.T) {
	m, err := NewAuthMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewAuthMetrics: %v", err)
	}
	m.RecordLogin(context.Background(), "ok")
}

func TestDisabledComponent(t *testing.T) {
	c := NewComponent(Config{}, Resource{ServiceName: "catalog"})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.tp != nil || c.mp != nil {
		t.Error("disabled component must not install providers")
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}
	if d := c.Describe(); d.Details != "disabled" {
		t.Errorf("unexpected description %q", d.Details)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestEnabledComponentLifecycle(t *testing.T) {
	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	// Exporters connect lazily, so start succeeds without a collector.
	c := NewComponent(Config{Enabled: true, Endpoint: "127.0.0.1:4318", Insecure: true}, Resource{ServiceName: "catalog"})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.tp == nil || c.mp == nil {
		t.Fatal("expected providers to be installed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// The flush on shutdown has nowhere to go; only a panic would be a failure here.
	_ = c.Stop(ctx)
}
