package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter installs a global meter provider pushing over OTLP/HTTP and
// returns it so the caller can shut it down.
func InitMeter(ctx context.Context, cfg *Config, res Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	r, err := newResource(ctx, res)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(r),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the service's meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// AuthMetrics counts account and session outcomes. Outcomes are error codes
// ("INVALID_CREDENTIALS") or "ok"; no identifiers are recorded. A nil
// *AuthMetrics records nothing.
type AuthMetrics struct {
	registrations metric.Int64Counter
	logins        metric.Int64Counter
	authFailures  metric.Int64Counter
}

// NewAuthMetrics creates the auth instruments on meter.
func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	registrations, err := meter.Int64Counter("auth.registrations",
		metric.WithDescription("Registration attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.registrations counter: %w", err)
	}

	logins, err := meter.Int64Counter("auth.logins",
		metric.WithDescription("Login attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.logins counter: %w", err)
	}

	authFailures, err := meter.Int64Counter("auth.gate.failures",
		metric.WithDescription("Rejected requests to protected routes by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.gate.failures counter: %w", err)
	}

	return &AuthMetrics{
		registrations: registrations,
		logins:        logins,
		authFailures:  authFailures,
	}, nil
}

func outcome(o string) metric.AddOption {
	return metric.WithAttributes(attribute.String("outcome", o))
}

// RecordRegistration counts one registration attempt.
func (m *AuthMetrics) RecordRegistration(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.registrations.Add(ctx, 1, outcome(result))
}

// RecordLogin counts one login attempt.
func (m *AuthMetrics) RecordLogin(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1, outcome(result))
}

// RecordGateFailure counts one request rejected by the auth gate.
func (m *AuthMetrics) RecordGateFailure(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.authFailures.Add(ctx, 1, outcome(code))
}
