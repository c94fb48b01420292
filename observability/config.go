package observability

import (
	"fmt"
	"time"
)

// Config configures OTLP/HTTP export of traces and metrics. Export is off by
// default; spans are still created against the no-op global provider.
type Config struct {
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the collector host:port (default: localhost:4318).
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
	// SampleRate is the fraction of traces kept, 0.0 to 1.0 (default: 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
	// MetricInterval is how often metrics are pushed (default: 15s).
	MetricInterval time.Duration `mapstructure:"metric_interval"`
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the configuration when export is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be between 0 and 1 (got: %v)", c.SampleRate)
	}
	if c.MetricInterval < time.Second {
		return fmt.Errorf("observability.metric_interval must be at least 1s (got: %s)", c.MetricInterval)
	}
	return nil
}

// Resource identifies the service in exported telemetry.
type Resource struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}
