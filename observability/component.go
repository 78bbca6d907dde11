package observability

import (
	"context"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/skillsenselab/ecgflow/component"
)

const telemetryName = "telemetry"

var (
	_ component.Component   = (*Telemetry)(nil)
	_ component.Describable = (*Telemetry)(nil)
)

// Telemetry is the lifecycle component for the OTLP trace and metric
// exporters. Start initializes both providers; Stop flushes and shuts them
// down. Pipeline metrics become available through Metrics after Start.
type Telemetry struct {
	tracerCfg TracerConfig
	meterCfg  MeterConfig

	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	metrics *Metrics
}

// NewTelemetry creates the telemetry component from tracer and meter configs.
func NewTelemetry(tracerCfg TracerConfig, meterCfg MeterConfig) *Telemetry {
	return &Telemetry{tracerCfg: tracerCfg, meterCfg: meterCfg}
}

func (t *Telemetry) Name() string { return telemetryName }

// Start initializes the tracer and meter providers and the pipeline
// instruments.
func (t *Telemetry) Start(ctx context.Context) error {
	tp, err := InitTracer(ctx, t.tracerCfg)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	t.tp = tp

	mp, err := InitMeter(ctx, t.meterCfg)
	if err != nil {
		return fmt.Errorf("init meter: %w", err)
	}
	t.mp = mp

	m, err := NewMetrics(Meter(defaultTracerName))
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}
	t.metrics = m
	return nil
}

// Stop flushes and shuts down both providers.
func (t *Telemetry) Stop(ctx context.Context) error {
	var firstErr error
	if t.mp != nil {
		if err := t.mp.Shutdown(ctx); err != nil {
			firstErr = fmt.Errorf("meter shutdown: %w", err)
		}
		t.mp = nil
	}
	if t.tp != nil {
		if err := t.tp.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("tracer shutdown: %w", err)
		}
		t.tp = nil
	}
	t.metrics = nil
	return firstErr
}

// Health reports whether both providers are initialized.
func (t *Telemetry) Health(ctx context.Context) component.Health {
	if t.tp != nil && t.mp != nil {
		return component.Health{Name: telemetryName, Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    telemetryName,
		Status:  component.StatusUnhealthy,
		Message: "exporters not initialized",
	}
}

// Describe returns summary info for the startup banner.
func (t *Telemetry) Describe() component.Description {
	return component.Description{
		Name:    "OTLP Telemetry",
		Type:    "telemetry",
		Details: t.tracerCfg.Endpoint,
	}
}

// Metrics returns the pipeline instruments, or nil before Start.
func (t *Telemetry) Metrics() *Metrics {
	return t.metrics
}
