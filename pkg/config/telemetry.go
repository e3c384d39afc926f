package config

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/version"
)

// Telemetry holds the providers registered by SetupTelemetry
type Telemetry struct {
	tp     *sdktrace.TracerProvider
	mp     *sdkmetric.MeterProvider
	closer io.Closer
}

// SetupTelemetry registers global trace and metric providers which write
// to TelemetryOutput (stderr if empty).
func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	var w io.Writer = os.Stderr
	ret := &Telemetry{}
	if TelemetryOutput != "" {
		f, err := os.OpenFile(TelemetryOutput, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		w = f
		ret.closer = f
	}
	interval, err := time.ParseDuration(TelemetryInterval)
	if err != nil {
		log.Warn("Invalid telemetry interval. Using 1m", log.ErrorField(err))
		interval = time.Minute
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", "stationlog"),
		attribute.String("service.version", version.Version),
	)

	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	ret.tp = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, errors.Join(err, ret.tp.Shutdown(ctx))
	}
	ret.mp = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(ret.tp)
	otel.SetMeterProvider(ret.mp)
	return ret, nil
}

// Shutdown flushes pending data
func (t *Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.tp.Shutdown(ctx); err != nil {
		log.Warn("Could not shutdown trace provider", log.ErrorField(err))
	}
	if err := t.mp.Shutdown(ctx); err != nil {
		log.Warn("Could not shutdown meter provider", log.ErrorField(err))
	}
	if t.closer != nil {
		t.closer.Close()
	}
}
