package service

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/pkg/repository/api"
)

const instrumentationName = "stationlog"

// deps are shared by all services
type deps struct {
	repos          api.Repositories
	txMgr          api.TransactionManager
	tracer         trace.Tracer
	meter          metric.Meter
	clock          func() time.Time
	rebuildOnWrite bool
}

type Option func(*deps)

func WithRepositories(repos api.Repositories) Option {
	return func(d *deps) {
		d.repos = repos
	}
}

func WithTxManager(txMgr api.TransactionManager) Option {
	return func(d *deps) {
		d.txMgr = txMgr
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(d *deps) {
		d.tracer = tracer
	}
}

func WithMeter(meter metric.Meter) Option {
	return func(d *deps) {
		d.meter = meter
	}
}

// WithClock replaces the source of lastChanged timestamps
func WithClock(clock func() time.Time) Option {
	return func(d *deps) {
		d.clock = clock
	}
}

// WithRebuildOnWrite controls whether writes rebuild the affected
// output row in the same transaction (default true)
func WithRebuildOnWrite(enabled bool) Option {
	return func(d *deps) {
		d.rebuildOnWrite = enabled
	}
}

func newDeps(opts []Option) *deps {
	d := &deps{
		clock:          time.Now,
		rebuildOnWrite: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.tracer == nil {
		d.tracer = otel.Tracer(instrumentationName)
	}
	if d.meter == nil {
		d.meter = otel.Meter(instrumentationName)
	}
	return d
}

func (d *deps) counter(l *log.Logger, name, desc string) metric.Int64Counter {
	c, err := d.meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		l.Warn("could not create counter", log.String("name", name), log.ErrorField(err))
		return noop.Int64Counter{}
	}
	return c
}
