//nolint:whitespace // can't make both editor and linter happy
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aarondl/opt/null"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/pkg/model"
)

// EventLog appends timing events. Events are never updated except for
// the sent flag.
type EventLog struct {
	*deps
	log        *log.Logger
	aggregator *OutputAggregator
	recorded   metric.Int64Counter
}

func NewEventLog(aggregator *OutputAggregator, opts ...Option) *EventLog {
	ret := &EventLog{
		deps:       newDeps(opts),
		log:        log.Default().Named("service.event"),
		aggregator: aggregator,
	}
	ret.recorded = ret.counter(ret.log, "stationlog.events.recorded",
		"number of recorded timing events")
	return ret
}

// RecordEvent appends an event. The bib is not checked against the roster,
// events of unknown runners are ignored by the output.
func (l *EventLog) RecordEvent(ctx context.Context, event *model.NewEvent) (
	*model.Event, error,
) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	ctx, span := l.tracer.Start(ctx, "event.record", trace.WithAttributes(
		attribute.Int("bib", event.Bib), attribute.Int("stationId", event.StationID)))
	defer span.End()

	var ret *model.Event
	err := l.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		ret, err = l.repos.Event().Create(ctx, event, l.clock())
		if err != nil {
			return err
		}
		if l.rebuildOnWrite {
			_, err = l.aggregator.rebuild(ctx, event.Bib)
		}
		return err
	})
	if err != nil {
		span.RecordError(err)
		l.log.Error("event not recorded",
			log.Int("bib", event.Bib), log.Int("stationId", event.StationID),
			log.ErrorField(err))
		return nil, err
	}
	l.recorded.Add(ctx, 1, metric.WithAttributes(attribute.Int("station", event.StationID)))
	l.log.Debug("event recorded", log.Int64("id", ret.ID), log.Int("bib", ret.Bib),
		log.Int("stationId", ret.StationID))
	return ret, nil
}

// RecordForSession records at the station of session
func (l *EventLog) RecordForSession(
	ctx context.Context,
	session *model.Session,
	bib int,
	timeIn, timeOut null.Val[time.Time],
	note null.Val[string],
) (*model.Event, error) {
	if session == nil || session.StationID == 0 {
		return nil, fmt.Errorf("%w: no active station", model.ErrConstraintViolation)
	}
	return l.RecordEvent(ctx, &model.NewEvent{
		Bib:       bib,
		StationID: session.StationID,
		TimeIn:    timeIn,
		TimeOut:   timeOut,
		Note:      note,
	})
}

func validateEvent(event *model.NewEvent) error {
	if event == nil {
		return fmt.Errorf("%w: missing event", model.ErrInvalidFormat)
	}
	if event.Bib <= 0 {
		return fmt.Errorf("%w: bib %d", model.ErrInvalidFormat, event.Bib)
	}
	if !model.ValidStationSlot(event.StationID) {
		return fmt.Errorf("%w: station id %d is outside 1..%d",
			model.ErrInvalidFormat, event.StationID, model.MaxStations)
	}
	if event.TimeIn.IsNull() && event.TimeOut.IsNull() {
		return fmt.Errorf("%w: time in or time out required", model.ErrInvalidFormat)
	}
	return nil
}

func (l *EventLog) ListAll(ctx context.Context) ([]*model.Event, error) {
	return l.repos.Event().LoadAll(ctx)
}

// Get returns a single event, ErrNotFound if id is unknown
func (l *EventLog) Get(ctx context.Context, id int64) (*model.Event, error) {
	return l.repos.Event().LoadByID(ctx, id)
}

func (l *EventLog) ListByBib(ctx context.Context, bib int) ([]*model.Event, error) {
	return l.repos.Event().LoadByBib(ctx, bib)
}

func (l *EventLog) ListByStation(ctx context.Context, stationID int) (
	[]*model.Event, error,
) {
	return l.repos.Event().LoadByStation(ctx, stationID)
}

func (l *EventLog) ListUnsent(ctx context.Context) ([]*model.Event, error) {
	return l.repos.Event().LoadUnsent(ctx)
}

// MarkSent flags the events as transmitted. Unknown ids are skipped,
// the number of updated events is returned.
func (l *EventLog) MarkSent(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no event ids", model.ErrInvalidFormat)
	}
	n, err := l.repos.Event().MarkSent(ctx, ids)
	if err != nil {
		return 0, err
	}
	l.log.Debug("events marked sent", log.Int("requested", len(ids)), log.Int("updated", n))
	return n, nil
}

// Clear removes all events and the output derived from them
func (l *EventLog) Clear(ctx context.Context) (int, error) {
	count := 0
	err := l.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if count, err = l.repos.Event().DeleteAll(ctx); err != nil {
			return err
		}
		_, err = l.aggregator.rebuildAll(ctx)
		return err
	})
	if err == nil {
		l.log.Info("events cleared", log.Int("events", count))
	}
	return count, err
}
