//nolint:whitespace // can't make both editor and linter happy
package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/pkg/importer"
	"github.com/mpapenbr/stationlog/pkg/model"
)

// settings key of the event metadata
const eventKey = "event"

// ImportPolicy decides what happens when stations are already loaded
type ImportPolicy int

const (
	// ImportReplace clears the loaded stations and imports the new set
	ImportReplace ImportPolicy = iota
	// ImportReject fails with ErrAlreadyLoaded
	ImportReject
)

func (p ImportPolicy) String() string {
	if p == ImportReject {
		return "reject"
	}
	return "replace"
}

func ParseImportPolicy(s string) (ImportPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return ImportReplace, nil
	case "reject":
		return ImportReject, nil
	default:
		return ImportReplace, fmt.Errorf("%w: unknown import policy %q",
			model.ErrInvalidFormat, s)
	}
}

// StationRegistry owns the station configuration
type StationRegistry struct {
	*deps
	log        *log.Logger
	session    *SessionService
	aggregator *OutputAggregator
}

func NewStationRegistry(
	session *SessionService,
	aggregator *OutputAggregator,
	opts ...Option,
) *StationRegistry {
	return &StationRegistry{
		deps:       newDeps(opts),
		log:        log.Default().Named("service.station"),
		session:    session,
		aggregator: aggregator,
	}
}

// ImportStations loads a station file. All writes happen in one transaction.
func (r *StationRegistry) ImportStations(
	ctx context.Context,
	data []byte,
	policy ImportPolicy,
) (int, error) {
	ctx, span := r.tracer.Start(ctx, "station.importStations",
		trace.WithAttributes(attribute.String("policy", policy.String())))
	defer span.End()

	doc, err := importer.ParseStations(data)
	if err != nil {
		r.log.Warn("station file rejected", log.ErrorField(err))
		return 0, err
	}
	err = r.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := r.repos.Station().Count(ctx)
		if err != nil {
			return err
		}
		if existing > 0 {
			if policy == ImportReject {
				return fmt.Errorf("%w: %d stations", model.ErrAlreadyLoaded, existing)
			}
			if _, err := r.repos.Station().DeleteAll(ctx); err != nil {
				return err
			}
		}
		for i, station := range doc.Stations {
			if err := r.repos.Station().Create(ctx, i, station); err != nil {
				return err
			}
		}
		if err := r.repos.Settings().Put(ctx, eventKey, doc.Event); err != nil {
			return err
		}
		if err := r.session.restore(ctx); err != nil {
			return err
		}
		// the set of stations decides which events count
		_, err = r.aggregator.rebuildAll(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	r.log.Info("stations imported",
		log.Int("stations", len(doc.Stations)),
		log.String("startline", doc.Event.StartLine),
		log.String("finishline", doc.Event.FinishLine))
	return len(doc.Stations), nil
}

// GetAll returns the stations in file order
func (r *StationRegistry) GetAll(ctx context.Context) ([]*model.Station, error) {
	return r.repos.Station().LoadAll(ctx)
}

func (r *StationRegistry) GetByIdentifier(ctx context.Context, identifier string) (
	*model.Station, error,
) {
	return r.repos.Station().LoadByIdentifier(ctx, identifier)
}

// GetByStationID returns the station with the numeric station id
func (r *StationRegistry) GetByStationID(ctx context.Context, stationID int) (
	*model.Station, error,
) {
	if !model.ValidStationSlot(stationID) {
		return nil, fmt.Errorf("%w: station id %d is outside 1..%d",
			model.ErrInvalidFormat, stationID, model.MaxStations)
	}
	return r.repos.Station().LoadByStationID(ctx, stationID)
}

// GetEventInfo returns the event metadata of the last station import
func (r *StationRegistry) GetEventInfo(ctx context.Context) (*model.EventInfo, error) {
	var info model.EventInfo
	if err := r.repos.Settings().Get(ctx, eventKey, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Clear removes all stations, the event metadata and the session
func (r *StationRegistry) Clear(ctx context.Context) (int, error) {
	count := 0
	err := r.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if count, err = r.repos.Station().DeleteAll(ctx); err != nil {
			return err
		}
		if _, err = r.repos.Settings().Delete(ctx, eventKey); err != nil {
			return err
		}
		if err = r.session.Clear(ctx); err != nil {
			return err
		}
		_, err = r.aggregator.rebuildAll(ctx)
		return err
	})
	return count, err
}
