//nolint:whitespace // can't make both editor and linter happy
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/pkg/model"
)

// settings key of the persisted session
const sessionKey = "station"

// SessionService tracks which station and operator this instance acts as.
// The session is persisted so it survives a restart.
type SessionService struct {
	*deps
	log   *log.Logger
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionService(opts ...Option) *SessionService {
	return &SessionService{
		deps:  newDeps(opts),
		log:   log.Default().Named("service.session"),
		locks: make(map[string]*sync.Mutex),
	}
}

// stationLock serializes operator changes of one station
func (s *SessionService) stationLock(identifier string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[identifier]
	if !ok {
		l = &sync.Mutex{}
		s.locks[identifier] = l
	}
	return l
}

// ActivateStation makes identifier the current station. The "primary"
// operator (or the first one by key) becomes the only active operator.
func (s *SessionService) ActivateStation(ctx context.Context, identifier string) (
	*model.Session, error,
) {
	ctx, span := s.tracer.Start(ctx, "session.activateStation",
		trace.WithAttributes(attribute.String("identifier", identifier)))
	defer span.End()

	l := s.stationLock(identifier)
	l.Lock()
	defer l.Unlock()

	var ret *model.Session
	err := s.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		station, err := s.repos.Station().LoadByIdentifier(ctx, identifier)
		if err != nil {
			return err
		}
		key, ok := station.Operators.DefaultOperatorKey()
		if !ok {
			return fmt.Errorf("%w: station %s has no operators",
				model.ErrConstraintViolation, identifier)
		}
		ret, err = s.activate(ctx, station, key)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.log.Info("station activated",
		log.String("identifier", identifier), log.Int("stationId", ret.StationID))
	return ret, nil
}

// SetOperatorIdentity activates the station and the operator with the
// given callsign. If no operator matches nothing is changed.
func (s *SessionService) SetOperatorIdentity(
	ctx context.Context,
	identifier, callsign string,
) (*model.Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.setOperatorIdentity",
		trace.WithAttributes(attribute.String("identifier", identifier)))
	defer span.End()

	l := s.stationLock(identifier)
	l.Lock()
	defer l.Unlock()

	var ret *model.Session
	err := s.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		station, err := s.repos.Station().LoadByIdentifier(ctx, identifier)
		if err != nil {
			return err
		}
		key, ok := station.Operators.KeyByCallsign(callsign)
		if !ok {
			return fmt.Errorf("%w: no operator with callsign %q at station %s",
				model.ErrConstraintViolation, callsign, identifier)
		}
		ret, err = s.activate(ctx, station, key)
		return err
	})
	if err != nil {
		span.RecordError(err)
		s.log.Warn("operator change rejected",
			log.String("identifier", identifier), log.ErrorField(err))
		return nil, err
	}
	return ret, nil
}

// activate writes the active flags to the station and the session.
// Must run inside a transaction.
func (s *SessionService) activate(
	ctx context.Context,
	station *model.Station,
	operatorKey string,
) (*model.Session, error) {
	stationID, err := station.StationID()
	if err != nil {
		return nil, err
	}
	ops := station.Operators.WithActive(operatorKey)
	if ops.ActiveCount() != 1 {
		return nil, fmt.Errorf("%w: station %s would have %d active operators",
			model.ErrConstraintViolation, station.Identifier, ops.ActiveCount())
	}
	if _, err := s.repos.Station().UpdateOperators(ctx, station.Identifier, ops); err != nil {
		return nil, err
	}
	session := &model.Session{
		Identifier: station.Identifier,
		StationID:  stationID,
		Name:       station.Name,
		EntryMode:  station.EntryMode,
		ShiftBegin: station.ShiftBegin,
		CutoffTime: station.CutoffTime,
		ShiftEnd:   station.ShiftEnd,
		Operators:  ops,
	}
	if err := s.repos.Settings().Put(ctx, sessionKey, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Current returns the persisted session, ErrNotFound if there is none
func (s *SessionService) Current(ctx context.Context) (*model.Session, error) {
	var session model.Session
	if err := s.repos.Settings().Get(ctx, sessionKey, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionService) Clear(ctx context.Context) error {
	_, err := s.repos.Settings().Delete(ctx, sessionKey)
	return err
}

// restore re-activates the persisted session after the stations were
// replaced. A session pointing to a vanished station is removed.
// Must run inside a transaction.
func (s *SessionService) restore(ctx context.Context) error {
	current, err := s.Current(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if errors.Is(err, model.ErrCorrupt) {
		s.log.Warn("dropping unreadable session", log.ErrorField(err))
		return s.Clear(ctx)
	}
	if err != nil {
		return err
	}
	station, err := s.repos.Station().LoadByIdentifier(ctx, current.Identifier)
	if errors.Is(err, model.ErrNotFound) {
		s.log.Info("dropping session of removed station",
			log.String("identifier", current.Identifier))
		return s.Clear(ctx)
	}
	if err != nil {
		return err
	}
	key, ok := station.Operators.DefaultOperatorKey()
	if activeKey, _, hasActive := current.ActiveOperator(); hasActive {
		if _, exists := station.Operators[activeKey]; exists {
			key, ok = activeKey, true
		}
	}
	if !ok {
		return s.Clear(ctx)
	}
	_, err = s.activate(ctx, station, key)
	return err
}
