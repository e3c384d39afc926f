//nolint:whitespace // can't make both editor and linter happy
package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/processing/output"
)

// OutputAggregator owns the output table. Rows are derived from
// runners, stations and events only, never from previous output.
type OutputAggregator struct {
	*deps
	log     *log.Logger
	rebuilt metric.Int64Counter
}

func NewOutputAggregator(opts ...Option) *OutputAggregator {
	ret := &OutputAggregator{
		deps: newDeps(opts),
		log:  log.Default().Named("service.output"),
	}
	ret.rebuilt = ret.counter(ret.log, "stationlog.output.rebuilt",
		"number of output rows rebuilt")
	return ret
}

// RebuildOutputFor rebuilds the row of bib. If bib has no roster entry
// a stale row is removed and ErrNotFound is returned.
func (a *OutputAggregator) RebuildOutputFor(ctx context.Context, bib int) (
	*model.OutputRow, error,
) {
	ctx, span := a.tracer.Start(ctx, "output.rebuildFor",
		trace.WithAttributes(attribute.Int("bib", bib)))
	defer span.End()

	var row *model.OutputRow
	err := a.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		row, err = a.rebuild(ctx, bib)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: runner %d", model.ErrNotFound, bib)
	}
	return row, nil
}

// rebuild must run inside a transaction. A nil row means the runner
// is unknown and any stale row was deleted.
func (a *OutputAggregator) rebuild(ctx context.Context, bib int) (*model.OutputRow, error) {
	runner, err := a.repos.Runner().LoadByBib(ctx, bib)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			if _, err := a.repos.Output().DeleteByBib(ctx, bib); err != nil {
				return nil, err
			}
			a.log.Debug("skipping output for unknown runner", log.Int("bib", bib))
			return nil, nil
		}
		return nil, err
	}
	stationIDs, err := a.repos.Station().LoadStationIDs(ctx)
	if err != nil {
		return nil, err
	}
	events, err := a.repos.Event().LoadByBib(ctx, bib)
	if err != nil {
		return nil, err
	}
	row := output.Fold(runner, stationIDs, events)
	if err := a.repos.Output().Upsert(ctx, row); err != nil {
		return nil, err
	}
	a.rebuilt.Add(ctx, 1)
	return row, nil
}

// RebuildAll regenerates the whole output table in one transaction
func (a *OutputAggregator) RebuildAll(ctx context.Context) (int, error) {
	ctx, span := a.tracer.Start(ctx, "output.rebuildAll")
	defer span.End()

	count := 0
	err := a.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		count, err = a.rebuildAll(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	a.log.Info("output rebuilt", log.Int("rows", count))
	return count, nil
}

func (a *OutputAggregator) rebuildAll(ctx context.Context) (int, error) {
	if _, err := a.repos.Output().DeleteAll(ctx); err != nil {
		return 0, err
	}
	runners, err := a.repos.Runner().LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	stationIDs, err := a.repos.Station().LoadStationIDs(ctx)
	if err != nil {
		return 0, err
	}
	events, err := a.repos.Event().LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	byBib := make(map[int][]*model.Event)
	for _, e := range events {
		byBib[e.Bib] = append(byBib[e.Bib], e)
	}
	for _, runner := range runners {
		row := output.Fold(runner, stationIDs, byBib[runner.Bib])
		if err := a.repos.Output().Upsert(ctx, row); err != nil {
			return 0, err
		}
	}
	a.rebuilt.Add(ctx, int64(len(runners)))
	return len(runners), nil
}

func (a *OutputAggregator) Get(ctx context.Context, bib int) (*model.OutputRow, error) {
	return a.repos.Output().LoadByBib(ctx, bib)
}

// List returns all rows ordered by bib, or by the dnf policy if dnfSort is set
func (a *OutputAggregator) List(ctx context.Context, dnfSort bool) (
	[]*model.OutputRow, error,
) {
	rows, err := a.repos.Output().LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if dnfSort {
		output.SortByDNF(rows)
	}
	return rows, nil
}
