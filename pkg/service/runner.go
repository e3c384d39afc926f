//nolint:whitespace // can't make both editor and linter happy
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aarondl/opt/null"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/pkg/importer"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/processing/output"
)

// RunnerRegistry owns the start list
type RunnerRegistry struct {
	*deps
	log        *log.Logger
	aggregator *OutputAggregator
}

func NewRunnerRegistry(aggregator *OutputAggregator, opts ...Option) *RunnerRegistry {
	return &RunnerRegistry{
		deps:       newDeps(opts),
		log:        log.Default().Named("service.runner"),
		aggregator: aggregator,
	}
}

// ImportRoster replaces the start list with the runners of data.
// The document is validated completely before the store is touched.
func (r *RunnerRegistry) ImportRoster(ctx context.Context, data []byte) (int, error) {
	ctx, span := r.tracer.Start(ctx, "runner.importRoster")
	defer span.End()

	runners, err := importer.ParseRoster(data)
	if err != nil {
		r.log.Warn("roster rejected", log.ErrorField(err))
		return 0, err
	}
	count := 0
	err = r.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := r.repos.Runner().DeleteAll(ctx); err != nil {
			return err
		}
		n, err := r.repos.Runner().CreateBulk(ctx, runners)
		if err != nil {
			return err
		}
		count = n
		// rows of runners no longer on the roster must not survive
		_, err = r.aggregator.rebuildAll(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	r.log.Info("roster imported", log.Int("runners", count))
	return count, nil
}

func (r *RunnerRegistry) LookupByBib(ctx context.Context, bib int) (*model.Runner, error) {
	if bib <= 0 {
		return nil, fmt.Errorf("%w: bib %d", model.ErrNotFound, bib)
	}
	return r.repos.Runner().LoadByBib(ctx, bib)
}

// List returns the runners ordered by bib
func (r *RunnerRegistry) List(ctx context.Context) ([]*model.Runner, error) {
	return r.repos.Runner().LoadAll(ctx)
}

// ListSorted returns the runners ordered by the dnf policy
func (r *RunnerRegistry) ListSorted(ctx context.Context) ([]*model.Runner, error) {
	runners, err := r.repos.Runner().LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	output.SortRunnersByDNF(runners)
	return runners, nil
}

// Clear removes all runners and the output derived from them
func (r *RunnerRegistry) Clear(ctx context.Context) (int, error) {
	count := 0
	err := r.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if count, err = r.repos.Runner().DeleteAll(ctx); err != nil {
			return err
		}
		_, err = r.repos.Output().DeleteAll(ctx)
		return err
	})
	return count, err
}

// SetDNF changes the dnf state of a runner. Leaving a terminal state
// requires change.Override.
func (r *RunnerRegistry) SetDNF(ctx context.Context, bib int, change model.DNFChange) (
	*model.Runner, error,
) {
	ctx, span := r.tracer.Start(ctx, "runner.setDNF", trace.WithAttributes(
		attribute.Int("bib", bib), attribute.String("dnfType", string(change.Type))))
	defer span.End()

	next, err := model.ParseDNFType(string(change.Type))
	if err != nil {
		return nil, err
	}
	if change.StationID != 0 && !model.ValidStationSlot(change.StationID) {
		return nil, fmt.Errorf("%w: station id %d", model.ErrInvalidFormat, change.StationID)
	}
	if change.At.IsZero() {
		change.At = r.clock()
	}
	var ret *model.Runner
	err = r.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		runner, err := r.repos.Runner().LoadByBib(ctx, bib)
		if err != nil {
			return err
		}
		if err := runner.DNFType.CheckTransition(next, change.Override); err != nil {
			return err
		}
		if runner.DNFType.IsTerminal() && runner.DNFType != next {
			r.log.Warn("dnf override",
				log.Int("bib", bib),
				log.String("from", string(runner.DNFType)),
				log.String("to", string(next)))
		}
		applyDNF(runner, next, change)
		if err := r.update(ctx, runner); err != nil {
			return err
		}
		ret = runner
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return ret, nil
}

func applyDNF(runner *model.Runner, next model.DNFType, change model.DNFChange) {
	runner.DNFType = next
	if !next.IsTerminal() {
		runner.DNF = false
		runner.DNFStation = 0
		runner.DNFTimestamp = null.Val[time.Time]{}
		return
	}
	runner.DNF = true
	if change.StationID != 0 {
		runner.DNFStation = change.StationID
	}
	if !change.At.IsZero() {
		runner.DNFTimestamp = null.From(change.At)
	}
}

func (r *RunnerRegistry) SetDNS(ctx context.Context, bib int, dns bool) (*model.Runner, error) {
	ctx, span := r.tracer.Start(ctx, "runner.setDNS", trace.WithAttributes(
		attribute.Int("bib", bib), attribute.Bool("dns", dns)))
	defer span.End()

	var ret *model.Runner
	err := r.txMgr.RunInTx(ctx, func(ctx context.Context) error {
		runner, err := r.repos.Runner().LoadByBib(ctx, bib)
		if err != nil {
			return err
		}
		runner.DNS = dns
		if err := r.update(ctx, runner); err != nil {
			return err
		}
		ret = runner
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return ret, nil
}

func (r *RunnerRegistry) update(ctx context.Context, runner *model.Runner) error {
	n, err := r.repos.Runner().UpdateStatus(ctx, runner)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: runner %d", model.ErrNotFound, runner.Bib)
	}
	if r.rebuildOnWrite {
		_, err = r.aggregator.rebuild(ctx, runner.Bib)
	}
	return err
}
