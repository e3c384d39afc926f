package service

import (
	"context"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/mpapenbr/stationlog/log"
)

// RebuildScheduler runs a full output rebuild on a cron schedule
type RebuildScheduler struct {
	c          *cron.Cron
	spec       string
	aggregator *OutputAggregator
	log        *log.Logger
}

// NewRebuildScheduler parses spec (standard 5 field format or
// descriptors like "@every 5m")
func NewRebuildScheduler(aggregator *OutputAggregator, spec string) (
	*RebuildScheduler, error,
) {
	s := &RebuildScheduler{
		c:          cron.New(),
		spec:       strings.TrimSpace(spec),
		aggregator: aggregator,
		log:        log.Default().Named("service.scheduler"),
	}
	if _, err := s.c.AddFunc(s.spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RebuildScheduler) run() {
	s.log.Debug("scheduled rebuild started")
	n, err := s.aggregator.RebuildAll(context.Background())
	if err != nil {
		s.log.Error("scheduled rebuild failed", log.ErrorField(err))
		return
	}
	s.log.Debug("scheduled rebuild done", log.Int("rows", n))
}

func (s *RebuildScheduler) Start() {
	s.log.Info("Starting rebuild scheduler", log.String("cron", s.spec))
	s.c.Start()
}

// Stop stops the scheduler and waits for a running rebuild
func (s *RebuildScheduler) Stop() {
	<-s.c.Stop().Done()
}
