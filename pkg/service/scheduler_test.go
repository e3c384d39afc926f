package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRebuildScheduler(t *testing.T) {
	s := loaded(t)
	for _, spec := range []string{"@every 1h", "*/5 * * * *", " @hourly "} {
		sched, err := NewRebuildScheduler(s.Output, spec)
		assert.NoError(t, err, spec)
		sched.Start()
		sched.Stop()
	}
	for _, spec := range []string{"", "every minute", "* * *"} {
		_, err := NewRebuildScheduler(s.Output, spec)
		assert.Error(t, err, spec)
	}
}

func TestRebuildScheduler_Run(t *testing.T) {
	s := loaded(t)
	sched, err := NewRebuildScheduler(s.Output, "@every 1h")
	assert.NoError(t, err)
	// the job body is exercised directly, the schedule is not waited for
	sched.run()
	rows, err := s.Output.List(t.Context(), false)
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
}
