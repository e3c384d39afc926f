package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mpapenbr/stationlog/testsupport/basedata"
	"github.com/mpapenbr/stationlog/testsupport/testdb"
)

// testClock returns TestTime and advances one second per call
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: basedata.TestTime()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestServices(t *testing.T, opts ...Option) *Services {
	t.Helper()
	db, path := testdb.InitTestDBWithPath(t)
	clock := newTestClock()
	return New(db, path, append([]Option{WithClock(clock.Now)}, opts...)...)
}

// loaded imports the sample roster and stations
func loaded(t *testing.T, opts ...Option) *Services {
	t.Helper()
	s := newTestServices(t, opts...)
	ctx := context.Background()
	if _, err := s.Runners.ImportRoster(ctx, []byte(basedata.RosterJSON)); err != nil {
		t.Fatalf("import roster: %v", err)
	}
	if _, err := s.Stations.ImportStations(ctx, []byte(basedata.StationsJSON),
		ImportReplace); err != nil {
		t.Fatalf("import stations: %v", err)
	}
	return s
}
