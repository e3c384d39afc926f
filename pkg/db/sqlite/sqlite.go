package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/stephenafamo/bob"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/mpapenbr/stationlog/log"
)

const driverName = "sqlite"

type (
	options struct {
		busyTimeout  time.Duration
		maxOpenConns int
		logger       *log.Logger
	}
	Option func(*options)
)

func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		o.busyTimeout = d
	}
}

// WithMaxOpenConns limits the pool. 1 serializes all access which is what
// a single station instance needs.
func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		o.maxOpenConns = n
	}
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// DSN builds the connection string. WAL journaling with synchronous=FULL
// keeps every committed statement on disk, write transactions take the
// lock immediately.
func DSN(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(FULL)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_txlock", "immediate")
	return fmt.Sprintf("file:%s?%s", path, q.Encode())
}

// Open opens (and creates if missing) the database file at path
func Open(path string, opts ...Option) (*sql.DB, error) {
	o := &options{
		busyTimeout:  5 * time.Second,
		maxOpenConns: 1,
		logger:       log.Default().Named("db"),
	}
	for _, opt := range opts {
		opt(o)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open(driverName, DSN(path, o.busyTimeout))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(o.maxOpenConns)
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	o.logger.Info("Connected to SQLite database", log.String("path", path))
	return db, nil
}

// InitWithPath opens the database and wraps it for bob
func InitWithPath(path string, opts ...Option) (*sql.DB, bob.DB, error) {
	db, err := Open(path, opts...)
	if err != nil {
		var zero bob.DB
		return nil, zero, err
	}
	return db, bob.NewDB(db), nil
}
