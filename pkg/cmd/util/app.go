package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/pkg/config"
	"github.com/mpapenbr/stationlog/pkg/db/sqlite"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/service"
)

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger installs the default logger from the log flags
func SetupLogger() error {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	if config.LogConfig != "" {
		rules := config.LogConfig
		// the flag holds either the rules or a file containing them
		if data, err := os.ReadFile(config.LogConfig); err == nil {
			rules = string(data)
		}
		var err error
		if logger, err = logger.WithFilter(strings.TrimSpace(rules)); err != nil {
			return fmt.Errorf("log config %s: %w", config.LogConfig, err)
		}
	}
	log.ResetDefault(logger)
	return nil
}

// App bundles the services of an opened database
type App struct {
	Services *service.Services
	Facade   *service.Facade
	close    func()
}

// OpenApp opens the database at config.DB and creates missing tables
func OpenApp(ctx context.Context) (*App, error) {
	if err := SetupLogger(); err != nil {
		return nil, err
	}
	var telemetry *config.Telemetry
	if config.EnableTelemetry {
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
	}
	sqlDB, db, err := sqlite.InitWithPath(config.DB)
	if err != nil {
		return nil, err
	}
	s := service.New(db, config.DB, service.WithRebuildOnWrite(config.RebuildOnWrite))
	if _, err := s.Schema.EnsureSchema(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &App{
		Services: s,
		Facade:   service.NewFacade(s),
		close: func() {
			if telemetry != nil {
				telemetry.Shutdown()
			}
			sqlDB.Close()
			//nolint:errcheck // nothing to do on failure
			log.Sync()
		},
	}, nil
}

func (a *App) Close() {
	a.close()
}

// Print writes res as indented JSON to w. Failed responses are returned
// as error so the command exits non-zero.
func Print[T any](w io.Writer, res model.Response[T]) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if res.Status == model.StatusNotFound || res.Status == model.StatusError {
		return fmt.Errorf("%s: %s", res.Status, res.Message)
	}
	return nil
}

// Run opens the app, calls fn and prints its response
func Run[T any](
	ctx context.Context,
	w io.Writer,
	fn func(ctx context.Context, f *service.Facade) model.Response[T],
) error {
	app, err := OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	return Print(w, fn(ctx, app.Facade))
}
