package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/pkg/cmd/util"
	"github.com/mpapenbr/stationlog/pkg/config"
	"github.com/mpapenbr/stationlog/pkg/endpoints/rest"
	"github.com/mpapenbr/stationlog/pkg/service"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "starts the http query server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.HTTPAddr,
		"addr",
		"a",
		"localhost:8080",
		"http server listen address")
	cmd.Flags().StringVar(&config.RebuildSchedule,
		"rebuild-schedule",
		"",
		"cron spec for full output rebuilds (for example \"@every 5m\"), disabled if empty")
	return cmd
}

func startServer(ctx context.Context) error {
	app, err := util.OpenApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if config.RebuildSchedule != "" {
		scheduler, err := service.NewRebuildScheduler(app.Services.Output, config.RebuildSchedule)
		if err != nil {
			log.Error("invalid rebuild schedule",
				log.String("schedule", config.RebuildSchedule), log.ErrorField(err))
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := rest.NewServer(app.Facade)
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(config.HTTPAddr)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errChan:
		if err != nil {
			log.Error("server could not be started", log.ErrorField(err))
		}
		return err
	case <-sigCtx.Done():
		log.Debug("Got signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", log.ErrorField(err))
	}
	log.Info("Server terminated")
	return nil
}
