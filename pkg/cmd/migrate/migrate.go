package migrate

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/pkg/cmd/util"
	"github.com/mpapenbr/stationlog/pkg/config"
	"github.com/mpapenbr/stationlog/pkg/db/migrate"
)

var down bool

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration()
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back all migrations (drops all data)")
	return cmd
}

func startMigration() error {
	if err := util.SetupLogger(); err != nil {
		return err
	}
	log.Info("Using database", log.String("path", config.DB))
	if down {
		if err := migrate.DropDB(config.DB); err != nil {
			log.Error("Could not roll back migrations", log.ErrorField(err))
			return err
		}
		log.Info("All migrations rolled back")
		return nil
	}
	if err := migrate.MigrateDB(config.DB); err != nil {
		log.Error("Could not migrate", log.ErrorField(err))
		return err
	}
	log.Info("Database is up to date")
	return nil
}
