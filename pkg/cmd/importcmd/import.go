package importcmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/stationlog/pkg/cmd/util"
	"github.com/mpapenbr/stationlog/pkg/config"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/service"
)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "imports roster and station files (JSON or YAML)",
	}
	cmd.AddCommand(newRosterCmd())
	cmd.AddCommand(newStationsCmd())
	return cmd
}

func newRosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster file",
		Short: "replaces the roster with the runners of file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[int] {
					return f.ImportRoster(ctx, data)
				})
		},
	}
}

func newStationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations file",
		Short: "loads the station configuration of file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := service.ParseImportPolicy(config.IfLoaded)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[int] {
					return f.ImportStations(ctx, data, policy)
				})
		},
	}
	cmd.Flags().StringVar(&config.IfLoaded, "if-loaded", "replace",
		"what to do if stations are already loaded (replace, reject)")
	return cmd
}
