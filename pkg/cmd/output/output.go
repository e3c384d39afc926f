package output

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/stationlog/pkg/cmd/util"
	"github.com/mpapenbr/stationlog/pkg/config"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/service"
)

func NewOutputCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "output",
		Short: "commands for the split sheet",
	}
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newRebuildCmd())
	return cmd
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "lists all output rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[[]*model.OutputRow] {
					return f.ListOutput(ctx, config.DNFSort)
				})
		},
	}
	cmd.Flags().BoolVar(&config.DNFSort, "dnf-sort", false,
		"list active runners first, then by dnf type")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show bib",
		Short: "shows the output row of a runner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bib, err := util.ParseBib(args[0])
			if err != nil {
				return err
			}
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[*model.OutputRow] {
					return f.GetOutputRow(ctx, bib)
				})
		},
	}
}

func newRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild [bib]",
		Short: "rebuilds the output row of bib or all rows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bib := 0
			if len(args) == 1 {
				var err error
				if bib, err = util.ParseBib(args[0]); err != nil {
					return err
				}
			}
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[int] {
					return f.RebuildOutput(ctx, bib)
				})
		},
	}
}
