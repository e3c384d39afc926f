package runner

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/stationlog/pkg/cmd/util"
	"github.com/mpapenbr/stationlog/pkg/config"
	"github.com/mpapenbr/stationlog/pkg/importer"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/service"
)

var (
	dnfStation  int
	dnfAt       string
	dnfOverride bool
)

func NewRunnerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runner",
		Short: "commands for the roster",
	}
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newDNFCmd())
	cmd.AddCommand(newDNSCmd())
	return cmd
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "lists all runners",
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[[]*model.Runner] {
					return f.ListRunners(ctx, config.DNFSort)
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
		Short: "shows a single runner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bib, err := util.ParseBib(args[0])
			if err != nil {
				return err
			}
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[*model.Runner] {
					return f.LookupRunnerByBib(ctx, bib)
				})
		},
	}
}

func newDNFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dnf bib type",
		Short: "sets the dnf type (none, withdrew, timeout, medical, unknown)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bib, err := util.ParseBib(args[0])
			if err != nil {
				return err
			}
			dnfType, err := model.ParseDNFType(args[1])
			if err != nil {
				return err
			}
			at, err := importer.ParseTime(dnfAt)
			if err != nil {
				return err
			}
			change := model.DNFChange{
				Type:      dnfType,
				StationID: dnfStation,
				Override:  dnfOverride,
			}
			if v, ok := at.Get(); ok {
				change.At = v
			}
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[*model.Runner] {
					return f.SetDNF(ctx, bib, change)
				})
		},
	}
	cmd.Flags().IntVar(&dnfStation, "station", 0, "station id where the runner dropped")
	cmd.Flags().StringVar(&dnfAt, "at", "", "time of the drop (default now)")
	cmd.Flags().BoolVar(&dnfOverride, "override", false, "allow leaving a dnf state")
	return cmd
}

func newDNSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dns bib true|false",
		Short: "marks a runner as did not start",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bib, err := util.ParseBib(args[0])
			if err != nil {
				return err
			}
			dns, err := strconv.ParseBool(args[1])
			if err != nil {
				return err
			}
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[*model.Runner] {
					return f.SetDNS(ctx, bib, dns)
				})
		},
	}
}
