package station

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/stationlog/pkg/cmd/util"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/service"
)

func NewStationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "station",
		Short: "commands for stations and the operator session",
	}
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newActivateCmd())
	cmd.AddCommand(newOperatorCmd())
	cmd.AddCommand(newSessionCmd())
	cmd.AddCommand(newEventInfoCmd())
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists the stations in file order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[[]*model.Station] {
					return f.ListStations(ctx)
				})
		},
	}
}

var byID bool

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show identifier",
		Short: "shows a single station",
		Long: `Shows the station with the given identifier.
With --id the argument is the numeric station id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stationID := 0
			if byID {
				var err error
				if stationID, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("%w: station id %q", model.ErrInvalidFormat, args[0])
				}
			}
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[*model.Station] {
					if byID {
						return f.GetStationByID(ctx, stationID)
					}
					return f.GetStationByIdentifier(ctx, args[0])
				})
		},
	}
	cmd.Flags().BoolVar(&byID, "id", false, "lookup by station id")
	return cmd
}

func newActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate identifier",
		Short: "makes identifier the station of this instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[*model.Session] {
					return f.ActivateStation(ctx, args[0])
				})
		},
	}
}

func newOperatorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "operator identifier callsign",
		Short: "activates the operator with callsign",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[*model.Session] {
					return f.SetOperatorIdentity(ctx, args[0], args[1])
				})
		},
	}
}

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "shows the active station",
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[*model.Session] {
					return f.CurrentSession(ctx)
				})
		},
	}
}

func newEventInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "event-info",
		Short: "shows the event metadata of the station file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[*model.EventInfo] {
					return f.GetEventInfo(ctx)
				})
		},
	}
}
