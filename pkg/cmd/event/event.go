package event

import (
	"context"

	"github.com/aarondl/opt/null"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/stationlog/pkg/cmd/util"
	"github.com/mpapenbr/stationlog/pkg/importer"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/service"
)

var (
	stationID   int
	timeIn      string
	timeOut     string
	note        string
	listBib     int
	listStation int
	listUnsent  bool
)

func NewEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "commands for the event log",
	}
	cmd.AddCommand(newRecordCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newMarkSentCmd())
	return cmd
}

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record bib",
		Short: "records a runner passing a station",
		Long: `Records time in and/or time out of a runner.
Without --station the active station of the session is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bib, err := util.ParseBib(args[0])
			if err != nil {
				return err
			}
			in, err := importer.ParseTime(timeIn)
			if err != nil {
				return err
			}
			out, err := importer.ParseTime(timeOut)
			if err != nil {
				return err
			}
			var n null.Val[string]
			if note != "" {
				n = null.From(note)
			}
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[*model.Event] {
					if stationID == 0 {
						return f.RecordForCurrentStation(ctx, bib, in, out, n)
					}
					return f.RecordEvent(ctx, bib, stationID, in, out, n)
				})
		},
	}
	cmd.Flags().IntVar(&stationID, "station", 0, "station id (default: active station)")
	cmd.Flags().StringVar(&timeIn, "in", "", "time in")
	cmd.Flags().StringVar(&timeOut, "out", "", "time out")
	cmd.Flags().StringVar(&note, "note", "", "free text note")
	return cmd
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "lists recorded events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[[]*model.Event] {
					switch {
					case listUnsent:
						return f.ListUnsentEvents(ctx)
					case listStation > 0:
						return f.ListEventsAtStation(ctx, listStation)
					default:
						return f.ListEvents(ctx, listBib)
					}
				})
		},
	}
	cmd.Flags().IntVar(&listBib, "bib", 0, "only events of this runner")
	cmd.Flags().IntVar(&listStation, "station", 0, "only events of this station id")
	cmd.Flags().BoolVar(&listUnsent, "unsent", false, "only events not yet sent")
	cmd.MarkFlagsMutuallyExclusive("bib", "station", "unsent")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show id",
		Short: "shows a single event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := util.ParseEventIDs(args)
			if err != nil {
				return err
			}
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[*model.Event] {
					return f.GetEvent(ctx, ids[0])
				})
		},
	}
}

func newMarkSentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-sent id...",
		Short: "flags events as transmitted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := util.ParseEventIDs(args)
			if err != nil {
				return err
			}
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[int] {
					return f.MarkEventsSent(ctx, ids)
				})
		},
	}
}
