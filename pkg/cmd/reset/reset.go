package reset

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/stationlog/pkg/cmd/util"
	"github.com/mpapenbr/stationlog/pkg/db/migrate"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/service"
)

func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "reset table",
		Short:     "deletes all rows of a table (" + strings.Join(migrate.ExpectedTables, ", ") + ")",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrate.ExpectedTables,
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Run(cmd.Context(), cmd.OutOrStdout(),
				func(ctx context.Context, f *service.Facade) model.Response[int] {
					return f.ResetTable(ctx, args[0])
				})
		},
	}
}
