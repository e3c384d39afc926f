//nolint:whitespace // can't make both editor and linter happy
package schema

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/stationlog/pkg/db/migrate"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/repository/api"
	bobCtx "github.com/mpapenbr/stationlog/pkg/repository/bob/context"
	"github.com/mpapenbr/stationlog/pkg/repository/bob/dberr"
)

type repo struct {
	conn bob.Executor
}

var _ api.SchemaRepository = (*repo)(nil)

func NewSchemaRepository(conn bob.Executor) api.SchemaRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) CountTables(ctx context.Context, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	q := sqlite.RawQuery(
		"select count(*) from sqlite_master where type='table' and name in ("+
			placeholders+")",
		lo.ToAnySlice(names)...)
	n, err := bob.One(ctx, r.getExecutor(ctx), q, scan.SingleColumnMapper[int])
	return n, dberr.Wrap(err)
}

// ResetTable only accepts the tables managed by the migrations
func (r *repo) ResetTable(ctx context.Context, name string) (int, error) {
	if !slices.Contains(migrate.ExpectedTables, name) {
		return 0, fmt.Errorf("%w: unknown table %q", model.ErrInvalidFormat, name)
	}
	return dberr.RowsAffected(
		bob.Exec(ctx, r.getExecutor(ctx), sqlite.Delete(dm.From(name))))
}

func (r *repo) Apply(ctx context.Context, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := bob.Exec(ctx, r.getExecutor(ctx), sqlite.RawQuery(stmt)); err != nil {
			return dberr.Wrap(err)
		}
	}
	return nil
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
