//nolint:whitespace // can't make both editor and linter happy
package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/stationlog/pkg/db/mytypes"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/repository/api"
	bobCtx "github.com/mpapenbr/stationlog/pkg/repository/bob/context"
	"github.com/mpapenbr/stationlog/pkg/repository/bob/dberr"
)

type repo struct {
	conn bob.Executor
}

var _ api.SettingsRepository = (*repo)(nil)

func NewSettingsRepository(conn bob.Executor) api.SettingsRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Put(ctx context.Context, key string, value any) error {
	data, err := mytypes.EncodeJSON(value)
	if err != nil {
		return err
	}
	q := sqlite.RawQuery(`
	insert into settings (key, value) values (?, ?)
	on conflict(key) do update set value=excluded.value`,
		sqlite.Arg(key), sqlite.Arg(data))
	_, err = bob.Exec(ctx, r.getExecutor(ctx), q)
	return dberr.Wrap(err)
}

func (r *repo) Get(ctx context.Context, key string, target any) error {
	q := sqlite.RawQuery(`select value from settings where key=?`, sqlite.Arg(key))
	raw, err := bob.One(ctx, r.getExecutor(ctx), q, scan.SingleColumnMapper[string])
	if err != nil {
		return dberr.Wrap(err)
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return fmt.Errorf("%w: setting %s: %v", model.ErrCorrupt, key, err)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, key string) (int, error) {
	q := sqlite.RawQuery(`delete from settings where key=?`, sqlite.Arg(key))
	return dberr.RowsAffected(bob.Exec(ctx, r.getExecutor(ctx), q))
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
