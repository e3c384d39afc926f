//nolint:whitespace // can't make both editor and linter happy
package event

import (
	"context"
	"strings"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/samber/lo"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/stationlog/pkg/db/mytypes"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/repository/api"
	bobCtx "github.com/mpapenbr/stationlog/pkg/repository/bob/context"
	"github.com/mpapenbr/stationlog/pkg/repository/bob/dberr"
)

const tableName = "events"

var columns = []string{
	"id", "bib", "station_id", "time_in", "time_out", "last_changed", "note", "sent",
}

type (
	repo struct {
		conn bob.Executor
	}
	eventRow struct {
		ID          int64   `db:"id"`
		Bib         int     `db:"bib"`
		StationID   int     `db:"station_id"`
		TimeIn      *int64  `db:"time_in"`
		TimeOut     *int64  `db:"time_out"`
		LastChanged int64   `db:"last_changed"`
		Note        *string `db:"note"`
		Sent        bool    `db:"sent"`
	}
)

var _ api.EventRepository = (*repo)(nil)

func NewEventRepository(conn bob.Executor) api.EventRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(
	ctx context.Context,
	event *model.NewEvent,
	lastChanged time.Time,
) (*model.Event, error) {
	q := sqlite.RawQuery(`
	insert into events (bib, station_id, time_in, time_out, last_changed, note, sent)
	values (?, ?, ?, ?, ?, ?, 0)`,
		sqlite.Arg(event.Bib),
		sqlite.Arg(event.StationID),
		sqlite.Arg(mytypes.NullToMillis(event.TimeIn)),
		sqlite.Arg(mytypes.NullToMillis(event.TimeOut)),
		sqlite.Arg(mytypes.ToMillis(lastChanged)),
		sqlite.Arg(mytypes.NullString(event.Note)),
	)
	res, err := bob.Exec(ctx, r.getExecutor(ctx), q)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return &model.Event{
		ID:          id,
		Bib:         event.Bib,
		StationID:   event.StationID,
		TimeIn:      mytypes.TruncateNull(event.TimeIn),
		TimeOut:     mytypes.TruncateNull(event.TimeOut),
		LastChanged: mytypes.Truncate(lastChanged),
		Note:        event.Note,
	}, nil
}

func (r *repo) LoadByID(ctx context.Context, id int64) (*model.Event, error) {
	q := sqlite.Select(
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[eventRow]())
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return toModel(&row), nil
}

func (r *repo) LoadByBib(ctx context.Context, bib int) ([]*model.Event, error) {
	q := sqlite.Select(
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("bib").EQ(sqlite.Arg(bib))),
		sm.OrderBy("station_id").Asc(),
		sm.OrderBy("last_changed").Asc(),
		sm.OrderBy("id").Asc(),
	)
	return r.loadMany(ctx, q)
}

func (r *repo) LoadByStation(ctx context.Context, stationID int) ([]*model.Event, error) {
	q := sqlite.Select(
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("station_id").EQ(sqlite.Arg(stationID))),
		sm.OrderBy("last_changed").Asc(),
		sm.OrderBy("id").Asc(),
	)
	return r.loadMany(ctx, q)
}

func (r *repo) LoadAll(ctx context.Context) ([]*model.Event, error) {
	q := sqlite.Select(
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From(tableName),
		sm.OrderBy("id").Asc(),
	)
	return r.loadMany(ctx, q)
}

func (r *repo) LoadUnsent(ctx context.Context) ([]*model.Event, error) {
	q := sqlite.Select(
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("sent").EQ(sqlite.Arg(false))),
		sm.OrderBy("id").Asc(),
	)
	return r.loadMany(ctx, q)
}

func (r *repo) MarkSent(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := lo.Map(ids, func(id int64, _ int) any { return id })
	q := sqlite.RawQuery(
		"update events set sent=1 where id in ("+placeholders+")", args...)
	return dberr.RowsAffected(bob.Exec(ctx, r.getExecutor(ctx), q))
}

// deletes all entries, returns number of rows deleted.
func (r *repo) DeleteAll(ctx context.Context) (int, error) {
	return dberr.RowsAffected(
		bob.Exec(ctx, r.getExecutor(ctx), sqlite.Delete(dm.From(tableName))))
}

func (r *repo) loadMany(ctx context.Context, q bob.Query) ([]*model.Event, error) {
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[eventRow]())
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return lo.Map(rows, func(row eventRow, _ int) *model.Event {
		return toModel(&row)
	}), nil
}

func toModel(row *eventRow) *model.Event {
	return &model.Event{
		ID:          row.ID,
		Bib:         row.Bib,
		StationID:   row.StationID,
		TimeIn:      mytypes.NullFromMillis(row.TimeIn),
		TimeOut:     mytypes.NullFromMillis(row.TimeOut),
		LastChanged: mytypes.FromMillis(row.LastChanged),
		Note:        null.FromPtr(row.Note),
		Sent:        row.Sent,
	}
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
