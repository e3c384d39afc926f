//nolint:whitespace // can't make both editor and linter happy
package station

import (
	"context"

	"github.com/samber/lo"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dialect"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/stationlog/pkg/db/mytypes"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/repository/api"
	bobCtx "github.com/mpapenbr/stationlog/pkg/repository/bob/context"
	"github.com/mpapenbr/stationlog/pkg/repository/bob/dberr"
)

const tableName = "stations"

var columns = []string{
	"position", "identifier", "station_id", "name", "description", "location",
	"distance", "dropbags", "crewaccess", "paceraccess", "entry_mode",
	"shift_begin", "cutoff_time", "shift_end", "operators",
}

type (
	repo struct {
		conn bob.Executor
	}
	// location and operators are kept as raw JSON here and decoded in toModel
	stationRow struct {
		Position    int     `db:"position"`
		Identifier  string  `db:"identifier"`
		StationID   int     `db:"station_id"`
		Name        string  `db:"name"`
		Description string  `db:"description"`
		Location    string  `db:"location"`
		Distance    float64 `db:"distance"`
		Dropbags    bool    `db:"dropbags"`
		CrewAccess  bool    `db:"crewaccess"`
		PacerAccess bool    `db:"paceraccess"`
		EntryMode   string  `db:"entry_mode"`
		ShiftBegin  *int64  `db:"shift_begin"`
		CutoffTime  *int64  `db:"cutoff_time"`
		ShiftEnd    *int64  `db:"shift_end"`
		Operators   string  `db:"operators"`
	}
)

var _ api.StationRepository = (*repo)(nil)

func NewStationRepository(conn bob.Executor) api.StationRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, position int, station *model.Station) error {
	stationID, err := station.StationID()
	if err != nil {
		return err
	}
	location, err := mytypes.EncodeJSON(station.Location)
	if err != nil {
		return err
	}
	ops := station.Operators
	if ops == nil {
		ops = model.Operators{}
	}
	operators, err := mytypes.EncodeJSON(ops)
	if err != nil {
		return err
	}
	q := sqlite.Insert(
		im.Into(tableName, columns...),
		im.Values(sqlite.Arg(
			position, station.Identifier, stationID, station.Name, station.Description,
			location, station.Distance,
			station.Dropbags, station.CrewAccess, station.PacerAccess,
			string(station.EntryMode),
			mytypes.NullToMillis(station.ShiftBegin),
			mytypes.NullToMillis(station.CutoffTime),
			mytypes.NullToMillis(station.ShiftEnd),
			operators,
		)),
	)
	_, err = bob.Exec(ctx, r.getExecutor(ctx), q)
	return dberr.Wrap(err)
}

func (r *repo) LoadByIdentifier(ctx context.Context, identifier string) (
	*model.Station, error,
) {
	return r.loadOne(ctx, sm.Where(sqlite.Quote("identifier").EQ(sqlite.Arg(identifier))))
}

func (r *repo) LoadByStationID(ctx context.Context, stationID int) (
	*model.Station, error,
) {
	return r.loadOne(ctx, sm.Where(sqlite.Quote("station_id").EQ(sqlite.Arg(stationID))))
}

func (r *repo) loadOne(ctx context.Context, where bob.Mod[*dialect.SelectQuery]) (
	*model.Station, error,
) {
	q := sqlite.Select(
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From(tableName),
		where,
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[stationRow]())
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return toModel(&row)
}

func (r *repo) LoadAll(ctx context.Context) ([]*model.Station, error) {
	q := sqlite.Select(
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From(tableName),
		sm.OrderBy("position").Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[stationRow]())
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	ret := make([]*model.Station, 0, len(rows))
	for i := range rows {
		item, err := toModel(&rows[i])
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func (r *repo) LoadStationIDs(ctx context.Context) ([]int, error) {
	q := sqlite.RawQuery(`select station_id from stations order by position`)
	ids, err := bob.All(ctx, r.getExecutor(ctx), q, scan.SingleColumnMapper[int])
	return ids, dberr.Wrap(err)
}

func (r *repo) UpdateOperators(
	ctx context.Context,
	identifier string,
	ops model.Operators,
) (int, error) {
	operators, err := mytypes.EncodeJSON(ops)
	if err != nil {
		return 0, err
	}
	q := sqlite.RawQuery(`update stations set operators=? where identifier=?`,
		sqlite.Arg(operators), sqlite.Arg(identifier))
	return dberr.RowsAffected(bob.Exec(ctx, r.getExecutor(ctx), q))
}

func (r *repo) Count(ctx context.Context) (int, error) {
	q := sqlite.RawQuery(`select count(*) from stations`)
	n, err := bob.One(ctx, r.getExecutor(ctx), q, scan.SingleColumnMapper[int])
	return n, dberr.Wrap(err)
}

// deletes all entries, returns number of rows deleted.
func (r *repo) DeleteAll(ctx context.Context) (int, error) {
	return dberr.RowsAffected(
		bob.Exec(ctx, r.getExecutor(ctx), sqlite.Delete(dm.From(tableName))))
}

func toModel(row *stationRow) (*model.Station, error) {
	location, err := mytypes.DecodeJSON[model.Location]("location", row.Location)
	if err != nil {
		return nil, err
	}
	operators, err := mytypes.DecodeJSON[model.Operators]("operators", row.Operators)
	if err != nil {
		return nil, err
	}
	if operators == nil {
		operators = model.Operators{}
	}
	return &model.Station{
		Name:        row.Name,
		Identifier:  row.Identifier,
		Description: row.Description,
		Location:    location,
		Distance:    row.Distance,
		Dropbags:    row.Dropbags,
		CrewAccess:  row.CrewAccess,
		PacerAccess: row.PacerAccess,
		EntryMode:   model.EntryMode(row.EntryMode),
		ShiftBegin:  mytypes.NullFromMillis(row.ShiftBegin),
		CutoffTime:  mytypes.NullFromMillis(row.CutoffTime),
		ShiftEnd:    mytypes.NullFromMillis(row.ShiftEnd),
		Operators:   operators,
	}, nil
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
