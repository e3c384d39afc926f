//nolint:whitespace // can't make both editor and linter happy
package runner

import (
	"context"
	"fmt"

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

const (
	tableName = "start_list"
	// keeps a bulk insert well below the sqlite variable limit
	bulkChunkSize = 200
)

var columns = []string{
	"bib", "first_name", "last_name", "gender", "age", "city", "state",
	"emergency_name", "emergency_phone",
	"dns", "dnf", "dnf_type", "dnf_station", "dnf_timestamp",
}

type (
	repo struct {
		conn bob.Executor
	}
	runnerRow struct {
		Bib            int    `db:"bib"`
		FirstName      string `db:"first_name"`
		LastName       string `db:"last_name"`
		Gender         string `db:"gender"`
		Age            int    `db:"age"`
		City           string `db:"city"`
		State          string `db:"state"`
		EmergencyName  string `db:"emergency_name"`
		EmergencyPhone string `db:"emergency_phone"`
		DNS            bool   `db:"dns"`
		DNF            bool   `db:"dnf"`
		DNFType        string `db:"dnf_type"`
		DNFStation     int    `db:"dnf_station"`
		DNFTimestamp   *int64 `db:"dnf_timestamp"`
	}
)

var _ api.RunnerRepository = (*repo)(nil)

func NewRunnerRepository(conn bob.Executor) api.RunnerRepository {
	return &repo{
		conn: conn,
	}
}

func (r *repo) Create(ctx context.Context, runner *model.Runner) error {
	_, err := r.CreateBulk(ctx, []*model.Runner{runner})
	return err
}

func (r *repo) CreateBulk(ctx context.Context, runners []*model.Runner) (int, error) {
	total := 0
	for _, chunk := range lo.Chunk(runners, bulkChunkSize) {
		mods := []bob.Mod[*dialect.InsertQuery]{im.Into(tableName, columns...)}
		for _, runner := range chunk {
			mods = append(mods, im.Values(sqlite.Arg(values(runner)...)))
		}
		n, err := dberr.RowsAffected(
			bob.Exec(ctx, r.getExecutor(ctx), sqlite.Insert(mods...)))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (r *repo) LoadByBib(ctx context.Context, bib int) (*model.Runner, error) {
	q := sqlite.Select(
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("bib").EQ(sqlite.Arg(bib))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[runnerRow]())
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return toModel(&row)
}

func (r *repo) LoadAll(ctx context.Context) ([]*model.Runner, error) {
	q := sqlite.Select(
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From(tableName),
		sm.OrderBy("bib").Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[runnerRow]())
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	ret := make([]*model.Runner, 0, len(rows))
	for i := range rows {
		if rows[i].Bib <= 0 {
			continue
		}
		item, err := toModel(&rows[i])
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func (r *repo) UpdateStatus(ctx context.Context, runner *model.Runner) (int, error) {
	q := sqlite.RawQuery(`
	update start_list set dns=?, dnf=?, dnf_type=?, dnf_station=?, dnf_timestamp=?
	where bib=?`,
		sqlite.Arg(runner.DNS),
		sqlite.Arg(runner.DNF),
		sqlite.Arg(string(runner.DNFType)),
		sqlite.Arg(runner.DNFStation),
		sqlite.Arg(mytypes.NullToMillis(runner.DNFTimestamp)),
		sqlite.Arg(runner.Bib),
	)
	return dberr.RowsAffected(bob.Exec(ctx, r.getExecutor(ctx), q))
}

// deletes all entries, returns number of rows deleted.
func (r *repo) DeleteAll(ctx context.Context) (int, error) {
	return dberr.RowsAffected(
		bob.Exec(ctx, r.getExecutor(ctx), sqlite.Delete(dm.From(tableName))))
}

func values(runner *model.Runner) []any {
	dnfType := runner.DNFType
	if dnfType == "" {
		dnfType = model.DNFNone
	}
	return []any{
		runner.Bib, runner.FirstName, runner.LastName, runner.Gender, runner.Age,
		runner.City, runner.State, runner.EmergencyName, runner.EmergencyPhone,
		runner.DNS, runner.DNF, string(dnfType), runner.DNFStation,
		mytypes.NullToMillis(runner.DNFTimestamp),
	}
}

// rows without a positive bib are reported as missing rather than
// handed out with a zero value
func toModel(row *runnerRow) (*model.Runner, error) {
	if row.Bib <= 0 {
		return nil, model.ErrNotFound
	}
	dnfType, err := model.ParseDNFType(row.DNFType)
	if err != nil {
		return nil, fmt.Errorf("%w: bib %d: dnf_type %q", model.ErrCorrupt, row.Bib, row.DNFType)
	}
	return &model.Runner{
		Bib:            row.Bib,
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		Gender:         row.Gender,
		Age:            row.Age,
		City:           row.City,
		State:          row.State,
		EmergencyName:  row.EmergencyName,
		EmergencyPhone: row.EmergencyPhone,
		DNS:            row.DNS,
		DNF:            row.DNF,
		DNFType:        dnfType,
		DNFStation:     row.DNFStation,
		DNFTimestamp:   mytypes.NullFromMillis(row.DNFTimestamp),
	}, nil
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
