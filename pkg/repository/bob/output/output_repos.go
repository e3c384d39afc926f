//nolint:whitespace // can't make both editor and linter happy
package output

import (
	"context"
	"fmt"
	"strings"

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

const tableName = "output"

// split columns sta1_in .. sta20_out
var splitColumns = []string{
	"sta1_in", "sta1_out", "sta2_in", "sta2_out", "sta3_in", "sta3_out", "sta4_in",
	"sta4_out", "sta5_in", "sta5_out", "sta6_in", "sta6_out", "sta7_in", "sta7_out",
	"sta8_in", "sta8_out", "sta9_in", "sta9_out", "sta10_in", "sta10_out", "sta11_in",
	"sta11_out", "sta12_in", "sta12_out", "sta13_in", "sta13_out", "sta14_in",
	"sta14_out", "sta15_in", "sta15_out", "sta16_in", "sta16_out", "sta17_in",
	"sta17_out", "sta18_in", "sta18_out", "sta19_in", "sta19_out", "sta20_in",
	"sta20_out",
}

var columns = append(append([]string{"bib"}, splitColumns...),
	"dnf", "dns", "dnf_type", "last_changed")

var upsertStmt = fmt.Sprintf("insert or replace into output (%s) values (%s)",
	strings.Join(columns, ", "),
	strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "))

type (
	repo struct {
		conn bob.Executor
	}
	outputRow struct {
		Bib         int    `db:"bib"`
		Sta1In      *int64 `db:"sta1_in"`
		Sta1Out     *int64 `db:"sta1_out"`
		Sta2In      *int64 `db:"sta2_in"`
		Sta2Out     *int64 `db:"sta2_out"`
		Sta3In      *int64 `db:"sta3_in"`
		Sta3Out     *int64 `db:"sta3_out"`
		Sta4In      *int64 `db:"sta4_in"`
		Sta4Out     *int64 `db:"sta4_out"`
		Sta5In      *int64 `db:"sta5_in"`
		Sta5Out     *int64 `db:"sta5_out"`
		Sta6In      *int64 `db:"sta6_in"`
		Sta6Out     *int64 `db:"sta6_out"`
		Sta7In      *int64 `db:"sta7_in"`
		Sta7Out     *int64 `db:"sta7_out"`
		Sta8In      *int64 `db:"sta8_in"`
		Sta8Out     *int64 `db:"sta8_out"`
		Sta9In      *int64 `db:"sta9_in"`
		Sta9Out     *int64 `db:"sta9_out"`
		Sta10In     *int64 `db:"sta10_in"`
		Sta10Out    *int64 `db:"sta10_out"`
		Sta11In     *int64 `db:"sta11_in"`
		Sta11Out    *int64 `db:"sta11_out"`
		Sta12In     *int64 `db:"sta12_in"`
		Sta12Out    *int64 `db:"sta12_out"`
		Sta13In     *int64 `db:"sta13_in"`
		Sta13Out    *int64 `db:"sta13_out"`
		Sta14In     *int64 `db:"sta14_in"`
		Sta14Out    *int64 `db:"sta14_out"`
		Sta15In     *int64 `db:"sta15_in"`
		Sta15Out    *int64 `db:"sta15_out"`
		Sta16In     *int64 `db:"sta16_in"`
		Sta16Out    *int64 `db:"sta16_out"`
		Sta17In     *int64 `db:"sta17_in"`
		Sta17Out    *int64 `db:"sta17_out"`
		Sta18In     *int64 `db:"sta18_in"`
		Sta18Out    *int64 `db:"sta18_out"`
		Sta19In     *int64 `db:"sta19_in"`
		Sta19Out    *int64 `db:"sta19_out"`
		Sta20In     *int64 `db:"sta20_in"`
		Sta20Out    *int64 `db:"sta20_out"`
		DNF         bool   `db:"dnf"`
		DNS         bool   `db:"dns"`
		DNFType     string `db:"dnf_type"`
		LastChanged *int64 `db:"last_changed"`
	}
)

var _ api.OutputRepository = (*repo)(nil)

func NewOutputRepository(conn bob.Executor) api.OutputRepository {
	return &repo{
		conn: conn,
	}
}

// Upsert replaces the complete row of the runner
func (r *repo) Upsert(ctx context.Context, o *model.OutputRow) error {
	row := fromModel(o)
	args := append(append([]any{row.Bib}, row.splitArgs()...),
		row.DNF, row.DNS, row.DNFType, row.LastChanged)
	_, err := bob.Exec(ctx, r.getExecutor(ctx), sqlite.RawQuery(upsertStmt, args...))
	return dberr.Wrap(err)
}

func (r *repo) LoadByBib(ctx context.Context, bib int) (*model.OutputRow, error) {
	q := sqlite.Select(
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("bib").EQ(sqlite.Arg(bib))),
	)
	row, err := bob.One(ctx, r.getExecutor(ctx), q, scan.StructMapper[outputRow]())
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return toModel(&row)
}

func (r *repo) LoadAll(ctx context.Context) ([]*model.OutputRow, error) {
	q := sqlite.Select(
		sm.Columns(lo.ToAnySlice(columns)...),
		sm.From(tableName),
		sm.OrderBy("bib").Asc(),
	)
	rows, err := bob.All(ctx, r.getExecutor(ctx), q, scan.StructMapper[outputRow]())
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	ret := make([]*model.OutputRow, 0, len(rows))
	for i := range rows {
		item, err := toModel(&rows[i])
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func (r *repo) DeleteByBib(ctx context.Context, bib int) (int, error) {
	q := sqlite.Delete(
		dm.From(tableName),
		dm.Where(sqlite.Quote("bib").EQ(sqlite.Arg(bib))),
	)
	return dberr.RowsAffected(bob.Exec(ctx, r.getExecutor(ctx), q))
}

// deletes all entries, returns number of rows deleted.
func (r *repo) DeleteAll(ctx context.Context) (int, error) {
	return dberr.RowsAffected(
		bob.Exec(ctx, r.getExecutor(ctx), sqlite.Delete(dm.From(tableName))))
}

func (row *outputRow) splitArgs() []any {
	return []any{
		row.Sta1In, row.Sta1Out,
		row.Sta2In, row.Sta2Out,
		row.Sta3In, row.Sta3Out,
		row.Sta4In, row.Sta4Out,
		row.Sta5In, row.Sta5Out,
		row.Sta6In, row.Sta6Out,
		row.Sta7In, row.Sta7Out,
		row.Sta8In, row.Sta8Out,
		row.Sta9In, row.Sta9Out,
		row.Sta10In, row.Sta10Out,
		row.Sta11In, row.Sta11Out,
		row.Sta12In, row.Sta12Out,
		row.Sta13In, row.Sta13Out,
		row.Sta14In, row.Sta14Out,
		row.Sta15In, row.Sta15Out,
		row.Sta16In, row.Sta16Out,
		row.Sta17In, row.Sta17Out,
		row.Sta18In, row.Sta18Out,
		row.Sta19In, row.Sta19Out,
		row.Sta20In, row.Sta20Out,
	}
}

//nolint:funlen // one line per column
func fromModel(o *model.OutputRow) *outputRow {
	dnfType := o.DNFType
	if dnfType == "" {
		dnfType = model.DNFNone
	}
	return &outputRow{
		Bib:         o.Bib,
		Sta1In:      mytypes.NullToMillis(o.Splits[0].In),
		Sta1Out:     mytypes.NullToMillis(o.Splits[0].Out),
		Sta2In:      mytypes.NullToMillis(o.Splits[1].In),
		Sta2Out:     mytypes.NullToMillis(o.Splits[1].Out),
		Sta3In:      mytypes.NullToMillis(o.Splits[2].In),
		Sta3Out:     mytypes.NullToMillis(o.Splits[2].Out),
		Sta4In:      mytypes.NullToMillis(o.Splits[3].In),
		Sta4Out:     mytypes.NullToMillis(o.Splits[3].Out),
		Sta5In:      mytypes.NullToMillis(o.Splits[4].In),
		Sta5Out:     mytypes.NullToMillis(o.Splits[4].Out),
		Sta6In:      mytypes.NullToMillis(o.Splits[5].In),
		Sta6Out:     mytypes.NullToMillis(o.Splits[5].Out),
		Sta7In:      mytypes.NullToMillis(o.Splits[6].In),
		Sta7Out:     mytypes.NullToMillis(o.Splits[6].Out),
		Sta8In:      mytypes.NullToMillis(o.Splits[7].In),
		Sta8Out:     mytypes.NullToMillis(o.Splits[7].Out),
		Sta9In:      mytypes.NullToMillis(o.Splits[8].In),
		Sta9Out:     mytypes.NullToMillis(o.Splits[8].Out),
		Sta10In:     mytypes.NullToMillis(o.Splits[9].In),
		Sta10Out:    mytypes.NullToMillis(o.Splits[9].Out),
		Sta11In:     mytypes.NullToMillis(o.Splits[10].In),
		Sta11Out:    mytypes.NullToMillis(o.Splits[10].Out),
		Sta12In:     mytypes.NullToMillis(o.Splits[11].In),
		Sta12Out:    mytypes.NullToMillis(o.Splits[11].Out),
		Sta13In:     mytypes.NullToMillis(o.Splits[12].In),
		Sta13Out:    mytypes.NullToMillis(o.Splits[12].Out),
		Sta14In:     mytypes.NullToMillis(o.Splits[13].In),
		Sta14Out:    mytypes.NullToMillis(o.Splits[13].Out),
		Sta15In:     mytypes.NullToMillis(o.Splits[14].In),
		Sta15Out:    mytypes.NullToMillis(o.Splits[14].Out),
		Sta16In:     mytypes.NullToMillis(o.Splits[15].In),
		Sta16Out:    mytypes.NullToMillis(o.Splits[15].Out),
		Sta17In:     mytypes.NullToMillis(o.Splits[16].In),
		Sta17Out:    mytypes.NullToMillis(o.Splits[16].Out),
		Sta18In:     mytypes.NullToMillis(o.Splits[17].In),
		Sta18Out:    mytypes.NullToMillis(o.Splits[17].Out),
		Sta19In:     mytypes.NullToMillis(o.Splits[18].In),
		Sta19Out:    mytypes.NullToMillis(o.Splits[18].Out),
		Sta20In:     mytypes.NullToMillis(o.Splits[19].In),
		Sta20Out:    mytypes.NullToMillis(o.Splits[19].Out),
		DNF:         o.DNF,
		DNS:         o.DNS,
		DNFType:     string(dnfType),
		LastChanged: mytypes.NullToMillis(o.LastChanged),
	}
}

//nolint:funlen // one line per column
func toModel(row *outputRow) (*model.OutputRow, error) {
	dnfType, err := model.ParseDNFType(row.DNFType)
	if err != nil {
		return nil, fmt.Errorf("%w: output bib %d: dnf_type %q",
			model.ErrCorrupt, row.Bib, row.DNFType)
	}
	return &model.OutputRow{
		Bib:    row.Bib,
		Splits: [model.MaxStations]model.Split{
			{In: mytypes.NullFromMillis(row.Sta1In), Out: mytypes.NullFromMillis(row.Sta1Out)},
			{In: mytypes.NullFromMillis(row.Sta2In), Out: mytypes.NullFromMillis(row.Sta2Out)},
			{In: mytypes.NullFromMillis(row.Sta3In), Out: mytypes.NullFromMillis(row.Sta3Out)},
			{In: mytypes.NullFromMillis(row.Sta4In), Out: mytypes.NullFromMillis(row.Sta4Out)},
			{In: mytypes.NullFromMillis(row.Sta5In), Out: mytypes.NullFromMillis(row.Sta5Out)},
			{In: mytypes.NullFromMillis(row.Sta6In), Out: mytypes.NullFromMillis(row.Sta6Out)},
			{In: mytypes.NullFromMillis(row.Sta7In), Out: mytypes.NullFromMillis(row.Sta7Out)},
			{In: mytypes.NullFromMillis(row.Sta8In), Out: mytypes.NullFromMillis(row.Sta8Out)},
			{In: mytypes.NullFromMillis(row.Sta9In), Out: mytypes.NullFromMillis(row.Sta9Out)},
			{In: mytypes.NullFromMillis(row.Sta10In), Out: mytypes.NullFromMillis(row.Sta10Out)},
			{In: mytypes.NullFromMillis(row.Sta11In), Out: mytypes.NullFromMillis(row.Sta11Out)},
			{In: mytypes.NullFromMillis(row.Sta12In), Out: mytypes.NullFromMillis(row.Sta12Out)},
			{In: mytypes.NullFromMillis(row.Sta13In), Out: mytypes.NullFromMillis(row.Sta13Out)},
			{In: mytypes.NullFromMillis(row.Sta14In), Out: mytypes.NullFromMillis(row.Sta14Out)},
			{In: mytypes.NullFromMillis(row.Sta15In), Out: mytypes.NullFromMillis(row.Sta15Out)},
			{In: mytypes.NullFromMillis(row.Sta16In), Out: mytypes.NullFromMillis(row.Sta16Out)},
			{In: mytypes.NullFromMillis(row.Sta17In), Out: mytypes.NullFromMillis(row.Sta17Out)},
			{In: mytypes.NullFromMillis(row.Sta18In), Out: mytypes.NullFromMillis(row.Sta18Out)},
			{In: mytypes.NullFromMillis(row.Sta19In), Out: mytypes.NullFromMillis(row.Sta19Out)},
			{In: mytypes.NullFromMillis(row.Sta20In), Out: mytypes.NullFromMillis(row.Sta20Out)},
		},
		DNF:         row.DNF,
		DNS:         row.DNS,
		DNFType:     dnfType,
		LastChanged: mytypes.NullFromMillis(row.LastChanged),
	}, nil
}

func (r *repo) getExecutor(ctx context.Context) bob.Executor {
	return bobCtx.Executor(ctx, r.conn)
}
