//nolint:dupl,funlen,errcheck //ok for this test code
package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/stationlog/pkg/model"
	bobCtx "github.com/mpapenbr/stationlog/pkg/repository/bob/context"
	"github.com/mpapenbr/stationlog/testsupport/basedata"
	"github.com/mpapenbr/stationlog/testsupport/testdb"
)

func TestCreateBulk(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewRunnerRepository(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		runners []*model.Runner
		want    int
		wantErr bool
	}{
		{name: "empty", runners: nil, want: 0},
		{name: "three runners", runners: basedata.SampleRunners(1, 2, 3), want: 3},
		{name: "duplicate bib", runners: basedata.SampleRunners(4, 4), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.CreateBulk(ctx, tt.runners)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrStorage)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateBulkChunks(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewRunnerRepository(db)
	ctx := context.Background()

	bibs := make([]int, 0, 2*bulkChunkSize+7)
	for i := 1; i <= 2*bulkChunkSize+7; i++ {
		bibs = append(bibs, i)
	}
	n, err := r.CreateBulk(ctx, basedata.SampleRunners(bibs...))
	assert.NoError(t, err)
	assert.Equal(t, len(bibs), n)
	all, err := r.LoadAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, len(bibs))
}

func TestLoadByBib(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewRunnerRepository(db)
	ctx := context.Background()
	sample := basedata.SampleRunner(101)
	sample.EmergencyName = "Em Name"
	sample.EmergencyPhone = "555"
	assert.NoError(t, r.Create(ctx, sample))

	tests := []struct {
		name    string
		bib     int
		want    *model.Runner
		wantErr error
	}{
		{name: "existing", bib: 101, want: sample},
		{name: "unknown", bib: 999, wantErr: model.ErrNotFound},
		{name: "zero", bib: 0, wantErr: model.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.LoadByBib(ctx, tt.bib)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadByBibCorrupt(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewRunnerRepository(db)
	ctx := context.Background()
	assert.NoError(t, r.Create(ctx, basedata.SampleRunner(7)))
	_, err := bob.Exec(ctx, db, rawUpdate("update start_list set dnf_type='broken'"))
	assert.NoError(t, err)

	_, err = r.LoadByBib(ctx, 7)
	assert.ErrorIs(t, err, model.ErrCorrupt)
}

func TestUpdateStatus(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewRunnerRepository(db)
	ctx := context.Background()
	assert.NoError(t, r.Create(ctx, basedata.SampleRunner(5)))

	changed := basedata.SampleRunner(5)
	changed.DNF = true
	changed.DNFType = model.DNFMedical
	changed.DNFStation = 3
	changed.DNFTimestamp = null.From(basedata.TestTime())
	n, err := r.UpdateStatus(ctx, changed)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := r.LoadByBib(ctx, 5)
	assert.NoError(t, err)
	assert.Equal(t, changed, got)

	n, err = r.UpdateStatus(ctx, basedata.SampleRunner(6))
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLoadAllAndDelete(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewRunnerRepository(db)
	ctx := context.Background()
	_, err := r.CreateBulk(ctx, basedata.SampleRunners(30, 10, 20))
	assert.NoError(t, err)

	all, err := r.LoadAll(ctx)
	assert.NoError(t, err)
	bibs := make([]int, 0, len(all))
	for _, item := range all {
		bibs = append(bibs, item.Bib)
	}
	assert.Equal(t, []int{10, 20, 30}, bibs)

	n, err := r.DeleteAll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	all, err = r.LoadAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func TestRollback(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewRunnerRepository(db)
	ctx := context.Background()

	errAbort := errors.New("abort")
	err := db.RunInTx(ctx, nil, func(ctx context.Context, ex bob.Executor) error {
		txCtx := bobCtx.NewContext(ctx, ex)
		if _, err := r.CreateBulk(txCtx, basedata.SampleRunners(1, 2)); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)
	all, err := r.LoadAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func rawUpdate(query string) bob.Query {
	return sqlite.RawQuery(query)
}
