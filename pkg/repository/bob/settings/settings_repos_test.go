package settings

import (
	"context"
	"testing"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/testsupport/testdb"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestPutGet(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewSettingsRepository(db)
	ctx := context.Background()

	var got sample
	assert.ErrorIs(t, r.Get(ctx, "k", &got), model.ErrNotFound)

	assert.NoError(t, r.Put(ctx, "k", sample{Name: "a", Count: 1}))
	assert.NoError(t, r.Put(ctx, "k", sample{Name: "b", Count: 2}))
	assert.NoError(t, r.Get(ctx, "k", &got))
	assert.Equal(t, sample{Name: "b", Count: 2}, got)

	n, err := r.Delete(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, r.Get(ctx, "k", &got), model.ErrNotFound)
}

func TestGetCorrupt(t *testing.T) {
	db := testdb.InitTestDB(t)
	r := NewSettingsRepository(db)
	ctx := context.Background()
	_, err := bob.Exec(ctx, db,
		sqlite.RawQuery("insert into settings (key, value) values ('k', '{nope')"))
	assert.NoError(t, err)

	var got sample
	assert.ErrorIs(t, r.Get(ctx, "k", &got), model.ErrCorrupt)
}
