package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/stationlog/pkg/model"
)

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	err := Print(&buf, model.Ok(42, "answer"))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"data":42,"status":"Success","message":"answer"}`, buf.String())

	buf.Reset()
	err = Print(&buf, model.Failed[int](model.ErrNotFound))
	assert.Error(t, err)
	assert.Contains(t, buf.String(), `"status": "NotFound"`)
}

func TestParseBib(t *testing.T) {
	bib, err := ParseBib("101")
	assert.NoError(t, err)
	assert.Equal(t, 101, bib)
	for _, in := range []string{"", "0", "-3", "a1"} {
		_, err := ParseBib(in)
		assert.ErrorIs(t, err, model.ErrInvalidFormat, in)
	}
}

func TestParseEventIDs(t *testing.T) {
	ids, err := ParseEventIDs([]string{"3", "12"})
	assert.NoError(t, err)
	assert.Equal(t, []int64{3, 12}, ids)
	_, err = ParseEventIDs([]string{"3", "x"})
	assert.ErrorIs(t, err, model.ErrInvalidFormat)
	_, err = ParseEventIDs([]string{"0"})
	assert.ErrorIs(t, err, model.ErrInvalidFormat)
}
