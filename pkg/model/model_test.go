package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseStationID(t *testing.T) {
	tests := []struct {
		identifier string
		want       int
		wantErr    bool
	}{
		{identifier: "1-start", want: 1},
		{identifier: "20-finish", want: 20},
		{identifier: "07-x-y", want: 7},
		{identifier: "start", wantErr: true},
		{identifier: "-start", wantErr: true},
		{identifier: "a-start", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			got, err := ParseStationID(tt.identifier)
			if tt.wantErr {
				assert.Check(t, errors.Is(err, ErrInvalidFormat))
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOperators(t *testing.T) {
	ops := Operators{
		"secondary": {Callsign: "KS2"},
		"primary":   {Callsign: "KP1", Active: true},
		"backup":    {Callsign: "KB3", Active: true},
	}
	assert.Check(t, is.DeepEqual([]string{"backup", "primary", "secondary"}, ops.Keys()))
	assert.Equal(t, 2, ops.ActiveCount())
	_, _, ok := ops.Active()
	assert.Check(t, !ok)

	key, ok := ops.KeyByCallsign(" ks2 ")
	assert.Check(t, ok)
	assert.Equal(t, "secondary", key)
	_, ok = ops.KeyByCallsign("KX9")
	assert.Check(t, !ok)

	next := ops.WithActive("secondary")
	key, op, ok := next.Active()
	assert.Check(t, ok)
	assert.Equal(t, "secondary", key)
	assert.Equal(t, "KS2", op.Callsign)
	// the receiver is not modified
	assert.Equal(t, 2, ops.ActiveCount())

	key, ok = ops.DefaultOperatorKey()
	assert.Check(t, ok)
	assert.Equal(t, PrimaryOperator, key)
	delete(ops, "primary")
	key, _ = ops.DefaultOperatorKey()
	assert.Equal(t, "backup", key)
	_, ok = Operators{}.DefaultOperatorKey()
	assert.Check(t, !ok)
}

func TestDNFType_CheckTransition(t *testing.T) {
	tests := []struct {
		from, to DNFType
		override bool
		wantErr  bool
	}{
		{from: DNFNone, to: DNFMedical},
		{from: DNFNone, to: DNFNone},
		{from: DNFMedical, to: DNFMedical},
		{from: DNFMedical, to: DNFTimeout, wantErr: true},
		{from: DNFMedical, to: DNFNone, wantErr: true},
		{from: DNFMedical, to: DNFNone, override: true},
		{from: DNFWithdrew, to: DNFUnknown, override: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s/%v", tt.from, tt.to, tt.override), func(t *testing.T) {
			err := tt.from.CheckTransition(tt.to, tt.override)
			if tt.wantErr {
				assert.Check(t, errors.Is(err, ErrConstraintViolation))
				return
			}
			assert.NilError(t, err)
		})
	}
}

func TestParseDNFType(t *testing.T) {
	for in, want := range map[string]DNFType{
		"":         DNFNone,
		" Medical": DNFMedical,
		"timeout":  DNFTimeout,
	} {
		got, err := ParseDNFType(in)
		assert.NilError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseDNFType("lost")
	assert.Check(t, errors.Is(err, ErrInvalidFormat))
}

func TestEntryMode_UnmarshalJSON(t *testing.T) {
	var got []EntryMode
	assert.NilError(t, json.Unmarshal([]byte(`["out", 1, 2.5]`), &got))
	if diff := cmp.Diff([]EntryMode{"out", "1", "2.5"}, got); diff != "" {
		t.Errorf("EntryMode mismatch (-want +got):\n%s", diff)
	}
	assert.Check(t, errors.Is(json.Unmarshal([]byte(`[true]`), &got), ErrInvalidFormat))
}

func TestResponse(t *testing.T) {
	notFound := Failed[*Runner](fmt.Errorf("%w: runner 4", ErrNotFound))
	assert.Equal(t, StatusNotFound, notFound.Status)
	assert.Check(t, notFound.Data == nil)
	assert.Check(t, errors.Is(notFound.Err(), ErrNotFound))

	failed := Failed[int](ErrCorrupt)
	assert.Equal(t, StatusError, failed.Status)
	assert.Equal(t, "corrupt data", failed.Message)

	data, err := json.Marshal(Created(3, "3 runners imported"))
	assert.NilError(t, err)
	assert.Equal(t, `{"data":3,"status":"Created","message":"3 runners imported"}`, string(data))

	var s Status
	assert.NilError(t, json.Unmarshal([]byte(`"NotFound"`), &s))
	assert.Equal(t, StatusNotFound, s)
	assert.Check(t, json.Unmarshal([]byte(`"Maybe"`), &s) != nil)
}
