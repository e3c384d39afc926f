package mytypes

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aarondl/opt/null"

	"github.com/mpapenbr/stationlog/pkg/model"
)

// nested structures (station location, operators, settings values)
// are stored as JSON text columns

func EncodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeJSON reports ErrCorrupt if raw can't be decoded into T
func DecodeJSON[T any](column, raw string) (T, error) {
	var ret T
	if raw == "" {
		return ret, nil
	}
	if err := json.Unmarshal([]byte(raw), &ret); err != nil {
		return ret, fmt.Errorf("%w: column %s: %v", model.ErrCorrupt, column, err)
	}
	return ret, nil
}

// timestamps are stored as UTC unix milliseconds

func ToMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// NullToMillis converts an optional timestamp into a nullable column value
func NullToMillis(v null.Val[time.Time]) *int64 {
	t, ok := v.Get()
	if !ok {
		return nil
	}
	ms := ToMillis(t)
	return &ms
}

func NullFromMillis(ms *int64) null.Val[time.Time] {
	if ms == nil {
		return null.Val[time.Time]{}
	}
	return null.From(FromMillis(*ms))
}

// Truncate normalizes t to the storage precision
func Truncate(t time.Time) time.Time {
	return FromMillis(ToMillis(t))
}

func TruncateNull(v null.Val[time.Time]) null.Val[time.Time] {
	return NullFromMillis(NullToMillis(v))
}

func NullString(v null.Val[string]) *string {
	return v.Ptr()
}
