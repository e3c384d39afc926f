package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/opt/null"

	"github.com/mpapenbr/stationlog/pkg/model"
)

// accepted layouts for timestamps in station files.
// Values without zone are taken as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// timeValue is a timestamp given as text or as unix milliseconds.
// Empty text is treated as missing.
type timeValue struct {
	t   time.Time
	set bool
}

func (v *timeValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return v.parse(s)
	}
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("%w: timestamp %s", model.ErrInvalidFormat, string(data))
	}
	v.t = time.UnixMilli(ms).UTC()
	v.set = true
	return nil
}

func (v *timeValue) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			v.t = t.UTC()
			v.set = true
			return nil
		}
	}
	return fmt.Errorf("%w: timestamp %q", model.ErrInvalidFormat, s)
}

func toTime(v *timeValue) null.Val[time.Time] {
	if v == nil || !v.set {
		return null.Val[time.Time]{}
	}
	return null.From(v.t)
}

// ParseTime parses s with the layouts accepted in station files or as
// unix milliseconds. Empty input yields a null value.
func ParseTime(s string) (null.Val[time.Time], error) {
	var v timeValue
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return null.From(time.UnixMilli(ms).UTC()), nil
	}
	if err := v.parse(s); err != nil {
		return null.Val[time.Time]{}, err
	}
	return toTime(&v), nil
}
