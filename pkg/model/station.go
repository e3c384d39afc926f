package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/opt/null"
)

const PrimaryOperator = "primary"

type (
	Location struct {
		Latitude  float64  `json:"latitude"`
		Longitude float64  `json:"longitude"`
		Elevation *float64 `json:"elevation,omitempty"`
	}
	Operator struct {
		FullName string `json:"fullname"`
		Callsign string `json:"callsign"`
		Phone    string `json:"phone"`
		Active   bool   `json:"active"`
	}
	// Operators maps the operator key (e.g. "primary") to the operator
	Operators map[string]Operator

	// EntryMode describes how times are captured at a station.
	// Station files carry either a number or a name.
	EntryMode string

	//nolint:tagliatelle // station file format
	Station struct {
		Name        string              `json:"name"`
		Identifier  string              `json:"identifier"`
		Description string              `json:"description"`
		Location    Location            `json:"location"`
		Distance    float64             `json:"distance"`
		Dropbags    bool                `json:"dropbags"`
		CrewAccess  bool                `json:"crewaccess"`
		PacerAccess bool                `json:"paceraccess"`
		EntryMode   EntryMode           `json:"entrymode"`
		ShiftBegin  null.Val[time.Time] `json:"shiftBegin"`
		CutoffTime  null.Val[time.Time] `json:"cutofftime"`
		ShiftEnd    null.Val[time.Time] `json:"shiftEnd"`
		Operators   Operators           `json:"operators"`
	}

	//nolint:tagliatelle // station file format
	EventInfo struct {
		Name       string              `json:"name"`
		StartTime  null.Val[time.Time] `json:"starttime"`
		EndTime    null.Val[time.Time] `json:"endtime"`
		StartLine  string              `json:"startline"`
		FinishLine string              `json:"finishline"`
	}
)

func (e *EntryMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = EntryMode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: entrymode must be a string or number", ErrInvalidFormat)
	}
	*e = EntryMode(n.String())
	return nil
}

// ParseStationID extracts the numeric station id from an identifier
// of the form <numericId>-<suffix>.
func ParseStationID(identifier string) (int, error) {
	prefix, _, found := strings.Cut(identifier, "-")
	if !found || prefix == "" {
		return 0, fmt.Errorf("%w: station identifier %q is not <id>-<suffix>",
			ErrInvalidFormat, identifier)
	}
	id, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("%w: station identifier %q has no numeric prefix",
			ErrInvalidFormat, identifier)
	}
	return id, nil
}

func (s *Station) StationID() (int, error) {
	return ParseStationID(s.Identifier)
}

// Keys returns the operator keys in lexical order
func (o Operators) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o Operators) ActiveCount() int {
	count := 0
	for _, op := range o {
		if op.Active {
			count++
		}
	}
	return count
}

// Active returns the active operator if exactly one is active
func (o Operators) Active() (key string, op Operator, ok bool) {
	if o.ActiveCount() != 1 {
		return "", Operator{}, false
	}
	for k, v := range o {
		if v.Active {
			return k, v, true
		}
	}
	return "", Operator{}, false
}

// KeyByCallsign finds the operator key for a callsign (case-insensitive)
func (o Operators) KeyByCallsign(callsign string) (string, bool) {
	for _, k := range o.Keys() {
		if strings.EqualFold(o[k].Callsign, strings.TrimSpace(callsign)) {
			return k, true
		}
	}
	return "", false
}

// WithActive returns a copy where only key is active
func (o Operators) WithActive(key string) Operators {
	ret := make(Operators, len(o))
	for k, v := range o {
		v.Active = k == key
		ret[k] = v
	}
	return ret
}

// DefaultOperatorKey is the operator activated when a station is selected:
// "primary" if present, otherwise the lexically first key.
func (o Operators) DefaultOperatorKey() (string, bool) {
	if _, ok := o[PrimaryOperator]; ok {
		return PrimaryOperator, true
	}
	keys := o.Keys()
	if len(keys) == 0 {
		return "", false
	}
	return keys[0], true
}
