package model

import (
	"time"

	"github.com/aarondl/opt/null"
)

// Session describes which station and operator this instance acts as.
// It is passed explicitly to operations that need the active station.
type Session struct {
	Identifier string              `json:"identifier"`
	StationID  int                 `json:"stationId"`
	Name       string              `json:"name"`
	EntryMode  EntryMode           `json:"entryMode"`
	ShiftBegin null.Val[time.Time] `json:"shiftBegin"`
	CutoffTime null.Val[time.Time] `json:"cutoffTime"`
	ShiftEnd   null.Val[time.Time] `json:"shiftEnd"`
	Operators  Operators           `json:"operators"`
}

func (s *Session) ActiveOperator() (key string, op Operator, ok bool) {
	return s.Operators.Active()
}
