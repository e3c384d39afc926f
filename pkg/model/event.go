package model

import (
	"time"

	"github.com/aarondl/opt/null"
)

// Event is a recorded pass of a runner at a station
type Event struct {
	ID          int64               `json:"id"`
	Bib         int                 `json:"bib"`
	StationID   int                 `json:"stationId"`
	TimeIn      null.Val[time.Time] `json:"timeIn"`
	TimeOut     null.Val[time.Time] `json:"timeOut"`
	LastChanged time.Time           `json:"lastChanged"`
	Note        null.Val[string]    `json:"note"`
	Sent        bool                `json:"sent"`
}

// NewEvent holds the operator supplied values of an event
type NewEvent struct {
	Bib       int
	StationID int
	TimeIn    null.Val[time.Time]
	TimeOut   null.Val[time.Time]
	Note      null.Val[string]
}
