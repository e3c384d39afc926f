package model

import (
	"time"

	"github.com/aarondl/opt/null"
)

type Runner struct {
	Bib            int    `json:"bib"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Gender         string `json:"gender"`
	Age            int    `json:"age"`
	City           string `json:"city"`
	State          string `json:"state"`
	EmergencyName  string `json:"emergencyName"`
	EmergencyPhone string `json:"emergencyPhone"`

	DNS          bool                `json:"dns"`
	DNF          bool                `json:"dnf"`
	DNFType      DNFType             `json:"dnfType"`
	DNFStation   int                 `json:"dnfStation"` // 0 = none
	DNFTimestamp null.Val[time.Time] `json:"dnfTimestamp"`
}

// DNFChange describes a requested status change of a runner.
type DNFChange struct {
	Type      DNFType
	StationID int
	At        time.Time
	// Override allows leaving a terminal dnf state
	Override bool
}
