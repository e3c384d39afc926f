package model

import (
	"fmt"
	"strings"
)

// DNFType describes why a runner left the race.
// DNFNone is the initial state, every other value is terminal.
type DNFType string

const (
	DNFNone     DNFType = "none"
	DNFWithdrew DNFType = "withdrew"
	DNFTimeout  DNFType = "timeout"
	DNFMedical  DNFType = "medical"
	DNFUnknown  DNFType = "unknown"
)

var dnfTypes = []DNFType{DNFNone, DNFWithdrew, DNFTimeout, DNFMedical, DNFUnknown}

func ParseDNFType(s string) (DNFType, error) {
	v := DNFType(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return DNFNone, nil
	}
	for _, t := range dnfTypes {
		if t == v {
			return t, nil
		}
	}
	return DNFNone, fmt.Errorf("%w: unknown dnf type %q", ErrInvalidFormat, s)
}

func (d DNFType) IsTerminal() bool {
	return d != DNFNone && d != ""
}

// CheckTransition validates a change from d to next.
// Leaving a terminal state requires override.
func (d DNFType) CheckTransition(next DNFType, override bool) error {
	if d == next {
		return nil
	}
	if d.IsTerminal() && !override {
		return fmt.Errorf("%w: runner already has dnf type %q, override required to set %q",
			ErrConstraintViolation, d, next)
	}
	return nil
}
