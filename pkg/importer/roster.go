package importer

import (
	"fmt"

	"github.com/mpapenbr/stationlog/pkg/model"
)

// rosterPaths are tried in order to locate the runner collection
var rosterPaths = []string{
	"$.runners", "$.athletes", "$.startlist", "$.entries", "$.stations",
}

type runnerField int

const (
	fieldBib runnerField = iota
	fieldFirstName
	fieldLastName
	fieldGender
	fieldAge
	fieldCity
	fieldState
	fieldEmergencyName
	fieldEmergencyPhone
)

// keys are compared after normalizeKey
var runnerKeys = map[string]runnerField{
	"bib":              fieldBib,
	"bibnumber":        fieldBib,
	"bibno":            fieldBib,
	"firstname":        fieldFirstName,
	"first":            fieldFirstName,
	"lastname":         fieldLastName,
	"last":             fieldLastName,
	"gender":           fieldGender,
	"sex":              fieldGender,
	"age":              fieldAge,
	"city":             fieldCity,
	"state":            fieldState,
	"emergencyname":    fieldEmergencyName,
	"emname":           fieldEmergencyName,
	"emergencycontact": fieldEmergencyName,
	"emergencyphone":   fieldEmergencyPhone,
	"emphone":          fieldEmergencyPhone,
}

// ParseRoster parses a runner roster document.
// The whole document is validated before anything is returned.
func ParseRoster(data []byte) ([]*model.Runner, error) {
	obj, err := Parse(data)
	if err != nil {
		return nil, err
	}
	entries, err := rosterEntries(obj)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: roster must not be empty", model.ErrInvalidFormat)
	}
	ret := make([]*model.Runner, 0, len(entries))
	seen := make(map[int]int, len(entries))
	for i, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: roster entry %d is not an object",
				model.ErrInvalidFormat, i)
		}
		runner, err := toRunner(m)
		if err != nil {
			return nil, fmt.Errorf("roster entry %d: %w", i, err)
		}
		if prev, dup := seen[runner.Bib]; dup {
			return nil, fmt.Errorf("%w: bib %d used by entries %d and %d",
				model.ErrInvalidFormat, runner.Bib, prev, i)
		}
		seen[runner.Bib] = i
		ret = append(ret, runner)
	}
	return ret, nil
}

func rosterEntries(obj any) ([]any, error) {
	for _, path := range rosterPaths {
		if v, ok := lookup(obj, path); ok {
			if list, ok := v.([]any); ok {
				return list, nil
			}
			return nil, fmt.Errorf("%w: %s is not a list", model.ErrInvalidFormat, path)
		}
	}
	if list, ok := obj.([]any); ok {
		return list, nil
	}
	return nil, fmt.Errorf("%w: no runner collection found", model.ErrInvalidFormat)
}

func toRunner(m map[string]any) (*model.Runner, error) {
	runner := &model.Runner{DNFType: model.DNFNone}
	hasBib := false
	for key, value := range m {
		field, ok := runnerKeys[normalizeKey(key)]
		if !ok {
			continue
		}
		switch field {
		case fieldBib:
			bib, ok := toInt(value)
			if !ok || bib <= 0 {
				return nil, fmt.Errorf("%w: bib %v is not a positive number",
					model.ErrInvalidFormat, value)
			}
			runner.Bib = bib
			hasBib = true
		case fieldFirstName:
			runner.FirstName = toString(value)
		case fieldLastName:
			runner.LastName = toString(value)
		case fieldGender:
			runner.Gender = toString(value)
		case fieldAge:
			if value == nil || toString(value) == "" {
				continue
			}
			age, ok := toInt(value)
			if !ok || age < 0 {
				return nil, fmt.Errorf("%w: age %v is not a number", model.ErrInvalidFormat, value)
			}
			runner.Age = age
		case fieldCity:
			runner.City = toString(value)
		case fieldState:
			runner.State = toString(value)
		case fieldEmergencyName:
			runner.EmergencyName = toString(value)
		case fieldEmergencyPhone:
			runner.EmergencyPhone = toString(value)
		}
	}
	if !hasBib {
		return nil, fmt.Errorf("%w: missing bib", model.ErrInvalidFormat)
	}
	return runner, nil
}
