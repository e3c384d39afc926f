package util

import (
	"fmt"
	"strconv"

	"github.com/mpapenbr/stationlog/pkg/model"
)

// ParseBib parses a positive bib number
func ParseBib(arg string) (int, error) {
	bib, err := strconv.Atoi(arg)
	if err != nil || bib <= 0 {
		return 0, fmt.Errorf("%w: bib %q", model.ErrInvalidFormat, arg)
	}
	return bib, nil
}

// ParseEventIDs parses positive event ids
func ParseEventIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: event id %q", model.ErrInvalidFormat, arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
