package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpapenbr/stationlog/pkg/model"
)

// Wrap converts engine errors into the model error taxonomy.
// sql.ErrNoRows becomes ErrNotFound, errors already classified are kept,
// everything else is wrapped with ErrStorage.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", model.ErrNotFound, err)
	}
	for _, known := range []error{
		model.ErrStorage, model.ErrNotFound, model.ErrCorrupt,
		model.ErrInvalidFormat, model.ErrConstraintViolation,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", model.ErrStorage, err)
}

// RowsAffected extracts the affected row count of a statement result
func RowsAffected(res sql.Result, err error) (int, error) {
	if err != nil {
		return 0, Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, Wrap(err)
	}
	return int(n), nil
}
