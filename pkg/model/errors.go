package model

import "errors"

var (
	// ErrStorage wraps engine level failures (I/O, constraints, locking).
	ErrStorage = errors.New("storage error")
	// ErrNotFound signals a lookup miss.
	ErrNotFound = errors.New("not found")
	// ErrInvalidFormat is returned for malformed import documents or arguments.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrCorrupt is returned when stored nested data can't be decoded.
	ErrCorrupt = errors.New("corrupt data")
	// ErrConstraintViolation is returned when an operation would break an
	// invariant, for example leaving a station without an active operator.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrAlreadyLoaded is returned by imports running with the reject policy.
	ErrAlreadyLoaded = errors.New("already loaded")
)
