package log

import (
	"time"

	"go.uber.org/zap"
)

var (
	String   = zap.String
	Strings  = zap.Strings
	Int      = zap.Int
	Int64    = zap.Int64
	Ints     = zap.Ints
	Bool     = zap.Bool
	Float64  = zap.Float64
	Any      = zap.Any
	Time     = zap.Time
	Duration = zap.Duration
)

func ErrorField(err error) Field {
	return zap.Error(err)
}

// Millis logs a timestamp as unix milliseconds, the storage representation
func Millis(key string, t time.Time) Field {
	return zap.Int64(key, t.UnixMilli())
}
