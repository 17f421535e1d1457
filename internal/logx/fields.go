package logx

import "time"

// Field is one key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func field(key string, v any) Field { return Field{Key: key, Value: v} }

// Any wraps a value of any type.
func Any(key string, value any) Field { return field(key, value) }

// String wraps a string.
func String(key, value string) Field { return field(key, value) }

// Int wraps an int.
func Int(key string, value int) Field { return field(key, value) }

// Int64 wraps an int64, e.g. money in minor units.
func Int64(key string, value int64) Field { return field(key, value) }

// Bool wraps a bool.
func Bool(key string, value bool) Field { return field(key, value) }

// Time wraps a timestamp.
func Time(key string, value time.Time) Field { return field(key, value) }

// Duration wraps a duration.
func Duration(key string, value time.Duration) Field { return field(key, value) }

// Err puts err under the "error" key.
func Err(err error) Field { return field("error", err) }
