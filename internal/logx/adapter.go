package logx

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// SlogAdapter implements Logger on top of *slog.Logger.
type SlogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter wraps l.
func NewSlogAdapter(l *slog.Logger) Logger {
	return &SlogAdapter{l: l}
}

// NewJSON returns a Logger writing JSON lines to w at level and above.
func NewJSON(w io.Writer, level slog.Level) Logger {
	return NewSlogAdapter(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

func (s *SlogAdapter) Debug(msg string, fields ...Field) { s.log(slog.LevelDebug, msg, fields) }
func (s *SlogAdapter) Info(msg string, fields ...Field)  { s.log(slog.LevelInfo, msg, fields) }
func (s *SlogAdapter) Warn(msg string, fields ...Field)  { s.log(slog.LevelWarn, msg, fields) }
func (s *SlogAdapter) Error(msg string, fields ...Field) { s.log(slog.LevelError, msg, fields) }

// With returns a child logger carrying fields on every entry.
func (s *SlogAdapter) With(fields ...Field) Logger {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, toAttr(f))
	}
	return &SlogAdapter{l: s.l.With(args...)}
}

// Sync is a no-op; slog handlers write synchronously.
func (s *SlogAdapter) Sync() error { return nil }

func (s *SlogAdapter) log(level slog.Level, msg string, fields []Field) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, toAttr(f))
	}
	s.l.LogAttrs(ctx, level, msg, attrs...)
}

func toAttr(f Field) slog.Attr {
	switch v := f.Value.(type) {
	case string:
		return slog.String(f.Key, v)
	case int:
		return slog.Int(f.Key, v)
	case int64:
		return slog.Int64(f.Key, v)
	case bool:
		return slog.Bool(f.Key, v)
	case time.Duration:
		return slog.String(f.Key, v.String())
	case time.Time:
		return slog.Time(f.Key, v)
	case error:
		return slog.String(f.Key, v.Error())
	default:
		return slog.Any(f.Key, v)
	}
}
