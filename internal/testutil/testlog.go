// Package testlog captures logx output in memory for assertions.
package testlog

import (
	"sync"

	"corporate-checkout/internal/logx"
)

// Entry is one captured log call with base and call fields merged.
type Entry struct {
	Level  string
	Msg    string
	Fields map[string]any
}

// Recorder collects entries from every logger it hands out.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func New() *Recorder { return &Recorder{} }

// Logger returns a logx.Logger that writes into r.
func (r *Recorder) Logger() logx.Logger { return &capture{rec: r} }

// Entries returns a snapshot of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Find returns the first entry matching level and msg.
func (r *Recorder) Find(level, msg string) (Entry, bool) {
	for _, e := range r.Entries() {
		if e.Level == level && e.Msg == msg {
			return e, true
		}
	}
	return Entry{}, false
}

func (r *Recorder) Has(level, msg string) bool {
	_, ok := r.Find(level, msg)
	return ok
}

// Field looks up key on the first entry with msg, at any level.
func (r *Recorder) Field(msg, key string) (any, bool) {
	for _, e := range r.Entries() {
		if e.Msg == msg {
			v, ok := e.Fields[key]
			return v, ok
		}
	}
	return nil, false
}

type capture struct {
	rec  *Recorder
	base []logx.Field
}

func (c *capture) record(level, msg string, fields []logx.Field) {
	m := make(map[string]any, len(c.base)+len(fields))
	for _, f := range c.base {
		m[f.Key] = f.Value
	}
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	c.rec.mu.Lock()
	c.rec.entries = append(c.rec.entries, Entry{Level: level, Msg: msg, Fields: m})
	c.rec.mu.Unlock()
}

func (c *capture) Debug(msg string, f ...logx.Field) { c.record("debug", msg, f) }
func (c *capture) Info(msg string, f ...logx.Field)  { c.record("info", msg, f) }
func (c *capture) Warn(msg string, f ...logx.Field)  { c.record("warn", msg, f) }
func (c *capture) Error(msg string, f ...logx.Field) { c.record("error", msg, f) }
func (c *capture) Sync() error                       { return nil }

func (c *capture) With(f ...logx.Field) logx.Logger {
	base := make([]logx.Field, 0, len(c.base)+len(f))
	base = append(base, c.base...)
	return &capture{rec: c.rec, base: append(base, f...)}
}
