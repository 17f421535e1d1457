package app

import (
	"io"
	"os"

	"corporate-checkout/internal/logx"
)

// NewLogger returns a JSON logger on stdout at the given level.
func NewLogger(level string) (logx.Logger, error) {
	return newLoggerTo(os.Stdout, level)
}

func newLoggerTo(w io.Writer, level string) (logx.Logger, error) {
	lvl, err := logx.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logx.NewJSON(w, lvl), nil
}
