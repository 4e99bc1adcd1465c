package config

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger at the configured level.
func (s Settings) NewLogger(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           s.Level(),
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}
