package app

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ent0n29/memoir/internal/config"
)

// NewLogger builds the process logger from APP_LOG_LEVEL and APP_LOG_FORMAT.
// An unknown level falls back to info.
func NewLogger(cfg config.Config, w io.Writer) *log.Logger {
	return newLogger(w, cfg.LogLevel, cfg.LogFormat)
}

func newLogger(w io.Writer, level, format string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	formatter := log.TextFormatter
	switch format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
		Formatter:       formatter,
	})
}
