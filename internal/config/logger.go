package config

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger creates a timestamped logger writing to w. An unknown level
// falls back to info and is reported as an error.
func NewLogger(w io.Writer, prefix, level string) (*log.Logger, error) {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.SetLevel(log.InfoLevel)
		return logger, err
	}
	logger.SetLevel(lvl)
	return logger, nil
}
