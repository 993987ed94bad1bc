package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/warrior/internal/config"
)

// consoleLogger writes human-readable log lines to w.
func consoleLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(out).Level(cfg.LogLevel()).With().Timestamp().Logger()
}

// fileLogger appends JSON log lines to log.file. An empty path disables
// logging.
func fileLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	if cfg.Log.File == "" {
		return zerolog.Nop(), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return zerolog.New(f).Level(cfg.LogLevel()).With().Timestamp().Logger(), f, nil
}
