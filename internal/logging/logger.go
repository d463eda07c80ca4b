package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/config"
)

// New constructs a zerolog logger from the log config.
// Defaults to JSON at info level on stdout when fields are empty or unknown.
func New(cfg config.LogConfig, env string) zerolog.Logger {
	return NewWithWriter(cfg, env, os.Stdout)
}

// NewWithWriter is New with an explicit output, used by tests.
func NewWithWriter(cfg config.LogConfig, env string, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	if strings.ToLower(strings.TrimSpace(cfg.Format)) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", "shareit").
		Str("env", env).
		Logger()
}
