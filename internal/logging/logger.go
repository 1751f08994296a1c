// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Level  string
	Format string // json or console
}

// Init installs the global logger and returns it.
func Init(cfg Config) zerolog.Logger {
	return InitWithWriter(cfg, os.Stderr)
}

func InitWithWriter(cfg Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// Component returns a child of the global logger tagged with the component
// name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
