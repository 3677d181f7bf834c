package app

import (
	"os"
	"time"

	"TDL/internal/config"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger. JSON to stdout by default; the
// dev env gets a human-readable console writer.
func NewLogger(cfg config.AppConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("version", cfg.Version).
		Logger()

	if cfg.Env == "dev" {
		cw := zerolog.NewConsoleWriter()
		cw.TimeFormat = time.DateTime
		cw.Out = os.Stdout
		logger = logger.Output(cw)
	}
	return logger
}
