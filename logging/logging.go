package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the zerolog logger used throughout xframe.
// Output is structured JSON on stdout; set PRETTY=1 for console
// output and DEBUG=1 to lower the level to debug.
func NewLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if os.Getenv("PRETTY") == "1" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if os.Getenv("DEBUG") == "1" {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	return logger
}
