package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the shared application logger. Console output, debug level
// outside production.
var Logger = newLogger(os.Getenv("ENV"))

func newLogger(environment string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	logger := zerolog.New(output).With().
		Timestamp().
		Logger()

	if environment != "production" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return logger
}
