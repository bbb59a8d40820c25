package app

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// NewLogger создаёт logrus-логгер с текстовым форматом и полными метками времени.
func NewLogger(level string, out io.Writer) (*log.Logger, error) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger.SetLevel(parsed)
	if out != nil {
		logger.SetOutput(out)
	}
	return logger, nil
}
