package utils

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// InitLogger configures the process-wide diagnostic log. Entries go to the
// configured log file and stdout.
func InitLogger(logFile string) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetLevel(log.InfoLevel)

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.WithError(err).Warn("Failed to open log file, using stdout only")
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))
}
