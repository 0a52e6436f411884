// Package logging configures the process-wide structured logger.
package logging

import (
	"time"

	"github.com/sirupsen/logrus"
)

// New builds a JSON logger so scheduled and triggered runs are greppable in
// aggregated logs. verbose lowers the level to debug.
func New(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	log.SetLevel(logrus.InfoLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
