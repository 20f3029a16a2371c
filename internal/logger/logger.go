// Package logger provides structured logging for the detector services.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logrus logger at the requested level. Output is JSON in
// production so log aggregation can index the analysis fields; local runs get
// colored text.
func NewLogger(logLevel string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if os.Getenv("FOOTY_VALUE_APP_ENVIRONMENT") == "production" ||
		os.Getenv("ENVIRONMENT") == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return log
}
