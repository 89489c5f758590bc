package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger. Development gets human-readable
// text at debug level; everything else emits JSON for log shippers. LOG_LEVEL
// overrides the default when set to a valid logrus level.
func NewLogger(appName, env string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if env == "development" {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if lvl, err := logrus.ParseLevel(raw); err == nil {
			log.SetLevel(lvl)
		}
	}

	log.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger ready")
	return log
}
