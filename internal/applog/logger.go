package applog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the service-wide logger. JSON output so log collectors can
// index fields without parsing.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}
