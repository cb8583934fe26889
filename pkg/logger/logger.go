package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger. format is "json" or "text";
// an unknown level falls back to info.
func Setup(level, format string) {
	logrus.SetOutput(os.Stdout)

	if strings.EqualFold(format, "text") {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithField("level", level).Warn("Unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
