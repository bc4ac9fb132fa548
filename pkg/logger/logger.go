package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the application logger used by handlers and middleware.
// It is usable before InitLogger is called so tests don't need to set it up.
var Log = logrus.New()

// InitLogger configures Log and the logrus standard logger the same way:
// JSON to stdout at the given level. Unknown levels fall back to info.
func InitLogger(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	for _, l := range []*logrus.Logger{Log, logrus.StandardLogger()} {
		// Output to stdout instead of the default stderr
		l.Out = os.Stdout
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(lvl)
	}

	if err != nil && level != "" {
		Log.WithField("level", level).Warn("Unknown log level, using info")
	}
}
