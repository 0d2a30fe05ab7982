// tracklog package is a thin wrapper around logrus.
package tracklog

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const logLevelEnvVar = "TRACKCHART_LOG_LEVEL"

// Logger is the global logger instance.
var Logger = logrus.New()

// Session identifies one run of the program in the log file.
var Session = uuid.NewString()

// Initialize (re)creates the global logger writing to logFile. The level is taken
// from TRACKCHART_LOG_LEVEL when set, info otherwise.
func Initialize(logFile string) error {
	l := logrus.New()

	// #nosec G304
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", logFile, err)
	}

	l.Out = file
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	Logger = l

	if lvl := strings.TrimSpace(os.Getenv(logLevelEnvVar)); lvl != "" {
		if err := SetLevel(lvl); err != nil {
			Logger.Warnf("Ignoring %s: %v", logLevelEnvVar, err)
		}
	}
	return nil
}

// SetLevel changes the level of the global logger. An unknown level leaves the
// current level untouched.
func SetLevel(name string) error {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	Logger.SetLevel(lvl)
	return nil
}

// WithSession returns an entry tagged with the session id.
func WithSession() *logrus.Entry {
	return Logger.WithField("session", Session)
}
