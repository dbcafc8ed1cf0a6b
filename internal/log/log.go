// ABOUTME: Process-wide structured logger
// ABOUTME: logrus logger with debug level toggled by SNDRELAY_DEBUG
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv enables debug logging when set to a true value
const DebugEnv = "SNDRELAY_DEBUG"

// Logger is the shared logger used by the relay, the device adapters and the programs
var Logger = New()

// New returns a new logger instance honoring DebugEnv
func New() *logrus.Logger {
	l := logrus.New()
	if debugEnabled() {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// WithSession returns an entry tagged with a stream session id
func WithSession(id string) *logrus.Entry {
	return Logger.WithField("session", id)
}

func debugEnabled() bool {
	debug, err := strconv.ParseBool(os.Getenv(DebugEnv))
	if err != nil {
		return false
	}
	return debug
}
