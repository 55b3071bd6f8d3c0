// Package log provides loggers for render contexts and backends.
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv is the environment variable that enables debug logging.
const DebugEnv = "RENDER_DEBUG"

var debug bool

// Logger is a global interface for render loggers
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv(DebugEnv))
	if err != nil {
		debug = false
	}
}

// GetLogger returns a new logger instance
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// WithFields returns l annotated with fields if l is a logrus logger.
// Other loggers are returned as is.
func WithFields(l Logger, fields logrus.Fields) Logger {
	switch fl := l.(type) {
	case logrus.FieldLogger:
		return fl.WithFields(fields)
	default:
		return l
	}
}

// Discard returns a logger that drops all entries.
func Discard() Logger {
	return discard{}
}

type discard struct{}

func (discard) Debug(...interface{}) {}
func (discard) Info(...interface{})  {}
