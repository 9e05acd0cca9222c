// Package log provides the small logging seam used throughout the agent.
//
// The correlator and recorder never import logrus directly; they take a
// FieldLogger so the backend can be swapped (the teacher repo this is
// modeled on keeps the same seam in its own internal/log package, backed
// by the standard logger there instead).
package log

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// FieldLogger is the logging interface consumed by the rest of the agent.
// *logrus.Logger and *logrus.Entry both satisfy it.
type FieldLogger interface {
	WithField(key string, value interface{}) *logrus.Entry
	WithFields(fields logrus.Fields) *logrus.Entry
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

var (
	mu      sync.RWMutex
	current FieldLogger = newDefault()
)

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetOutput redirects the default logger's output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := current.(*logrus.Logger); ok {
		l.SetOutput(w)
		return
	}
	l := newDefault()
	l.SetOutput(w)
	current = l
}

// SetLogger replaces the package-level logger. Intended for host
// applications that want to route agent logs into their own pipeline.
func SetLogger(l FieldLogger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		current = newDefault()
		return
	}
	current = l
}

// SetLevel adjusts the verbosity of the default logrus-backed logger.
func SetLevel(level logrus.Level) {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := current.(*logrus.Logger); ok {
		l.SetLevel(level)
	}
}

// Get returns the current package-level logger.
func Get() FieldLogger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Discard silences the default logger; useful in tests.
func Discard() {
	SetOutput(io.Discard)
}

// NewEntry is a convenience for attaching structured fields before a
// single log call, e.g. log.NewEntry("pid", 100).Warnf("dropped event")
func NewEntry(key string, value interface{}) *logrus.Entry {
	return Get().WithField(key, value)
}

func init() {
	if os.Getenv("NANOLITE_DEBUG") != "" {
		SetLevel(logrus.DebugLevel)
	}
}
