package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logrus adapts a *logrus.Entry.
type Logrus struct{ E *logrus.Entry }

// NewLogrus wraps e
func NewLogrus(e *logrus.Entry) Logrus { return Logrus{E: e} }

func (l Logrus) Debug(msg string, f Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logrus) Info(msg string, f Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logrus) Warn(msg string, f Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logrus) Error(msg string, f Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }

// NewLogrusEntry builds a text-formatted logrus entry writing to w.
func NewLogrusEntry(w io.Writer, debug bool) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return logrus.NewEntry(l)
}
