package pipeline

import (
	"log/slog"

	"github.com/lguibr/actorkit/actor"
)

// Logger is the shared actor from spec.md's scenario S1: any number of
// tasks can name the same Logger, and it simply records every message
// handed to it through whichever structured logger it was built with.
type Logger struct {
	self actor.Handle
	name string
	log  *slog.Logger
}

// NewLogger builds a Logger that writes through log, or slog.Default()
// if log is nil.
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

func (l *Logger) SetSelf(h actor.Handle, name string, _ int64) {
	l.self = h
	l.name = name
}

func (l *Logger) Initialize() error { return nil }

func (l *Logger) Process(kind int, payload any) error {
	l.log.Info("pipeline message logged", "logger", l.name, "kind", kind, "payload", payload)
	return nil
}
