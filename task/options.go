package task

import "log/slog"

// Options configures a Manager.
type Options struct {
	// Logger receives a line whenever CreateTask fails because the
	// registry could not start its new actors, naming the registry error
	// that caused it, per spec.md §7's permission for TaskManager to log
	// its boolean failures. Other CreateTask/StopTask failures are only
	// returned, not logged.
	Logger *slog.Logger
}

// DefaultOptions returns the manager's out-of-the-box configuration.
func DefaultOptions() Options {
	return Options{Logger: slog.Default()}
}
