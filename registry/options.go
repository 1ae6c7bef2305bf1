package registry

import "log/slog"

// Options configures a Registry, mirroring the teacher's Config/
// DefaultConfig pattern for process-wide components.
type Options struct {
	// Logger receives lifecycle and failure events for every runner the
	// registry starts. A nil Logger falls back to slog.Default().
	Logger *slog.Logger

	// DefaultMailboxCapacity is used for a Params whose MailboxCapacity
	// is zero, per spec.md's OQ2: a non-zero per-actor capacity always
	// wins, and only a zero falls back to this value.
	DefaultMailboxCapacity int
}

// DefaultOptions returns the registry's out-of-the-box configuration.
func DefaultOptions() Options {
	return Options{
		Logger:                 slog.Default(),
		DefaultMailboxCapacity: 0, // 0 defers to actor.DefaultCapacity
	}
}
