package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/lguibr/actorkit/actor"
)

// slot is one entry in the registry's dense handle vector. Index 0 is the
// reserved main placeholder and always has a nil runner.
type slot struct {
	name   string
	runner *actor.Runner
}

// RunnerInfo is a read-only snapshot of one runner, for introspection
// callers (task.Manager.TaskStatuses, which the introspect package serves)
// that need a point-in-time view without holding the registry's lock.
type RunnerInfo struct {
	Handle   actor.Handle
	Name     string
	Status   actor.Status
	QueueLen int
}

// Registry is the ActorRegistry described in spec.md §4.3: a process-wide
// directory that allocates dense, non-reusable handles, maps names to
// handles, and batch-starts or batch-stops the runners it owns.
//
// Registry is safe for concurrent Lookup, Enqueue, Snapshot, and StatusOf
// calls made while a Start or StopThreads is in flight. It is NOT safe for
// two Start calls to run concurrently with each other on the same
// Registry: task.Manager is the intended caller and serializes all of its
// calls into Start behind its own mutex, so this is not a restriction in
// practice.
type Registry struct {
	mu      sync.RWMutex
	entries []slot
	names   map[string]actor.Handle

	logger                 *slog.Logger
	defaultMailboxCapacity int
}

// New builds an empty Registry with entry 0 reserved for actor.MainName.
func New(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Registry{
		entries:                []slot{{name: actor.MainName}},
		names:                  map[string]actor.Handle{actor.MainName: actor.MainHandle},
		logger:                 opts.Logger,
		defaultMailboxCapacity: opts.DefaultMailboxCapacity,
	}
}

// validateNames rejects an empty name, the reserved main name, a name
// already registered, and a name repeated within the same batch. It must
// be called with r.mu held.
func (r *Registry) validateNames(params []*actor.Params) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p.Name == "" {
			return actor.NewError(actor.CodeInvalidArgs, "actor name must not be empty", nil)
		}
		if p.Name == actor.MainName {
			return actor.NewError(actor.CodeInvalidArgs, fmt.Sprintf("name %q is reserved", actor.MainName), nil)
		}
		if _, exists := r.names[p.Name]; exists {
			return actor.NewError(actor.CodeInvalidArgs, fmt.Sprintf("actor name %q is already registered", p.Name), nil)
		}
		if seen[p.Name] {
			return actor.NewError(actor.CodeInvalidArgs, fmt.Sprintf("duplicate actor name %q in the same start batch", p.Name), nil)
		}
		seen[p.Name] = true
	}
	return nil
}

// Start allocates a handle for each entry in params, spawns its runner,
// and waits for every new runner to clear its init barrier. params[i].
// Handle is filled in on success.
//
// If any name is invalid, a duplicate of an existing name, or a duplicate
// within the batch, nothing is created and the registry is left
// unchanged. If any new runner's Initialize fails, every runner created
// during this call is stopped and joined, the whole batch is removed from
// the name index, its slots are emptied (their handles stay allocated and
// are never handed out again), and the first failure is returned —
// matching the all-or-nothing create_task semantics the task.Manager pool
// relies on.
func (r *Registry) Start(params []*actor.Params) error {
	r.mu.Lock()
	if err := r.validateNames(params); err != nil {
		r.mu.Unlock()
		return err
	}

	origLen := len(r.entries)
	created := make([]*actor.Runner, 0, len(params))
	for _, p := range params {
		handle := actor.Handle(len(r.entries))
		capacity := p.MailboxCapacity
		if capacity == 0 {
			capacity = r.defaultMailboxCapacity
		}
		runner := actor.NewRunner(p.Actor, p.Name, handle, p.DeviceID, capacity, r.logger)
		r.entries = append(r.entries, slot{name: p.Name, runner: runner})
		r.names[p.Name] = handle
		p.Handle = handle
		created = append(created, runner)
	}
	r.mu.Unlock()

	for _, ru := range created {
		ru.StartThread()
	}

	var initErr error
	for _, ru := range created {
		if err := ru.WaitForInit(); err != nil && initErr == nil {
			initErr = err
		}
	}
	if initErr == nil {
		return nil
	}

	r.rollback(created, origLen)
	return initErr
}

// rollback stops and joins every runner created by a failed Start call,
// then removes them from the name index and empties their slots. The
// handle vector keeps its length, so the rolled-back handles are not
// reused by a later Start.
func (r *Registry) rollback(created []*actor.Runner, origLen int) {
	for _, ru := range created {
		ru.RequestStop()
	}
	for _, ru := range created {
		ru.JoinThread()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ru := range created {
		delete(r.names, ru.Name())
	}
	for i := origLen; i < len(r.entries); i++ {
		r.entries[i].runner = nil
	}
}

// runnerAt returns the runner for h, or nil if h is out of range or the
// reserved main handle. Callers must hold r.mu (read or write).
func (r *Registry) runnerAt(h actor.Handle) *actor.Runner {
	if h <= actor.MainHandle || int(h) >= len(r.entries) {
		return nil
	}
	return r.entries[h].runner
}

// StopThreads requests termination of every handle in handles and waits
// for all of them to exit. Unknown handles are skipped. Calling
// StopThreads twice on the same handle, or concurrently with another
// caller, is safe: RequestStop and JoinThread are both idempotent.
//
// Once joined, each stopped runner's name is removed from the name index,
// so Lookup no longer resolves it and the name may be started again. The
// handle itself stays allocated: StatusOf still reports the terminated
// runner and Enqueue to it fails with ErrThreadAbnormal.
func (r *Registry) StopThreads(handles []actor.Handle) {
	r.mu.RLock()
	runners := make([]*actor.Runner, 0, len(handles))
	for _, h := range handles {
		if ru := r.runnerAt(h); ru != nil {
			runners = append(runners, ru)
		}
	}
	r.mu.RUnlock()

	for _, ru := range runners {
		ru.RequestStop()
	}
	for _, ru := range runners {
		ru.JoinThread()
	}

	r.mu.Lock()
	for _, ru := range runners {
		if r.names[ru.Name()] == ru.Handle() {
			delete(r.names, ru.Name())
		}
	}
	r.mu.Unlock()
}

// Lookup resolves name to its handle, or actor.InvalidHandle if no actor
// is registered under that name.
func (r *Registry) Lookup(name string) actor.Handle {
	if name == "" {
		return actor.InvalidHandle
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.names[name]
	if !ok {
		return actor.InvalidHandle
	}
	return h
}

// NameOf is the inverse of Lookup, for introspection and logging.
func (r *Registry) NameOf(h actor.Handle) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h <= 0 || int(h) >= len(r.entries) {
		return "", false
	}
	return r.entries[h].name, true
}

// Enqueue delivers an envelope of kind carrying payload to dest. It
// returns actor.ErrDestInvalid if dest doesn't name a live slot, and
// otherwise defers to the runner's own Enqueue, which may itself fail
// with ErrThreadAbnormal or ErrEnqueueFailed.
func (r *Registry) Enqueue(dest actor.Handle, kind int, payload any) error {
	r.mu.RLock()
	ru := r.runnerAt(dest)
	r.mu.RUnlock()
	if ru == nil {
		return actor.NewError(actor.CodeDestInvalid, fmt.Sprintf("no actor at handle %s", dest), nil)
	}
	return ru.Enqueue(actor.Envelope{Dest: dest, Kind: kind, Payload: payload})
}

// StatusOf reports h's current lifecycle status and whether h resolves to
// a live slot at all. pipeline actors use this to notice their own
// termination and stop self-spawned background work; see pipeline.Producer.
func (r *Registry) StatusOf(h actor.Handle) (actor.Status, bool) {
	r.mu.RLock()
	ru := r.runnerAt(h)
	r.mu.RUnlock()
	if ru == nil {
		return 0, false
	}
	return ru.Status(), true
}

// Snapshot returns a point-in-time view of every runner still registered
// under its name, skipping the reserved main slot, runners removed by
// StopThreads, and slots emptied by a failed Start. task.Manager's
// TaskStatuses builds on it.
func (r *Registry) Snapshot() []RunnerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RunnerInfo, 0, len(r.entries)-1)
	for h := 1; h < len(r.entries); h++ {
		s := r.entries[h]
		if s.runner == nil || r.names[s.name] != actor.Handle(h) {
			continue
		}
		out = append(out, RunnerInfo{
			Handle:   actor.Handle(h),
			Name:     s.name,
			Status:   s.runner.Status(),
			QueueLen: s.runner.QueueSize(),
		})
	}
	return out
}

// Shutdown stops and joins every runner the registry owns and resets it
// to its empty state. It is meant for process teardown; a Registry is
// reusable afterward.
func (r *Registry) Shutdown() {
	r.mu.RLock()
	handles := make([]actor.Handle, 0, len(r.entries)-1)
	for h := 1; h < len(r.entries); h++ {
		handles = append(handles, actor.Handle(h))
	}
	r.mu.RUnlock()

	r.StopThreads(handles)

	r.mu.Lock()
	r.entries = r.entries[:1]
	r.names = map[string]actor.Handle{actor.MainName: actor.MainHandle}
	r.mu.Unlock()
}
