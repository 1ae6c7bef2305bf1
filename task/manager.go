package task

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/lguibr/actorkit/actor"
	"github.com/lguibr/actorkit/registry"
)

// poolEntry is one live actor name in the shared pool: its registry
// handle and how many tasks currently reference it.
type poolEntry struct {
	handle   actor.Handle
	refCount int
}

// ActorStatus is a point-in-time view of one actor within a task, merging
// the pool's reference count with the registry's live status and queue
// depth. It is what the introspect package serves for a task's detail
// view.
type ActorStatus struct {
	Name     string
	Handle   actor.Handle
	Status   actor.Status
	QueueLen int
	RefCount int
}

// Manager is the TaskManager described in spec.md §4.4: it layers
// reference-counted actor sharing on top of a registry.Registry. A task
// is a named set of actor names; an actor stays alive for as long as at
// least one task names it.
//
// Manager holds a single mutex across the whole of CreateTask and
// StopTask, including the registry calls they make (which themselves
// block on init barriers and thread joins). This coarse granularity is
// deliberate — spec.md §5 calls it out as required for the ref-count
// transitions to stay correct — so an actor's Initialize or Process must
// never call back into the same Manager it is managed by.
type Manager struct {
	mu       sync.Mutex
	registry *registry.Registry
	pool     map[string]*poolEntry
	tasks    map[string]map[string]struct{}
	logger   *slog.Logger
}

// NewManager builds a Manager backed by reg. reg should not be shared
// with another Manager, since both would race over actor creation and
// ref counts without knowledge of each other.
func NewManager(reg *registry.Registry, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		registry: reg,
		pool:     make(map[string]*poolEntry),
		tasks:    make(map[string]map[string]struct{}),
		logger:   opts.Logger,
	}
}

// CreateTask creates task taskName, starting only the actors in params
// that aren't already live in the shared pool. Actor names already
// present are reused as-is — not re-initialized — and their reference
// count is bumped. On any failure the pool and registry are left exactly
// as they were before the call: reference-count bumps made for reused
// names are rolled back and no new actor is left running.
func (m *Manager) CreateTask(taskName string, params []*actor.Params) error {
	if taskName == "" {
		return actor.NewError(actor.CodeInvalidArgs, "task name must not be empty", nil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tasks[taskName]; exists {
		return actor.NewError(actor.CodeInvalidArgs, fmt.Sprintf("task %q already exists", taskName), nil)
	}

	reused := make([]string, 0, len(params))
	newParams := make([]*actor.Params, 0, len(params))
	for _, p := range params {
		if entry, ok := m.pool[p.Name]; ok {
			entry.refCount++
			reused = append(reused, p.Name)
			p.Handle = entry.handle
			continue
		}
		newParams = append(newParams, p)
	}

	if len(newParams) > 0 {
		if err := m.registry.Start(newParams); err != nil {
			for _, name := range reused {
				m.pool[name].refCount--
			}
			m.logger.Error("create_task failed starting new actors", "task", taskName, "error", err)
			return err
		}
	}

	for _, p := range newParams {
		m.pool[p.Name] = &poolEntry{handle: p.Handle, refCount: 1}
	}

	names := make(map[string]struct{}, len(params))
	for _, p := range params {
		names[p.Name] = struct{}{}
	}
	m.tasks[taskName] = names
	return nil
}

// StopTask stops task taskName: every actor name it referenced has its
// ref count decremented, and any name whose count reaches zero is
// terminated and erased from the pool before the lock is released, so a
// concurrent CreateTask can never resurrect it mid-termination. Stopping
// an unknown task returns an InvalidArgs error and is otherwise a no-op,
// matching spec.md's "purely advisory" failure behavior.
func (m *Manager) StopTask(taskName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	names, ok := m.tasks[taskName]
	if !ok {
		return actor.NewError(actor.CodeInvalidArgs, fmt.Sprintf("task %q not found", taskName), nil)
	}

	terminate := make([]actor.Handle, 0, len(names))
	for name := range names {
		entry, ok := m.pool[name]
		if !ok {
			continue
		}
		entry.refCount--
		if entry.refCount <= 0 {
			terminate = append(terminate, entry.handle)
			delete(m.pool, name)
		}
	}
	delete(m.tasks, taskName)

	if len(terminate) > 0 {
		m.registry.StopThreads(terminate)
	}
	return nil
}

// Shutdown stops every remaining task, per spec.md §4.4.3's "iterate a
// snapshot of tasks keys and invoke stop_task on each".
func (m *Manager) Shutdown() {
	m.mu.Lock()
	names := make([]string, 0, len(m.tasks))
	for name := range m.tasks {
		names = append(names, name)
	}
	m.mu.Unlock()

	for _, name := range names {
		if err := m.StopTask(name); err != nil {
			m.logger.Error("shutdown failed to stop task", "task", name, "error", err)
		}
	}
}

// ListTasks returns every live task name, sorted for stable output.
func (m *Manager) ListTasks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.tasks))
	for name := range m.tasks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ListTaskActors returns the actor names belonging to taskName, sorted,
// and whether the task exists at all.
func (m *Manager) ListTaskActors(taskName string) ([]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names, ok := m.tasks[taskName]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, true
}

// RefCount reports actorName's current reference count in the shared
// pool, and whether it is present at all.
func (m *Manager) RefCount(actorName string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.pool[actorName]
	if !ok {
		return 0, false
	}
	return entry.refCount, true
}

// TaskStatuses merges taskName's pool entries with the registry's live
// snapshot, returning one ActorStatus per actor name, sorted by name.
func (m *Manager) TaskStatuses(taskName string) ([]ActorStatus, bool) {
	m.mu.Lock()
	names, ok := m.tasks[taskName]
	if !ok {
		m.mu.Unlock()
		return nil, false
	}
	type ref struct {
		handle   actor.Handle
		refCount int
	}
	byName := make(map[string]ref, len(names))
	for n := range names {
		if entry, ok := m.pool[n]; ok {
			byName[n] = ref{handle: entry.handle, refCount: entry.refCount}
		}
	}
	m.mu.Unlock()

	snap := m.registry.Snapshot()
	byHandle := make(map[actor.Handle]registry.RunnerInfo, len(snap))
	for _, info := range snap {
		byHandle[info.Handle] = info
	}

	out := make([]ActorStatus, 0, len(byName))
	for name, r := range byName {
		info := byHandle[r.handle]
		out = append(out, ActorStatus{
			Name:     name,
			Handle:   r.handle,
			Status:   info.Status,
			QueueLen: info.QueueLen,
			RefCount: r.refCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, true
}
