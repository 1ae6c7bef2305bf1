package task

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lguibr/actorkit/actor"
	"github.com/lguibr/actorkit/registry"
)

// plainActor is the minimal actor used by tests that only care about
// lifecycle and sharing, not message content.
type plainActor struct {
	initErr error
}

func (a *plainActor) Initialize() error      { return a.initErr }
func (a *plainActor) Process(int, any) error { return nil }

// gatedActor blocks in Process until release is closed, letting tests
// build the "slow process holding a full mailbox" scenarios (S3, S6).
type gatedActor struct {
	release chan struct{}
}

func (a *gatedActor) Initialize() error { return nil }
func (a *gatedActor) Process(int, any) error {
	<-a.release
	return nil
}

func newManager(t *testing.T) (*Manager, *registry.Registry) {
	t.Helper()
	reg := registry.New(registry.DefaultOptions())
	return NewManager(reg, DefaultOptions()), reg
}

func TestManager_CreateTaskRejectsEmptyName(t *testing.T) {
	m, _ := newManager(t)
	err := m.CreateTask("", []*actor.Params{{Actor: &plainActor{}, Name: "a"}})
	assert.True(t, errors.Is(err, actor.ErrInvalidArgs))
}

func TestManager_CreateTaskRejectsDuplicateTaskName(t *testing.T) {
	m, _ := newManager(t)
	require.NoError(t, m.CreateTask("T", []*actor.Params{{Actor: &plainActor{}, Name: "a"}}))

	err := m.CreateTask("T", []*actor.Params{{Actor: &plainActor{}, Name: "b"}})
	assert.True(t, errors.Is(err, actor.ErrInvalidArgs))

	m.Shutdown()
}

// TestManager_SharedActorLifecycle is scenario S1 from spec.md §8.
func TestManager_SharedActorLifecycle(t *testing.T) {
	m, reg := newManager(t)

	require.NoError(t, m.CreateTask("A", []*actor.Params{
		{Actor: &plainActor{}, Name: "Producer-A"},
		{Actor: &plainActor{}, Name: "Logger"},
	}))
	require.NoError(t, m.CreateTask("B", []*actor.Params{
		{Actor: &plainActor{}, Name: "Consumer-B"},
		{Actor: &plainActor{}, Name: "Logger"},
	}))

	rc, ok := m.RefCount("Logger")
	require.True(t, ok)
	assert.Equal(t, 2, rc)
	assert.NotEqual(t, actor.InvalidHandle, reg.Lookup("Logger"))

	require.NoError(t, m.StopTask("A"))
	_, stillPooled := m.RefCount("Producer-A")
	assert.False(t, stillPooled, "Producer-A must be gone once its only task stops")
	rc, ok = m.RefCount("Logger")
	require.True(t, ok)
	assert.Equal(t, 1, rc)
	status, ok := reg.StatusOf(reg.Lookup("Logger"))
	require.True(t, ok)
	assert.Equal(t, actor.StatusRunning, status)

	require.NoError(t, m.StopTask("B"))
	_, ok = m.RefCount("Logger")
	assert.False(t, ok)
	assert.Equal(t, actor.InvalidHandle, reg.Lookup("Logger"))
}

// TestManager_CreateTaskRollsBackRefCountsOnFailure is scenario S5,
// wired through create_task rather than registry.Start directly.
func TestManager_CreateTaskRollsBackRefCountsOnFailure(t *testing.T) {
	m, _ := newManager(t)

	require.NoError(t, m.CreateTask("A", []*actor.Params{{Actor: &plainActor{}, Name: "Shared"}}))
	rc, _ := m.RefCount("Shared")
	require.Equal(t, 1, rc)

	err := m.CreateTask("B", []*actor.Params{
		{Actor: &plainActor{}, Name: "Shared"},
		{Actor: &plainActor{initErr: errors.New("boom")}, Name: "Bad"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, actor.ErrStartThreadFailed))

	rc, ok := m.RefCount("Shared")
	require.True(t, ok)
	assert.Equal(t, 1, rc, "the ref-count bump from the failed batch must be reverted")
	_, ok = m.RefCount("Bad")
	assert.False(t, ok)

	_, taskExists := m.ListTaskActors("B")
	assert.False(t, taskExists)

	m.Shutdown()
}

// TestManager_StopTaskTwice is L2 from spec.md §8: (true, false).
func TestManager_StopTaskTwice(t *testing.T) {
	m, _ := newManager(t)
	require.NoError(t, m.CreateTask("T", []*actor.Params{{Actor: &plainActor{}, Name: "a"}}))

	require.NoError(t, m.StopTask("T"))
	err := m.StopTask("T")
	assert.True(t, errors.Is(err, actor.ErrInvalidArgs))
}

// TestManager_CreateThenStopRestoresPreCallState is L1.
func TestManager_CreateThenStopRestoresPreCallState(t *testing.T) {
	m, reg := newManager(t)

	require.NoError(t, m.CreateTask("T", []*actor.Params{
		{Actor: &plainActor{}, Name: "a"},
		{Actor: &plainActor{}, Name: "b"},
	}))
	require.NoError(t, m.StopTask("T"))

	assert.Empty(t, m.ListTasks())
	assert.Equal(t, actor.InvalidHandle, reg.Lookup("a"))
	assert.Equal(t, actor.InvalidHandle, reg.Lookup("b"))
	assert.Empty(t, reg.Snapshot())
}

// TestManager_TwoTasksShareThenDiverge is L3.
func TestManager_TwoTasksShareThenDiverge(t *testing.T) {
	m, reg := newManager(t)

	require.NoError(t, m.CreateTask("T1", []*actor.Params{{Actor: &plainActor{}, Name: "A"}}))
	require.NoError(t, m.CreateTask("T2", []*actor.Params{{Actor: &plainActor{}, Name: "A"}}))

	require.NoError(t, m.StopTask("T1"))
	status, ok := reg.StatusOf(reg.Lookup("A"))
	require.True(t, ok)
	assert.Equal(t, actor.StatusRunning, status, "A must still be running while T2 holds it")

	require.NoError(t, m.StopTask("T2"))
	assert.Equal(t, actor.InvalidHandle, reg.Lookup("A"))
}

// TestManager_BackPressureThenRecover is scenario S3.
func TestManager_BackPressureThenRecover(t *testing.T) {
	m, _ := newManager(t)
	gate := &gatedActor{release: make(chan struct{})}

	require.NoError(t, m.CreateTask("T", []*actor.Params{
		{Actor: gate, Name: "slow", MailboxCapacity: 1},
	}))

	names, ok := m.ListTaskActors("T")
	require.True(t, ok)
	require.Len(t, names, 1)

	statuses, ok := m.TaskStatuses("T")
	require.True(t, ok)
	handle := statuses[0].Handle

	reg := m.registry
	require.NoError(t, reg.Enqueue(handle, 1, "first")) // picked up, blocks in Process
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, reg.Enqueue(handle, 2, "second")) // fills the 1-slot mailbox
	err := reg.Enqueue(handle, 3, "third")
	assert.True(t, errors.Is(err, actor.ErrEnqueueFailed))

	close(gate.release)
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, reg.Enqueue(handle, 4, "fourth"), "mailbox must have room again after the slow process drains")

	m.Shutdown()
}

// TestManager_StopTaskTerminatesDespiteFullMailbox is scenario S6.
func TestManager_StopTaskTerminatesDespiteFullMailbox(t *testing.T) {
	m, _ := newManager(t)
	blocked := make(chan struct{})
	blockingGate := &gatedActor{release: blocked}

	require.NoError(t, m.CreateTask("T", []*actor.Params{
		{Actor: blockingGate, Name: "slow", MailboxCapacity: 1},
	}))

	statuses, ok := m.TaskStatuses("T")
	require.True(t, ok)
	handle := statuses[0].Handle

	reg := m.registry
	require.NoError(t, reg.Enqueue(handle, 1, "first")) // picked up, blocks forever until we close `blocked`
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, reg.Enqueue(handle, 2, "second")) // mailbox now full

	done := make(chan struct{})
	go func() {
		_ = m.StopTask("T")
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("StopTask returned before the in-flight process() unblocked")
	case <-time.After(20 * time.Millisecond):
	}

	close(blocked)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StopTask did not return after the mailbox drained")
	}
}
