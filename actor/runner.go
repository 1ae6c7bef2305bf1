package actor

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
)

// Runner owns one actor, one mailbox, and the goroutine that drives the
// actor's lifecycle. It realizes the state machine from spec.md §4.2.4:
//
//	Ready --start/init ok--> Running --poison--> Exited
//	  |                         |
//	  |                         +--process err--> Error
//	  +--init err--> Error
//
// A Runner is created by the registry and is not meant to be
// constructed directly by user code.
type Runner struct {
	actorObj Actor
	name     string
	handle   Handle
	mailbox  *Mailbox
	status   atomic.Int32
	barrier  *initBarrier
	done     chan struct{}
	logger   *slog.Logger
}

// NewRunner builds a Runner for actorObj, already bound to handle/name.
// If actorObj implements SelfAware, SetSelf is called immediately so the
// actor knows its identity before StartThread ever calls Initialize.
func NewRunner(actorObj Actor, name string, handle Handle, deviceID int64, mailboxCapacity int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if sa, ok := actorObj.(SelfAware); ok && actorObj != nil {
		sa.SetSelf(handle, name, deviceID)
	}
	r := &Runner{
		actorObj: actorObj,
		name:     name,
		handle:   handle,
		mailbox:  NewMailbox(ClampCapacity(mailboxCapacity)),
		barrier:  newInitBarrier(),
		done:     make(chan struct{}),
		logger:   logger,
	}
	r.status.Store(int32(StatusReady))
	return r
}

// Name returns the actor's registered name.
func (r *Runner) Name() string { return r.name }

// Handle returns the actor's assigned handle.
func (r *Runner) Handle() Handle { return r.handle }

// Status returns the runner's current lifecycle status. It is safe to
// call from any goroutine.
func (r *Runner) Status() Status { return Status(r.status.Load()) }

func (r *Runner) setStatus(s Status) { r.status.Store(int32(s)) }

// QueueSize reports the runner's mailbox depth, for introspection.
func (r *Runner) QueueSize() int { return r.mailbox.Size() }

// StartThread spawns the runner's goroutine and returns immediately. The
// goroutine calls Initialize exactly once, fulfills the init barrier,
// then loops popping envelopes until it sees the poison pill or Process
// returns an error.
func (r *Runner) StartThread() {
	go r.run()
}

func (r *Runner) run() {
	defer close(r.done)
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("actor panicked", "name", r.name, "handle", r.handle,
				"recovered", rec, "stack", string(debug.Stack()))
			r.setStatus(StatusError)
		}
	}()

	if r.actorObj == nil {
		r.barrier.fulfill(newError(CodeStartThreadFailed, "nil actor", nil))
		return
	}

	if err := r.actorObj.Initialize(); err != nil {
		r.setStatus(StatusError)
		r.barrier.fulfill(newError(CodeStartThreadFailed, fmt.Sprintf("initialize %q", r.name), err))
		return
	}

	r.setStatus(StatusRunning)
	r.barrier.fulfill(nil)

	for {
		msg := r.mailbox.BlockingPop()
		if msg.IsPoison() {
			r.setStatus(StatusExited)
			return
		}

		if err := r.actorObj.Process(msg.Kind, msg.Payload); err != nil {
			r.logger.Error("actor process failed, dropping", "name", r.name,
				"handle", r.handle, "kind", msg.Kind, "error", err)
			r.setStatus(StatusError)
			return
		}
	}
}

// WaitForInit blocks until the init barrier is fulfilled and returns nil
// on success or the *Error (Code CodeStartThreadFailed) that failed
// start-up. It is single-shot and meant to be called by exactly one
// observer; the registry serializes this on behalf of callers.
func (r *Runner) WaitForInit() error {
	return r.barrier.wait()
}

// JoinThread blocks until the runner's goroutine has terminated. It is
// idempotent: receiving from an already-closed channel returns
// immediately, so calling JoinThread after termination is always safe.
func (r *Runner) JoinThread() {
	<-r.done
}

// RequestStop transitions a Running runner to Exiting and enqueues the
// poison pill, which is always accepted even if the mailbox is
// currently full. Calling RequestStop on a runner that isn't Running is
// a no-op; StopThreads relies on this to be safe to call more than once.
func (r *Runner) RequestStop() {
	for {
		cur := Status(r.status.Load())
		if cur != StatusRunning {
			return
		}
		if r.status.CompareAndSwap(int32(StatusRunning), int32(StatusExiting)) {
			r.mailbox.TryPush(Poison())
			return
		}
	}
}

// Enqueue attempts to deliver e to this runner. Per spec.md §4.2.3: a
// non-poison envelope sent to a runner that has already reached Exited
// or Error is rejected with CodeThreadAbnormal; otherwise the envelope
// is offered to the mailbox, which reports CodeEnqueueFailed on a full
// non-poison push.
func (r *Runner) Enqueue(e Envelope) error {
	st := r.Status()
	if st.Terminal() && !e.IsPoison() {
		return newError(CodeThreadAbnormal, fmt.Sprintf("runner %q is %s", r.name, st), nil)
	}
	if !r.mailbox.TryPush(e) {
		return newError(CodeEnqueueFailed, fmt.Sprintf("mailbox full for %q", r.name), nil)
	}
	return nil
}
