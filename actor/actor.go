package actor

// Actor is the capability every user worker implements. Initialize runs
// exactly once on the runner's own goroutine before any message is
// processed; Process runs once per non-poison message in arrival order.
// Returning an error from either terminates the runner: Initialize's
// error fails start-up (the caller sees CodeStartThreadFailed), Process's
// error drops the runner into Status Error.
type Actor interface {
	Initialize() error
	Process(kind int, payload any) error
}

// SelfAware is an optional capability an Actor may implement to receive
// its assigned handle, name, and device identifier before Initialize is
// called. The registry type-asserts for this interface; an Actor that
// doesn't need to know its own identity is free to omit it.
//
// This is the Go-idiomatic rendering of spec.md §6's "Read-only
// accessors for its assigned handle and name, populated by the registry
// before initialize": rather than the registry reaching into private
// fields, the actor opts in to being told.
type SelfAware interface {
	SetSelf(handle Handle, name string, deviceID int64)
}
