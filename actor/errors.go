package actor

import "fmt"

// Code is the runtime's closed error taxonomy. Every operation that can
// fail returns one of these instead of an ad-hoc error value, so callers
// can branch on errors.Is against the sentinels below.
type Code int

const (
	// CodeOK is not used as an error; it exists so Code has a defined
	// zero-adjacent success member for callers that store a Code
	// alongside an error.
	CodeOK Code = iota
	// CodeError is the generic fall-through failure.
	CodeError
	// CodeInvalidArgs means a precondition on inputs was violated, e.g.
	// an empty name.
	CodeInvalidArgs
	// CodeAlreadyInited means configure/initialize was invoked twice on
	// the same actor.
	CodeAlreadyInited
	// CodeThreadAbnormal means enqueue was attempted on a runner that has
	// already reached Exited or Error with a non-poison envelope.
	CodeThreadAbnormal
	// CodeEnqueueFailed means the mailbox was full at the time of
	// TryPush.
	CodeEnqueueFailed
	// CodeStartThreadFailed means the actor's Initialize returned an
	// error, or the init barrier otherwise resolved with failure.
	CodeStartThreadFailed
	// CodeDestInvalid means the destination handle was zero, negative,
	// or beyond the registry's range.
	CodeDestInvalid
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeError:
		return "Error"
	case CodeInvalidArgs:
		return "InvalidArgs"
	case CodeAlreadyInited:
		return "AlreadyInited"
	case CodeThreadAbnormal:
		return "ThreadAbnormal"
	case CodeEnqueueFailed:
		return "EnqueueFailed"
	case CodeStartThreadFailed:
		return "StartThreadFailed"
	case CodeDestInvalid:
		return "ErrorDestInvalid"
	default:
		return "Unknown"
	}
}

// Error wraps a Code with context and, optionally, the error that caused
// it (an actor's Initialize/Process failure, for instance).
type Error struct {
	Code   Code
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("actor: %s: %s: %v", e.Code, e.Detail, e.Cause)
	}
	if e.Detail != "" {
		return fmt.Sprintf("actor: %s: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("actor: %s", e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrEnqueueFailed) and friends work against the
// sentinel values below without requiring an exact pointer match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newError(code Code, detail string, cause error) *Error {
	return &Error{Code: code, Detail: detail, Cause: cause}
}

// NewError builds an *Error for the given code. It is exported so the
// registry and task packages can report failures using this package's
// taxonomy without duplicating it.
func NewError(code Code, detail string, cause error) *Error {
	return newError(code, detail, cause)
}

// Sentinel errors, one per Code, for use with errors.Is. They carry no
// detail or cause; newError produces the rich variants actually returned
// from the runtime.
var (
	ErrGeneric           = &Error{Code: CodeError}
	ErrInvalidArgs       = &Error{Code: CodeInvalidArgs}
	ErrAlreadyInited     = &Error{Code: CodeAlreadyInited}
	ErrThreadAbnormal    = &Error{Code: CodeThreadAbnormal}
	ErrEnqueueFailed     = &Error{Code: CodeEnqueueFailed}
	ErrStartThreadFailed = &Error{Code: CodeStartThreadFailed}
	ErrDestInvalid       = &Error{Code: CodeDestInvalid}
)
