package actor

// poisonKind is a sentinel Kind value no legitimate message may use; it
// marks an Envelope as the poison pill that terminates a runner's
// message loop. Reserving the single value -1 keeps Kind a plain int (no
// wrapper type) for the common case while still making the poison pill a
// "dedicated variant" per spec.md's poison-pill realization note. Enqueue
// does not reject it, so any envelope sent with Kind -1 is treated as the
// poison pill.
const poisonKind = -1

// Envelope is the per-message tuple the spec calls the message
// envelope: a destination handle, a kind the receiving actor uses to
// discriminate the payload's concrete type, and the payload itself.
// Envelopes are cheap to copy; Payload is carried by interface value,
// so copying an Envelope never deep-copies the payload it points at.
type Envelope struct {
	Dest    Handle
	Kind    int
	Payload any
}

// Poison returns the sentinel envelope that instructs a runner to drain
// its current work and exit its message loop. It is always accepted by
// Mailbox.TryPush even when the mailbox is at capacity.
func Poison() Envelope {
	return Envelope{Kind: poisonKind}
}

// IsPoison reports whether e is the poison pill.
func (e Envelope) IsPoison() bool { return e.Kind == poisonKind }
