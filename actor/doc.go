// Package actor provides the leaf components of the actor runtime: a
// bounded mailbox with blocking receive, the Actor capability every
// user worker implements, and the ActorRunner that binds one actor
// instance to one mailbox and one goroutine.
//
// Nothing in this package knows about names, handles, or reference
// counting; that is the registry and task packages' job. actor only
// guarantees the per-runner lifecycle and delivery contract.
package actor
