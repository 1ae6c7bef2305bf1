// Package registry implements the ActorRegistry: the process-wide
// directory that allocates handles, maps names to handles, and
// orchestrates batched start/stop of ActorRunners. It is the third leaf
// of the runtime described in spec.md §4.3; task.Manager is the only
// expected caller for mutating operations, though Lookup and Enqueue are
// meant for any actor that has resolved a peer's name.
package registry
