// Package introspect provides the optional HTTP and WebSocket surface
// spec.md §6 calls out as permitted but not required: listing tasks,
// listing a task's actors with their status/queue-depth/ref-count, and a
// live-push feed of the same data over a WebSocket. It is built entirely
// on task.Manager and registry.Registry's public, read-only accessors;
// nothing here reaches into the core's internals.
package introspect
