// Package task implements the TaskManager: a reference-counted pool that
// lets independently-created and independently-destroyed tasks share
// individual actors. It is the root of the runtime described in spec.md
// §4.4, built entirely on top of the registry package's public contract.
package task
