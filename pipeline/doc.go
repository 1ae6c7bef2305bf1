// Package pipeline provides example actors — Producer, Processor,
// Consumer, and Logger — built entirely on the actor, registry, and task
// packages' public contracts. None of this package is part of the
// runtime's core; it exists to exercise the core end to end and to give
// task.Manager callers a ready-made starting point, the way spec.md
// describes "concrete user actors" as external collaborators the core
// merely provides enough surface for.
package pipeline
