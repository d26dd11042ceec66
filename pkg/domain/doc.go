/*
Package domain contains the core domain models of the algoviz engine.

It defines the subjects the runners operate on, the events they emit and the
lifecycle of a run. This package is kept pure and free of I/O, timing and
persistence concerns, following the same Hexagonal layout as the adapters.

# Key Entities

  - Sequence: the mutable list of integers a sorting run reorders in place.
  - Grid: the immutable occupancy grid a pathfinding run explores.
  - StepEvent: a transient snapshot emitted after every atomic operation.
  - RunResult: the terminal (or partial, when cancelled) statistics of a run.
  - RunState: the controller's view of the run (idle, running, paused, ...).
*/
package domain
