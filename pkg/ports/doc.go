/*
Package ports defines the driven ports (interfaces) of the algoviz engine.

These interfaces decouple the run controller from the services around it, so the
same engine can draw its subjects from an in-process generator or a remote HTTP
service, keep them in memory or in Redis, and report steps to a terminal or a stream.

# Key Interfaces

  - Generator: produces random sequences and obstacle grids.
  - SubjectStore: keeps the current sequence and grid across restarts.
  - Renderer: observes step events and the final statistics of a run.
*/
package ports
