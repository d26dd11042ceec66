/*
Package control provides the two cooperative primitives a runner consumes between steps.

  - Clock: the artificial per-step delay (Tick) and the pause gate (Gate).
  - Token: a cancellation flag, observable both as a boolean and as a context.

Runners never get interrupted in the middle of a step: they only suspend inside
Gate and Tick, and only stop at the points where they check Token.Cancelled.
Cancelling a token releases a parked Gate and an in-progress Tick, so a paused
run can always be reset.
*/
package control
