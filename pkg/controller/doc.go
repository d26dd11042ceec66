/*
Package controller owns the single run of an algoviz session.

A Controller holds one RunState shared by both modes, the current sequence and grid,
and at most one runner goroutine. The lifecycle is:

	idle ──Start──▶ running ⇄ paused (TogglePause)
	running|paused ──Reset──▶ cancelled ──(runner returns, subject regenerated)──▶ idle
	running|paused ──(runner returns)──▶ completed ──(OnRunFinish)──▶ idle

Start while a run is in flight toggles the pause instead of starting a second run.
Runners work on a copy of the subject; a completed sort replaces the current
sequence with its sorted copy.
*/
package controller
