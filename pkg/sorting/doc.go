// Package sorting runs bubble, quick, merge and heap sort as a sequence of observable steps.
//
// Every comparison and every write on the sequence is an atomic operation: it is
// applied, reported as a domain.StepEvent, and followed by the pause gate and the
// artificial delay of the configured control.Clock. Cancellation is checked at the
// start of every innermost-loop iteration and on entry to every recursive call.
//
// Counting conventions:
//
//   - bubble: one comparison per adjacent pair, one swap per exchange.
//   - quick:  Lomuto partition around the last element; exchanges with i == j are skipped,
//     the final pivot placement always counts.
//   - merge:  every element written back counts as an overwrite (tallied as a swap).
//   - heap:   sift-down comparisons and exchanges, plus one swap per evicted root.
package sorting
