package sorting

import (
	"context"
	"time"

	"github.com/aretw0/algoviz/pkg/control"
	"github.com/aretw0/algoviz/pkg/domain"
)

// tally is the accumulator threaded through the algorithms. It is the only state the
// algorithms mutate besides the sequence itself.
type tally struct {
	comparisons int
	swaps       int
}

// sorter binds a sequence to the stepper that paces it.
type sorter struct {
	seq    domain.Sequence
	step   *control.Stepper
	delay  time.Duration
	halted bool
}

// Run sorts seq in place with the named algorithm and returns the run statistics.
// An unknown algorithm fails with domain.ErrInvalidAlgorithm before seq is touched.
// When the token is cancelled Run returns early with the counts accumulated so far
// and RunResult.Cancelled set.
func Run(ctx context.Context, seq domain.Sequence, algorithm domain.Algorithm, opts ...Option) (domain.RunResult, error) {
	algo, err := domain.ParseAlgorithm(domain.ModeSorting, string(algorithm))
	if err != nil {
		return domain.RunResult{}, err
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &sorter{
		seq:   seq,
		step:  control.NewStepper(ctx, o.Clock, o.Token, o.OnStep),
		delay: o.Delay,
	}
	t := &tally{}

	o.Logger.Debug("sort started", "algorithm", algo, "size", len(seq), "delay", o.Delay)
	start := time.Now()

	switch algo {
	case domain.AlgorithmBubble:
		s.bubble(t)
	case domain.AlgorithmQuick:
		s.quick(t, 0, len(seq)-1)
		s.markAll(t)
	case domain.AlgorithmMerge:
		s.mergeSort(t, 0, len(seq)-1)
		s.markAll(t)
	case domain.AlgorithmHeap:
		s.heap(t)
	}

	res := domain.RunResult{
		Mode:        domain.ModeSorting,
		Algorithm:   algo,
		Comparisons: t.comparisons,
		Swaps:       t.swaps,
		Elapsed:     time.Since(start),
		Cancelled:   s.halted,
	}
	o.Logger.Debug("sort finished",
		"algorithm", algo,
		"comparisons", res.Comparisons,
		"swaps", res.Swaps,
		"cancelled", res.Cancelled,
		"steps", s.step.Steps(),
	)
	return res, nil
}

// stop is the cancellation check point.
func (s *sorter) stop() bool {
	if s.halted {
		return true
	}
	if s.step.Cancelled() {
		s.halted = true
	}
	return s.halted
}

// compare records a comparison between a and b and paces it.
func (s *sorter) compare(t *tally, a, b int) {
	t.comparisons++
	s.step.Step(s.event(t, domain.StepCompare, a, b), s.delay)
}

// swap exchanges a and b, records it and paces it.
func (s *sorter) swap(t *tally, a, b int) {
	s.seq[a], s.seq[b] = s.seq[b], s.seq[a]
	t.swaps++
	ev := s.event(t, domain.StepSwap, a, b)
	ev.Values = []int{s.seq[a], s.seq[b]}
	s.step.Step(ev, s.delay)
}

// overwrite stores v at k, records it and paces it.
func (s *sorter) overwrite(t *tally, k, v int) {
	s.seq[k] = v
	t.swaps++
	ev := s.event(t, domain.StepOverwrite, k)
	ev.Values = []int{v}
	s.step.Step(ev, s.delay)
}

// markSorted reports indices that reached their final position. It does not suspend.
func (s *sorter) markSorted(t *tally, indices ...int) {
	s.step.Notify(s.event(t, domain.StepSorted, indices...))
}

// markAll marks every index once a divide-and-conquer sort returned normally.
func (s *sorter) markAll(t *tally) {
	if s.halted || len(s.seq) == 0 {
		return
	}
	all := make([]int, len(s.seq))
	for i := range all {
		all[i] = i
	}
	s.markSorted(t, all...)
}

func (s *sorter) event(t *tally, kind domain.StepKind, indices ...int) domain.StepEvent {
	return domain.StepEvent{
		Mode:        domain.ModeSorting,
		Kind:        kind,
		Indices:     indices,
		Comparisons: t.comparisons,
		Swaps:       t.swaps,
	}
}
