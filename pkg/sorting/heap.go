package sorting

// heap builds a max-heap in place, then repeatedly moves the root behind the
// shrinking heap. Every evicted index is marked sorted immediately.
func (s *sorter) heap(t *tally) {
	n := len(s.seq)
	for i := n/2 - 1; i >= 0; i-- {
		if s.stop() {
			return
		}
		s.heapify(t, n, i)
	}
	for i := n - 1; i > 0; i-- {
		if s.stop() {
			return
		}
		s.swap(t, 0, i)
		s.markSorted(t, i)
		s.heapify(t, i, 0)
	}
	if n > 0 && !s.stop() {
		s.markSorted(t, 0)
	}
}

// heapify sifts seq[i] down within the first n elements.
func (s *sorter) heapify(t *tally, n, i int) {
	if s.stop() {
		return
	}
	largest := i
	left, right := 2*i+1, 2*i+2
	if left < n {
		s.compare(t, i, left)
		if s.seq[left] > s.seq[largest] {
			largest = left
		}
	}
	if right < n {
		s.compare(t, largest, right)
		if s.seq[right] > s.seq[largest] {
			largest = right
		}
	}
	if largest != i {
		s.swap(t, i, largest)
		s.heapify(t, n, largest)
	}
}
