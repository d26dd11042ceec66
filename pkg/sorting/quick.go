package sorting

// quick sorts seq[low..high] recursively around a Lomuto partition.
func (s *sorter) quick(t *tally, low, high int) {
	if s.stop() {
		return
	}
	if low >= high {
		return
	}
	p, ok := s.partition(t, low, high)
	if !ok {
		return
	}
	s.quick(t, low, p-1)
	s.quick(t, p+1, high)
}

// partition moves every element smaller than seq[high] to the left of the pivot and
// returns the pivot's final index. It reports false when cancelled mid-partition, in
// which case the pivot is left in place.
func (s *sorter) partition(t *tally, low, high int) (int, bool) {
	pivot := s.seq[high]
	i := low - 1
	for j := low; j < high; j++ {
		if s.stop() {
			return 0, false
		}
		s.compare(t, j, high)
		if s.seq[j] < pivot {
			i++
			if i != j {
				s.swap(t, i, j)
			}
		}
	}
	s.swap(t, i+1, high)
	return i + 1, true
}
