package sorting

// bubble runs adjacent-pair passes over a shrinking window. After pass i the
// element at n-i-1 is final; index 0 is marked once all passes are done.
func (s *sorter) bubble(t *tally) {
	n := len(s.seq)
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-i-1; j++ {
			if s.stop() {
				return
			}
			s.compare(t, j, j+1)
			if s.seq[j] > s.seq[j+1] {
				s.swap(t, j, j+1)
			}
		}
		s.markSorted(t, n-i-1)
	}
	if n > 0 && !s.stop() {
		s.markSorted(t, 0)
	}
}
