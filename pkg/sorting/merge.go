package sorting

// mergeSort sorts seq[low..high] top-down.
func (s *sorter) mergeSort(t *tally, low, high int) {
	if s.stop() {
		return
	}
	if low >= high {
		return
	}
	mid := (low + high) / 2
	s.mergeSort(t, low, mid)
	s.mergeSort(t, mid+1, high)
	s.merge(t, low, mid, high)
}

// merge combines the sorted runs seq[low..mid] and seq[mid+1..high]. Ties are taken
// from the left run, which keeps the sort stable.
//
// A cancellation observed here leaves seq[low..high] partially merged: the runner
// never writes after the check point, so the range is not restored.
func (s *sorter) merge(t *tally, low, mid, high int) {
	left := append([]int(nil), s.seq[low:mid+1]...)
	right := append([]int(nil), s.seq[mid+1:high+1]...)

	i, j, k := 0, 0, low
	for i < len(left) && j < len(right) {
		if s.stop() {
			return
		}
		s.compare(t, low+i, mid+1+j)
		if left[i] <= right[j] {
			s.overwrite(t, k, left[i])
			i++
		} else {
			s.overwrite(t, k, right[j])
			j++
		}
		k++
	}
	for ; i < len(left); i, k = i+1, k+1 {
		if s.stop() {
			return
		}
		s.overwrite(t, k, left[i])
	}
	for ; j < len(right); j, k = j+1, k+1 {
		if s.stop() {
			return
		}
		s.overwrite(t, k, right[j])
	}
}
