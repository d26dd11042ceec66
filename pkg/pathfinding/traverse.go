package pathfinding

// entry is a frontier slot for the uninformed searches. The predecessor travels with
// the entry so the first visit of a cell fixes it.
type entry struct {
	id     int
	parent int
}

// bfs explores in FIFO order, which yields a shortest path in number of moves.
func (s *search) bfs() {
	queue := []entry{{id: s.start, parent: -1}}
	s.seed()
	for len(queue) > 0 {
		if s.stop() {
			return
		}
		e := queue[0]
		queue = queue[1:]
		if s.visited[e.id] {
			continue
		}
		s.prev[e.id] = e.parent
		if s.visit(e.id) {
			s.emitVisit(e.id, nil)
			return
		}
		added := s.neighbours(e.id)
		for _, j := range added {
			queue = append(queue, entry{id: j, parent: e.id})
		}
		s.emitVisit(e.id, added)
	}
}

// dfs explores in LIFO order. Neighbours are pushed in expansion order, so the last
// one pushed (right) is the first explored.
func (s *search) dfs() {
	stack := []entry{{id: s.start, parent: -1}}
	s.seed()
	for len(stack) > 0 {
		if s.stop() {
			return
		}
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.visited[e.id] {
			continue
		}
		s.prev[e.id] = e.parent
		if s.visit(e.id) {
			s.emitVisit(e.id, nil)
			return
		}
		added := s.neighbours(e.id)
		for _, j := range added {
			stack = append(stack, entry{id: j, parent: e.id})
		}
		s.emitVisit(e.id, added)
	}
}
