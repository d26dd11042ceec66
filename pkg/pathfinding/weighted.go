package pathfinding

import (
	"container/heap"
	"math"

	"github.com/aretw0/algoviz/pkg/domain"
)

// item is a priority-queue entry. Ties on key are broken by push order (seq), which
// reproduces a stable sort of the frontier.
type item struct {
	id  int
	key int
	seq int
}

type frontierPQ []item

func (pq frontierPQ) Len() int { return len(pq) }
func (pq frontierPQ) Less(i, j int) bool {
	if pq[i].key != pq[j].key {
		return pq[i].key < pq[j].key
	}
	return pq[i].seq < pq[j].seq
}
func (pq frontierPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *frontierPQ) Push(x any)   { *pq = append(*pq, x.(item)) }
func (pq *frontierPQ) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}

// frontier wraps frontierPQ with the push counter.
type frontier struct {
	pq   frontierPQ
	next int
}

func (f *frontier) push(id, key int) {
	heap.Push(&f.pq, item{id: id, key: key, seq: f.next})
	f.next++
}

func (f *frontier) pop() item {
	return heap.Pop(&f.pq).(item)
}

func (f *frontier) empty() bool {
	return f.pq.Len() == 0
}

// dijkstra extracts the cell with the smallest tentative distance. Outdated entries
// stay in the heap and are skipped when popped.
func (s *search) dijkstra() {
	dist := s.distances()
	dist[s.start] = 0
	f := &frontier{}
	f.push(s.start, 0)
	s.seed()

	for !f.empty() {
		if s.stop() {
			return
		}
		it := f.pop()
		if s.visited[it.id] {
			continue
		}
		if s.visit(it.id) {
			s.emitVisit(it.id, nil)
			return
		}
		var added []int
		for _, j := range s.neighbours(it.id) {
			if nd := dist[it.id] + 1; nd < dist[j] {
				dist[j] = nd
				s.prev[j] = it.id
				f.push(j, nd)
				added = append(added, j)
			}
		}
		s.emitVisit(it.id, added)
	}
}

// astar orders the frontier by f = g + Manhattan(cell, End). The heuristic is
// consistent on a unit-cost 4-connected grid, so the first visit of End is optimal.
func (s *search) astar() {
	g := s.distances()
	g[s.start] = 0
	f := &frontier{}
	f.push(s.start, s.heuristic(s.start))
	s.seed()

	for !f.empty() {
		if s.stop() {
			return
		}
		it := f.pop()
		if s.visited[it.id] {
			continue
		}
		if s.visit(it.id) {
			s.emitVisit(it.id, nil)
			return
		}
		var added []int
		for _, j := range s.neighbours(it.id) {
			ng := g[it.id] + 1
			if ng >= g[j] {
				continue
			}
			g[j] = ng
			s.prev[j] = it.id
			f.push(j, ng+s.heuristic(j))
			added = append(added, j)
		}
		s.emitVisit(it.id, added)
	}
}

func (s *search) distances() []int {
	d := make([]int, s.grid.Size())
	for i := range d {
		d[i] = math.MaxInt
	}
	return d
}

func (s *search) heuristic(idx int) int {
	return domain.Manhattan(s.grid.PointAt(idx), s.grid.End)
}
