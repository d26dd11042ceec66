// Package pathfinding runs Dijkstra, A*, breadth-first and depth-first search over a
// domain.Grid as a sequence of observable, pausable steps.
//
// The grid is 4-connected with unit edge cost. Neighbours are always expanded in the
// order up, down, left, right, so runs are deterministic for a given grid.
//
// A node counts as explored the first time it is removed from the frontier. Stale
// frontier entries (a node that was pushed more than once) are skipped silently: they
// are neither counted nor reported.
//
// Each visit emits a StepEvent of kind "visit" carrying the visited cell and the cells
// it added to the frontier, then waits on the pause gate, then sleeps for the step
// delay (StepDelay unless overridden). Seeding the start cell emits "frontier_add"
// and a successful search ends with a "path_found" event holding the whole path.
//
// Complexity for an R×C grid with V = R·C:
//
//   - bfs, dfs: O(V) time, O(V) space.
//   - dijkstra, astar: O(V log V) time with lazy decrease-key, O(V) space.
package pathfinding
