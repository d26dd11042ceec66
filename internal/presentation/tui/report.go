package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/algoviz/pkg/domain"
)

// Report formats res as a markdown statistics table.
func Report(res domain.RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", res.Algorithm, res.Mode)
	b.WriteString("| Metric | Value |\n|---|---|\n")
	row := func(k string, v any) { fmt.Fprintf(&b, "| %s | %v |\n", k, v) }

	switch res.Mode {
	case domain.ModePathfinding:
		row("Nodes explored", res.NodesExplored)
		row("Path length", res.PathLength)
		if res.Found() {
			row("Path", pathString(res.Path))
		}
	default:
		row("Comparisons", res.Comparisons)
		row("Swaps", res.Swaps)
	}
	row("Elapsed", fmt.Sprintf("%d ms", res.ElapsedMs()))
	row("Outcome", outcome(res))
	if res.RunID != "" {
		row("Run", "`"+res.RunID+"`")
	}
	return b.String()
}

func outcome(res domain.RunResult) string {
	switch {
	case res.Cancelled:
		return "cancelled"
	case res.Mode == domain.ModePathfinding && !res.Found():
		return "no path"
	}
	return "completed"
}

func pathString(path []domain.Point) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = p.String()
	}
	return strings.Join(parts, " → ")
}
