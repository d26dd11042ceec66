package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/algoviz/pkg/domain"
	"gopkg.in/yaml.v3"
)

// SubjectFile is the on-disk shape of a subject. It matches the replies of the
// generation endpoints, so `algoviz generate` output can be fed back with --input.
type SubjectFile struct {
	Array []int   `yaml:"array" json:"array"`
	Grid  [][]int `yaml:"grid" json:"grid"`
	// Start and End are [row, col]; they default to the top-left and bottom-right cells.
	Start []int `yaml:"start" json:"start"`
	End   []int `yaml:"end" json:"end"`
}

// LoadSubject reads a JSON or YAML subject file. Either result may be nil.
func LoadSubject(path string) (domain.Sequence, *domain.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read subject: %w", err)
	}

	var f SubjectFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if f.Array == nil && f.Grid == nil {
		return nil, nil, fmt.Errorf("%s holds neither an array nor a grid", path)
	}

	var grid *domain.Grid
	if f.Grid != nil {
		rows, cols := len(f.Grid), 0
		if rows > 0 {
			cols = len(f.Grid[0])
		}
		start, err := point(f.Start, domain.Point{})
		if err != nil {
			return nil, nil, err
		}
		end, err := point(f.End, domain.Point{Row: rows - 1, Col: cols - 1})
		if err != nil {
			return nil, nil, err
		}
		if grid, err = domain.NewGrid(f.Grid, start, end); err != nil {
			return nil, nil, err
		}
	}
	var seq domain.Sequence
	if f.Array != nil {
		seq = domain.Sequence(f.Array)
	}
	return seq, grid, nil
}

func point(rc []int, def domain.Point) (domain.Point, error) {
	switch len(rc) {
	case 0:
		return def, nil
	case 2:
		return domain.Point{Row: rc[0], Col: rc[1]}, nil
	}
	return domain.Point{}, fmt.Errorf("%w: a point is [row, col], got %v", domain.ErrInvalidGrid, rc)
}
