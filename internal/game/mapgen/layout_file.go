package mapgen

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
)

// ErrLayoutHunter is returned when a layout file does not place exactly one hunter
var ErrLayoutHunter = errors.New("layout must place exactly one hunter")

// hclCell is one piece block in a layout file
type hclCell struct {
	Row   int `hcl:"row"`
	Col   int `hcl:"col"`
	Value int `hcl:"value,optional"`
}

// hclLayoutFile represents the top-level structure of a layout file for decoding.
type hclLayoutFile struct {
	Hunters   []*hclCell `hcl:"hunter,block"`
	Monsters  []*hclCell `hcl:"monster,block"`
	Treasures []*hclCell `hcl:"treasure,block"`
	Obstacles []*hclCell `hcl:"obstacle,block"`
}

// LoadLayout reads a hand-made board from an HCL file. See ParseLayout.
func LoadLayout(filePath string, size int) ([]Placement, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse layout file %s: %w", filePath, diags)
	}
	return decodeLayout(filePath, file, size)
}

// ParseLayout decodes an HCL board layout such as
//
//	hunter {
//	  row = 0
//	  col = 0
//	}
//	monster {
//	  row = size - 1
//	  col = size - 1
//	}
//	treasure {
//	  row   = 2
//	  col   = 3
//	  value = 5
//	}
//
// The variable size holds the grid size. Placements come back hunter first,
// then monsters in block order (which fixes their ids), treasures and obstacles.
// Bounds and overlaps are left to the engine.
func ParseLayout(filename string, src []byte, size int) ([]Placement, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse layout %s: %w", filename, diags)
	}
	return decodeLayout(filename, file, size)
}

func decodeLayout(filename string, file *hcl.File, size int) ([]Placement, error) {
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"size": cty.NumberIntVal(int64(size)),
		},
	}

	var parsed hclLayoutFile
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode layout %s: %w", filename, diags)
	}
	if len(parsed.Hunters) != 1 {
		return nil, fmt.Errorf("%s has %d hunter blocks: %w", filename, len(parsed.Hunters), ErrLayoutHunter)
	}

	total := 1 + len(parsed.Monsters) + len(parsed.Treasures) + len(parsed.Obstacles)
	placements := make([]Placement, 0, total)

	add := func(kind string, cells []*hclCell) error {
		for _, c := range cells {
			if kind != KindTreasure && c.Value != 0 {
				return fmt.Errorf("%s: %s block at (%d, %d) cannot have a value", filename, kind, c.Row, c.Col)
			}
			placements = append(placements, Placement{
				Kind:  kind,
				Pos:   core.NewPosition(c.Row, c.Col),
				Value: c.Value,
			})
		}
		return nil
	}

	for _, group := range []struct {
		kind  string
		cells []*hclCell
	}{
		{KindHunter, parsed.Hunters},
		{KindMonster, parsed.Monsters},
		{KindTreasure, parsed.Treasures},
		{KindObstacle, parsed.Obstacles},
	} {
		if err := add(group.kind, group.cells); err != nil {
			return nil, err
		}
	}

	return placements, nil
}
