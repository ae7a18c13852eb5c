package testutil

import (
	"strings"
	"testing"

	"github.com/mitchelldurbincs/TreasureHunter/internal/game/core"
	"github.com/mitchelldurbincs/TreasureHunter/internal/game/entities"
	"github.com/stretchr/testify/require"
)

// Layout symbols understood by RegistryFromLayout:
//
//	.  empty        H  hunter
//	M  monster      #  obstacle
//	1-9 treasure with that value
//
// Rows are separated by newlines; blank lines and surrounding spaces are ignored.
// Monsters are registered in row-major order.
func RegistryFromLayout(t testing.TB, layout string) *entities.Registry {
	t.Helper()

	rows := parseRows(layout)
	require.NotEmpty(t, rows, "layout must have at least one row")
	size := len(rows)
	for i, row := range rows {
		require.Len(t, row, size, "layout row %d must be %d cells wide", i, size)
	}

	r := entities.NewRegistry(core.NewGrid(size))
	for row, line := range rows {
		for col, ch := range line {
			p := core.Position{Row: row, Col: col}
			var err error
			switch {
			case ch == '.':
			case ch == 'H':
				err = r.PlaceHunter(p)
			case ch == 'M':
				_, err = r.AddMonster(p)
			case ch == '#':
				err = r.AddObstacle(p)
			case ch >= '1' && ch <= '9':
				err = r.AddTreasure(p, int(ch-'0'))
			default:
				t.Fatalf("unknown layout symbol %q at %s", ch, p)
			}
			require.NoError(t, err, "placing %q at %s", ch, p)
		}
	}
	return r
}

func parseRows(layout string) []string {
	var rows []string
	for _, line := range strings.Split(layout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			rows = append(rows, line)
		}
	}
	return rows
}
