package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/edgetile/pkg/puzzle"
)

func TestPropagatorPrunesInconsistentNeighborCandidates(t *testing.T) {
	tiles := threeByThreeSolvablePool()
	cc := puzzle.NewCellConstraints(3, 3)
	dm := puzzle.NewDomainManager(3, 3, len(tiles))
	dm.Initialize(tiles, cc)
	board := puzzle.NewBoard(3, 3, len(tiles))
	stats := NewStatistics()
	prop := NewConstraintPropagator(cc, tiles, stats)

	// Tile 1 (index 0) is the unique top-left corner tile for this pool.
	require.NoError(t, board.Place(0, 0, puzzle.Placement{TileID: 1, Rotation: 0, Edges: tiles[0].At(0)}))

	undo, ok := prop.Propagate(board, dm, []puzzle.Coord{{Row: 0, Col: 0}})
	require.True(t, ok)
	require.NotEmpty(t, undo.removals)

	// Tile 1 itself must have been pruned from every other cell's domain.
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if r == 0 && c == 0 {
				continue
			}
			dm.At(r, c).Iterate(func(tileIdx, rotation int) {
				require.NotEqual(t, 0, tileIdx, "tile 1 should be pruned everywhere else")
			})
		}
	}

	countBefore := dm.At(0, 1).Count()
	prop.Undo(dm, undo)
	require.Greater(t, dm.At(0, 1).Count(), countBefore)
}

func TestPropagatorDetectsDeadEnd(t *testing.T) {
	// A 1x3 board whose only middle tile (tile 2) carries labels 3 and 2:
	// placing tile 1 (East label 1) at (0,0) leaves no middle candidate
	// with West label 1, so (0,1)'s domain is emptied.
	tiles := []puzzle.Tile{
		puzzle.NewTile(1, puzzle.Edges{0, 1, 0, 0}),
		puzzle.NewTile(2, puzzle.Edges{0, 3, 0, 2}),
		puzzle.NewTile(3, puzzle.Edges{0, 0, 0, 4}),
	}
	cc := puzzle.NewCellConstraints(1, 3)
	dm := puzzle.NewDomainManager(1, 3, len(tiles))
	dm.Initialize(tiles, cc)
	board := puzzle.NewBoard(1, 3, len(tiles))
	stats := NewStatistics()
	prop := NewConstraintPropagator(cc, tiles, stats)

	require.NoError(t, board.Place(0, 0, puzzle.Placement{TileID: 1, Rotation: 0, Edges: tiles[0].At(0)}))
	_, ok := prop.Propagate(board, dm, []puzzle.Coord{{Row: 0, Col: 0}})
	require.False(t, ok)
}
