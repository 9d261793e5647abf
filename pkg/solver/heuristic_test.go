package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/edgetile/pkg/puzzle"
)

func TestMRVSelectorPicksSmallestDomain(t *testing.T) {
	tiles := threeByThreeSolvablePool()
	cc := puzzle.NewCellConstraints(3, 3)
	dm := puzzle.NewDomainManager(3, 3, len(tiles))
	dm.Initialize(tiles, cc)
	board := puzzle.NewBoard(3, 3, len(tiles))

	// Shrink (2,2)'s domain to a single candidate so MRV must pick it
	// over every other still-wide-open cell.
	dom := dm.At(2, 2)
	first := true
	var keepIdx, keepRot int
	dom.Iterate(func(tileIdx, rotation int) {
		if first {
			keepIdx, keepRot = tileIdx, rotation
			first = false
		}
	})
	dom.Iterate(func(tileIdx, rotation int) {
		if tileIdx != keepIdx || rotation != keepRot {
			dom.Remove(tileIdx, rotation)
		}
	})

	var sel MRVSelector
	sym := NewSymmetryBreaker()
	r, c, ok := sel.SelectCell(board, dm, cc, sym)
	require.True(t, ok)
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)
}

// TestMRVSelectorPrefersFilledNeighbor exercises the frontier-connected
// half of cell selection: a cell bordering the filled region must be
// picked over a disconnected cell with a strictly smaller domain.
func TestMRVSelectorPrefersFilledNeighbor(t *testing.T) {
	tiles := threeByThreeSolvablePool()
	cc := puzzle.NewCellConstraints(3, 3)
	dm := puzzle.NewDomainManager(3, 3, len(tiles))
	dm.Initialize(tiles, cc)
	board := puzzle.NewBoard(3, 3, len(tiles))

	edges := tiles[0].At(0)
	require.NoError(t, board.Place(0, 0, puzzle.Placement{TileID: tiles[0].ID, Rotation: 0, Edges: edges}))

	// Shrink the disconnected (2,2) cell's domain to a single candidate,
	// smaller than any frontier cell's domain, so a plain global MRV
	// scan would (wrongly) jump there instead of staying on the
	// frontier around (0,0).
	dom := dm.At(2, 2)
	first := true
	var keepIdx, keepRot int
	dom.Iterate(func(tileIdx, rotation int) {
		if first {
			keepIdx, keepRot = tileIdx, rotation
			first = false
		}
	})
	dom.Iterate(func(tileIdx, rotation int) {
		if tileIdx != keepIdx || rotation != keepRot {
			dom.Remove(tileIdx, rotation)
		}
	})

	var sel MRVSelector
	sym := NewSymmetryBreaker()
	sym.ObserveFirstPlacement(0, 0)
	r, c, ok := sel.SelectCell(board, dm, cc, sym)
	require.True(t, ok)
	require.False(t, r == 2 && c == 2, "selector must not jump to a disconnected cell")
	require.True(t, (r == 0 && c == 1) || (r == 1 && c == 0))
}

func TestCandidateOrdererAscendingIsSorted(t *testing.T) {
	tiles := threeByThreeSolvablePool()
	cc := puzzle.NewCellConstraints(3, 3)
	dm := puzzle.NewDomainManager(3, 3, len(tiles))
	dm.Initialize(tiles, cc)
	board := puzzle.NewBoard(3, 3, len(tiles))

	cands := dm.Candidates(1, 1)
	require.NotEmpty(t, cands)
	orderer := NewCandidateOrderer(OrderAscending, 1)
	ordered := orderer.Order(board, dm, cc, 1, 1, tiles, cands)
	for i := 1; i < len(ordered); i++ {
		require.True(t, lessCandidate(ordered[i-1], ordered[i]) || ordered[i-1] == ordered[i])
	}
}
