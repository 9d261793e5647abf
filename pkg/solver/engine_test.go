package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/edgetile/pkg/puzzle"
)

// threeByThreeSolvablePool is a 3x3 pool with exactly one tiling up to
// rotation of the whole board: every tile's border
// edges are 0 and every interior edge pairs with exactly one other
// tile's edge.
func threeByThreeSolvablePool() []puzzle.Tile {
	return []puzzle.Tile{
		puzzle.NewTile(1, puzzle.Edges{0, 1, 2, 0}),
		puzzle.NewTile(2, puzzle.Edges{0, 3, 4, 1}),
		puzzle.NewTile(3, puzzle.Edges{0, 0, 5, 3}),
		puzzle.NewTile(4, puzzle.Edges{2, 6, 7, 0}),
		puzzle.NewTile(5, puzzle.Edges{4, 8, 9, 6}),
		puzzle.NewTile(6, puzzle.Edges{5, 0, 10, 8}),
		puzzle.NewTile(7, puzzle.Edges{7, 11, 0, 0}),
		puzzle.NewTile(8, puzzle.Edges{9, 12, 0, 11}),
		puzzle.NewTile(9, puzzle.Edges{10, 0, 0, 12}),
	}
}

func TestEngineSolvesUniqueThreeByThree(t *testing.T) {
	tiles := threeByThreeSolvablePool()
	engine := NewSearchEngine(3, 3, tiles, DefaultConfig(), nil)
	board, err := engine.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, board.IsComplete())
	require.NoError(t, board.Validate(puzzle.NewCellConstraints(3, 3)))
}

func TestEngineReportsNoSolutionOnUnsatisfiablePool(t *testing.T) {
	// Two tiles that can never share an edge: their non-border labels
	// never match, so a 1x2 board is unsolvable.
	tiles := []puzzle.Tile{
		puzzle.NewTile(1, puzzle.Edges{0, 1, 0, 0}),
		puzzle.NewTile(2, puzzle.Edges{0, 0, 0, 2}),
	}
	engine := NewSearchEngine(1, 2, tiles, DefaultConfig(), nil)
	_, err := engine.Solve(context.Background())
	require.ErrorIs(t, err, ErrNoSolution)
}

func TestEngineNoSingletonsVisitsMoreNodes(t *testing.T) {
	tiles := threeByThreeSolvablePool()

	withSingletons := NewSearchEngine(3, 3, tiles, DefaultConfig(), nil)
	_, err := withSingletons.Solve(context.Background())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.DisableSingletons = true
	withoutSingletons := NewSearchEngine(3, 3, tiles, cfg, nil)
	boardNoSingle, err := withoutSingletons.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, boardNoSingle.IsComplete())

	require.Greater(t, withoutSingletons.Stats().Snapshot().NodesExplored, withSingletons.Stats().Snapshot().NodesExplored)
}

func TestEngineCancellationStopsAtStabilityBoundary(t *testing.T) {
	tiles := threeByThreeSolvablePool()
	engine := NewSearchEngine(3, 3, tiles, DefaultConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.Solve(ctx)
	require.Error(t, err)
}

func TestCheckpointReplayReproducesDepth(t *testing.T) {
	tiles := threeByThreeSolvablePool()
	cfg := DefaultConfig()
	engine := NewSearchEngine(3, 3, tiles, cfg, nil)
	board, err := engine.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, board.IsComplete())

	full := engine.Trail().Entries()
	require.NotEmpty(t, full)

	partial := append([]puzzle.TrailEntry(nil), full[:len(full)/2]...)
	rec := CheckpointRecord{
		Rows: 3, Cols: 3, NumTiles: len(tiles),
		OrderMode: cfg.OrderMode, RandomSeed: cfg.RandomSeed,
		Placements: partial,
	}
	resumed, err := ReplayCheckpoint(tiles, rec, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, len(partial), resumed.Trail().Len())

	resumedBoard, err := resumed.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, resumedBoard.IsComplete())
}

// gridChainPool builds an rows*cols pool where every internal edge
// label is globally unique to its shared edge, so once any one cell of
// a pair is known the other's domain collapses to a single (tile,
// rotation) candidate. This is the forced-singleton scenario of spec
// §8.3: after the anchor placement and one propagation pass, most or
// all remaining cells become singletons.
func gridChainPool(rows, cols int) []puzzle.Tile {
	hID := func(r, c int) int { return 1000 + r*100 + c }
	vID := func(r, c int) int { return 2000 + r*100 + c }

	tiles := make([]puzzle.Tile, 0, rows*cols)
	id := 1
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			n, e, s, w := 0, 0, 0, 0
			if r > 0 {
				n = vID(r-1, c)
			}
			if c < cols-1 {
				e = hID(r, c)
			}
			if r < rows-1 {
				s = vID(r, c)
			}
			if c > 0 {
				w = hID(r, c-1)
			}
			tiles = append(tiles, puzzle.NewTile(id, puzzle.Edges{n, e, s, w}))
			id++
		}
	}
	return tiles
}

// TestSingletonDetectorForcesFourByFour exercises spec scenario 3: with
// singleton detection enabled the engine explores fewer nodes than with
// --no-singletons, and both runs still reach a complete, valid board.
func TestSingletonDetectorForcesFourByFour(t *testing.T) {
	tiles := gridChainPool(4, 4)
	cc := puzzle.NewCellConstraints(4, 4)

	withSingletons := NewSearchEngine(4, 4, tiles, DefaultConfig(), nil)
	boardA, err := withSingletons.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, boardA.IsComplete())
	require.NoError(t, boardA.Validate(cc))

	cfg := DefaultConfig()
	cfg.DisableSingletons = true
	withoutSingletons := NewSearchEngine(4, 4, tiles, cfg, nil)
	boardB, err := withoutSingletons.Solve(context.Background())
	require.NoError(t, err)
	require.True(t, boardB.IsComplete())
	require.NoError(t, boardB.Validate(cc))

	require.Greater(t, withoutSingletons.Stats().Snapshot().NodesExplored, withSingletons.Stats().Snapshot().NodesExplored)
}

// TestParallelDriverMatchesSequentialOutcome exercises spec scenario 5:
// sequential and parallel search over the same solvable pool both
// produce a board satisfying every invariant, using each tile exactly
// once.
func TestParallelDriverMatchesSequentialOutcome(t *testing.T) {
	tiles := threeByThreeSolvablePool()
	cc := puzzle.NewCellConstraints(3, 3)

	seq := NewSearchEngine(3, 3, tiles, DefaultConfig(), nil)
	seqBoard, err := seq.Solve(context.Background())
	require.NoError(t, err)
	require.NoError(t, seqBoard.Validate(cc))

	shared := NewSharedSearchState()
	driver := NewParallelDriver(3, 3, tiles, DefaultConfig(), 4, nil)
	_, parBoard, err := driver.Run(context.Background(), shared)
	require.NoError(t, err)
	require.NotNil(t, parBoard)
	require.True(t, parBoard.IsComplete())
	require.NoError(t, parBoard.Validate(cc))
	require.True(t, shared.Solved())
}

// bruteForceSolutionCount enumerates every (tile, rotation, cell)
// assignment, checking only local edge-fit at placement time (no
// forward-checking domain propagation to other cells), counting
// completions that satisfy every Board invariant at the end. This is
// the oracle spec scenario 6 compares the propagating engine against:
// "tries every assignment without propagation" means no AC-3, not no
// local consistency check, or the search space is intractable even for
// a 3x3 board.
func bruteForceSolutionCount(t *testing.T, rows, cols int, tiles []puzzle.Tile) int {
	t.Helper()
	cc := puzzle.NewCellConstraints(rows, cols)
	board := puzzle.NewBoard(rows, cols, len(tiles))
	fits := NewFitsChecker(cc, nil)
	count := 0

	var recurse func(cellIdx int)
	recurse = func(cellIdx int) {
		if cellIdx == rows*cols {
			if board.Validate(cc) == nil {
				count++
			}
			return
		}
		r, c := cellIdx/cols, cellIdx%cols
		for _, tile := range tiles {
			if board.UsedTiles().Has(tile.ID) {
				continue
			}
			for rot := 0; rot < puzzle.NumRotations; rot++ {
				edges := tile.At(rot)
				if !fits.Fits(board, r, c, edges) {
					continue
				}
				place := puzzle.Placement{TileID: tile.ID, Rotation: rot, Edges: edges}
				require.NoError(t, board.Place(r, c, place))
				recurse(cellIdx + 1)
				require.NoError(t, board.Remove(r, c))
			}
		}
	}
	recurse(0)
	return count
}

// TestPropagatorAgreesWithBruteForceOracle implements spec scenario 6
// for the 3x3 fuzz corpus: the propagating engine must find a solution
// exactly when the brute-force oracle finds at least one (propagation
// is conservative, so it must never prune away every valid completion).
func TestPropagatorAgreesWithBruteForceOracle(t *testing.T) {
	pools := [][]puzzle.Tile{
		threeByThreeSolvablePool(),
		{
			// Tile 9 is a corner tile whose inland labels are 9 and 8,
			// and no other tile carries label 9: tile 9 fits no cell of
			// a complete board, so the pool is unsolvable under any
			// assignment, propagating or not.
			puzzle.NewTile(1, puzzle.Edges{0, 1, 1, 0}),
			puzzle.NewTile(2, puzzle.Edges{0, 2, 2, 1}),
			puzzle.NewTile(3, puzzle.Edges{0, 0, 3, 2}),
			puzzle.NewTile(4, puzzle.Edges{1, 4, 4, 0}),
			puzzle.NewTile(5, puzzle.Edges{2, 5, 5, 4}),
			puzzle.NewTile(6, puzzle.Edges{3, 0, 6, 5}),
			puzzle.NewTile(7, puzzle.Edges{4, 7, 0, 0}),
			puzzle.NewTile(8, puzzle.Edges{5, 8, 0, 7}),
			puzzle.NewTile(9, puzzle.Edges{9, 0, 0, 8}),
		},
	}

	for i, tiles := range pools {
		bruteForceCount := bruteForceSolutionCount(t, 3, 3, tiles)

		engine := NewSearchEngine(3, 3, tiles, DefaultConfig(), nil)
		_, err := engine.Solve(context.Background())

		if bruteForceCount > 0 {
			require.NoErrorf(t, err, "pool %d: brute force found %d solutions but engine reported %v", i, bruteForceCount, err)
		} else {
			require.ErrorIsf(t, err, ErrNoSolution, "pool %d: brute force found no solution but engine did not report ErrNoSolution", i)
		}
	}
}
