package solver

import "github.com/gitrdm/edgetile/pkg/puzzle"

// SingletonDetector repeatedly scans for empty cells whose domain has
// collapsed to exactly one (tile, rotation) pair and forces them onto
// the board, re-propagating after each forced commit, until a fixed
// point is reached: no singleton remains, or a dead end is found. This
// is pure inference, not a search choice, so it never needs its own
// undo log — the engine's per-placement commit/propagate/trail-push
// path already records everything it does.
type SingletonDetector struct {
	cc    *puzzle.CellConstraints
	tiles []puzzle.Tile
}

// NewSingletonDetector builds a detector for a fixed geometry and pool.
func NewSingletonDetector(cc *puzzle.CellConstraints, tiles []puzzle.Tile) *SingletonDetector {
	return &SingletonDetector{cc: cc, tiles: tiles}
}

// commitFunc commits a forced singleton placement the same way the
// engine commits a chosen one: propagate, push to the trail, report.
// The engine supplies this closure so the detector never has to know
// about trails or reporters directly.
type commitFunc func(row, col, tileIdx, rotation int) (ok bool)

// Run scans board for singleton cells and commits each one via commit,
// repeating until no singleton cells remain or a commit reports a dead
// end. Returns false on a dead end (the caller must then backtrack).
func (d *SingletonDetector) Run(board *puzzle.Board, dm *puzzle.DomainManager, commit commitFunc) bool {
	for {
		r, c, tileIdx, rotation, found := d.findSingleton(board, dm)
		if !found {
			return true
		}
		if !commit(r, c, tileIdx, rotation) {
			return false
		}
	}
}

func (d *SingletonDetector) findSingleton(board *puzzle.Board, dm *puzzle.DomainManager) (row, col, tileIdx, rotation int, found bool) {
	for r := 0; r < board.Rows(); r++ {
		for c := 0; c < board.Cols(); c++ {
			if board.IsFilled(r, c) {
				continue
			}
			dom := dm.At(r, c)
			if dom.IsSingleton() {
				ti, rot := dom.SingletonValue()
				return r, c, ti, rot, true
			}
		}
	}
	return 0, 0, 0, 0, false
}
