package solver

import "github.com/gitrdm/edgetile/pkg/puzzle"

// FitsChecker answers whether a candidate (tile, rotation) may legally
// occupy a given empty cell: every border side must carry BorderLabel,
// every inland side must carry a non-zero label, and every side with an
// already-placed neighbor must match that neighbor's facing edge.
// Grounded on spec §4.1's fits(board, r, c, rotatedEdges) primitive; a
// pure function of its inputs, independent of whatever pre-filtering a
// caller's domain may already have done.
type FitsChecker struct {
	cc    *puzzle.CellConstraints
	stats *Statistics
}

// NewFitsChecker builds a checker against a fixed board geometry.
func NewFitsChecker(cc *puzzle.CellConstraints, stats *Statistics) *FitsChecker {
	return &FitsChecker{cc: cc, stats: stats}
}

// Fits reports whether edges may legally be placed at (r,c) on board,
// given the placements already committed there.
func (f *FitsChecker) Fits(board *puzzle.Board, r, c int, edges puzzle.Edges) bool {
	f.stats.RecordFitCheck()
	cell := f.cc.At(r, c)
	for side := puzzle.Side(0); side < puzzle.NumSides; side++ {
		if cell.IsBorder(side) {
			if edges[side] != puzzle.BorderLabel {
				return false
			}
			continue
		}
		if edges[side] == puzzle.BorderLabel {
			return false
		}
		nr, nc, ok := cell.Neighbor(side)
		if !ok {
			continue
		}
		neighborEdge, filled := board.NeighborEdge(nr, nc, opposingSide(side))
		if !filled {
			continue
		}
		if neighborEdge != edges[side] {
			return false
		}
	}
	return true
}

// opposingSide mirrors puzzle's unexported opposite() for the side
// FitsChecker needs to read off a neighbor's placement.
func opposingSide(s puzzle.Side) puzzle.Side {
	return (s + 2) % puzzle.NumSides
}
