package solver

import "github.com/gitrdm/edgetile/pkg/puzzle"

// removalEntry records one (tile, rotation) pair taken out of one
// cell's domain during a propagation pass, so it can be put back on
// backtrack without reconstructing the whole domain from scratch.
type removalEntry struct {
	row, col          int
	tileIdx, rotation int
}

// PropagationUndo is the handle a caller holds to later reverse exactly
// the domain changes one Propagate call made. It is the finer-grained
// analogue of DomainManager's whole-cell Save/Restore: Propagate can
// touch many cells in one pass, and re-snapshotting every one of them
// up front would be wasteful when only a few entries actually change.
type PropagationUndo struct {
	removals []removalEntry
}

// ConstraintPropagator implements the AC-3 style arc-consistency pass:
// starting from a queue of just-changed cells, it re-checks every
// unfilled neighbor's domain against the new information and removes
// candidates that can no longer match, enqueuing any cell whose domain
// changed so the wave continues outward. Modeled on the teacher's
// worklist-based constraint propagation (constraint_manager.go), with
// tiling-specific arc checks in place of its generic constraint
// interface.
type ConstraintPropagator struct {
	cc    *puzzle.CellConstraints
	tiles []puzzle.Tile
	stats *Statistics
}

// NewConstraintPropagator builds a propagator for a fixed geometry and
// tile pool.
func NewConstraintPropagator(cc *puzzle.CellConstraints, tiles []puzzle.Tile, stats *Statistics) *ConstraintPropagator {
	return &ConstraintPropagator{cc: cc, tiles: tiles, stats: stats}
}

// Propagate re-establishes arc consistency starting from seed cells
// (typically the cell a placement just landed on). It returns the undo
// handle and false if some cell's domain was driven empty (a dead end);
// on a dead end the caller must still call Undo with the returned
// handle before trying a different candidate.
func (p *ConstraintPropagator) Propagate(board *puzzle.Board, dm *puzzle.DomainManager, seeds []puzzle.Coord) (*PropagationUndo, bool) {
	p.stats.StartPropagation()
	defer p.stats.EndPropagation()

	undo := &PropagationUndo{}
	queue := append([]puzzle.Coord(nil), seeds...)
	queued := make(map[puzzle.Coord]bool, len(seeds))
	for _, s := range seeds {
		queued[s] = true
	}

	ok := true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		queued[cur] = false

		for _, nb := range p.cc.At(cur.Row, cur.Col).Neighbors() {
			if board.IsFilled(nb.Row, nb.Col) {
				continue
			}
			changed, empty := p.reviseAgainst(board, dm, undo, nb, cur)
			if empty {
				ok = false
			}
			if changed && !queued[nb] {
				queue = append(queue, nb)
				queued[nb] = true
			}
		}
		if !ok {
			break
		}
	}
	return undo, ok
}

// reviseAgainst removes every candidate from dm's domain at cell that
// is inconsistent with source's state (filled, or itself constrained):
// for each candidate at cell, the side facing source must, if source is
// filled, match source's facing edge exactly; if source is unfilled,
// at least one of source's remaining candidates must still be able to
// supply a matching edge (standard AC-3 arc revision).
func (p *ConstraintPropagator) reviseAgainst(board *puzzle.Board, dm *puzzle.DomainManager, undo *PropagationUndo, cell, source puzzle.Coord) (changed, empty bool) {
	side := directionTo(cell, source)
	dom := dm.At(cell.Row, cell.Col)

	sourceEdge, sourceFilled := board.NeighborEdge(source.Row, source.Col, opposingSide(side))

	var toRemove []puzzle.TileRotation
	dom.Iterate(func(tileIdx, rotation int) {
		label := p.tiles[tileIdx].At(rotation)[side]
		if sourceFilled {
			if label != sourceEdge {
				toRemove = append(toRemove, puzzle.TileRotation{TileIdx: tileIdx, Rotation: rotation})
			}
			return
		}
		if !p.sourceHasSupport(dm, source, opposingSide(side), label) {
			toRemove = append(toRemove, puzzle.TileRotation{TileIdx: tileIdx, Rotation: rotation})
		}
	})

	for _, cand := range toRemove {
		dom.Remove(cand.TileIdx, cand.Rotation)
		undo.removals = append(undo.removals, removalEntry{row: cell.Row, col: cell.Col, tileIdx: cand.TileIdx, rotation: cand.Rotation})
		p.stats.RecordRemoval()
	}
	return len(toRemove) > 0, dom.IsEmpty()
}

// sourceHasSupport reports whether source's domain still contains any
// candidate whose edge on sourceSide equals label.
func (p *ConstraintPropagator) sourceHasSupport(dm *puzzle.DomainManager, source puzzle.Coord, sourceSide puzzle.Side, label int) bool {
	found := false
	dm.At(source.Row, source.Col).Iterate(func(tileIdx, rotation int) {
		if found {
			return
		}
		if p.tiles[tileIdx].At(rotation)[sourceSide] == label {
			found = true
		}
	})
	return found
}

// Undo reverses exactly the removals one Propagate call made, restoring
// each entry to its cell's domain in reverse order.
func (p *ConstraintPropagator) Undo(dm *puzzle.DomainManager, undo *PropagationUndo) {
	for i := len(undo.removals) - 1; i >= 0; i-- {
		e := undo.removals[i]
		dm.At(e.row, e.col).Add(e.tileIdx, e.rotation)
	}
}

// directionTo returns the side of `from` that faces `to`. Both must be
// adjacent (differ by exactly one row or column).
func directionTo(from, to puzzle.Coord) puzzle.Side {
	switch {
	case to.Row < from.Row:
		return puzzle.North
	case to.Row > from.Row:
		return puzzle.South
	case to.Col > from.Col:
		return puzzle.East
	default:
		return puzzle.West
	}
}
