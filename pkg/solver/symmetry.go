package solver

import "github.com/gitrdm/edgetile/pkg/puzzle"

// SymmetryBreaker records the first cell the engine fills as the anchor
// and, while an anchor is recorded, Allows offers only rotation 0 at
// that cell.
//
// The anchor is recorded by the commit itself (ObserveFirstPlacement)
// and cleared when that placement is undone, and SearchEngine consults
// Allows before committing. The engine's own candidates at the anchor
// cell are therefore never restricted: every rotation in the anchor's
// domain is tried, and rotated copies of a tiling are not pruned from
// the search.
type SymmetryBreaker struct {
	anchor       puzzle.Coord
	anchorSet    bool
	allowedRotations map[int]bool
}

// NewSymmetryBreaker returns a breaker with no anchor chosen yet.
func NewSymmetryBreaker() *SymmetryBreaker {
	return &SymmetryBreaker{allowedRotations: map[int]bool{0: true}}
}

// ObserveFirstPlacement records (r,c) as the anchor if none has been
// recorded yet. Safe to call on every placement; only the first call
// has an effect.
func (sb *SymmetryBreaker) ObserveFirstPlacement(r, c int) {
	if sb.anchorSet {
		return
	}
	sb.anchor = puzzle.Coord{Row: r, Col: c}
	sb.anchorSet = true
}

// ObserveUndo clears the anchor if (r,c) is being undone back past it,
// so a later retry can re-anchor on whatever cell is filled first next.
func (sb *SymmetryBreaker) ObserveUndo(r, c int) {
	if sb.anchorSet && sb.anchor.Row == r && sb.anchor.Col == c {
		sb.anchorSet = false
	}
}

// Allows reports whether rotation may be offered as a candidate at
// (r,c). Only the anchor cell is restricted; every other cell allows
// every rotation its domain contains.
func (sb *SymmetryBreaker) Allows(r, c, rotation int) bool {
	if !sb.anchorSet || sb.anchor.Row != r || sb.anchor.Col != c {
		return true
	}
	return sb.allowedRotations[rotation]
}

// Anchor returns the recorded anchor cell and whether one has been set.
func (sb *SymmetryBreaker) Anchor() (puzzle.Coord, bool) {
	return sb.anchor, sb.anchorSet
}
