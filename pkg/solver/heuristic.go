package solver

import (
	"math/rand"
	"sort"

	"github.com/gitrdm/edgetile/pkg/puzzle"
)

// CellSelector picks the next empty cell to branch on. Implementations
// are named and described the way the teacher's labeling strategies are
// (labeling.go's FirstFailLabeling/DomainSizeLabeling/DegreeLabeling/
// LexicographicLabeling/RandomLabeling family), ported from FD
// variables to board cells.
type CellSelector interface {
	// SelectCell returns the (row, col) of the next cell to branch on
	// among the board's empty cells, or ok=false if none remain. cc and
	// sym let a selector prefer cells adjacent to the filled region and
	// fall back to the symmetry breaker's anchor at the initial state.
	SelectCell(board *puzzle.Board, dm *puzzle.DomainManager, cc *puzzle.CellConstraints, sym *SymmetryBreaker) (row, col int, ok bool)
	Name() string
}

// MRVSelector implements Minimum Remaining Values: among empty cells
// that border the already-filled region (keeping the search frontier
// connected), the one with the fewest surviving (tile, rotation)
// candidates is selected first, ties broken by row-major position for
// determinism. At the initial state, when no empty cell has a filled
// neighbor, it defers to the symmetry breaker's anchor cell, or (before
// any anchor is chosen) falls back to a plain domain-size scan over
// every empty cell — whichever cell that scan picks becomes the anchor
// once the engine commits to it. This is the engine's default selector,
// the tiling-puzzle analogue of the teacher's DomainSizeLabeling.
type MRVSelector struct{}

func (MRVSelector) Name() string { return "mrv" }

func (MRVSelector) SelectCell(board *puzzle.Board, dm *puzzle.DomainManager, cc *puzzle.CellConstraints, sym *SymmetryBreaker) (int, int, bool) {
	if anchor, ok := sym.Anchor(); ok && !board.IsFilled(anchor.Row, anchor.Col) {
		return anchor.Row, anchor.Col, true
	}

	if r, c, ok := selectMRV(board, dm, func(r, c int) bool {
		return hasFilledNeighbor(board, cc, r, c)
	}); ok {
		return r, c, true
	}

	// No empty cell borders the filled region: either the board is
	// still completely empty, or every remaining cell is disconnected
	// from it. Either way, pick by domain size alone; if this is the
	// very first placement it becomes the anchor.
	return selectMRV(board, dm, func(int, int) bool { return true })
}

func hasFilledNeighbor(board *puzzle.Board, cc *puzzle.CellConstraints, r, c int) bool {
	for _, nb := range cc.At(r, c).Neighbors() {
		if board.IsFilled(nb.Row, nb.Col) {
			return true
		}
	}
	return false
}

func selectMRV(board *puzzle.Board, dm *puzzle.DomainManager, include func(r, c int) bool) (int, int, bool) {
	best := -1
	bestR, bestC := -1, -1
	for r := 0; r < board.Rows(); r++ {
		for c := 0; c < board.Cols(); c++ {
			if board.IsFilled(r, c) || !include(r, c) {
				continue
			}
			count := dm.At(r, c).Count()
			if best == -1 || count < best {
				best = count
				bestR, bestC = r, c
			}
		}
	}
	if bestR == -1 {
		return 0, 0, false
	}
	return bestR, bestC, true
}

// DegreeSelector orders cells by preferring the cell with the most
// already-filled neighbors (the first in row-major order on ties) — the
// tiling-puzzle analogue of the teacher's DegreeLabeling, since a cell
// with more filled neighbors is more constrained per remaining choice.
type DegreeSelector struct {
	cc *puzzle.CellConstraints
}

// NewDegreeSelector builds a DegreeSelector against a fixed geometry.
func NewDegreeSelector(cc *puzzle.CellConstraints) *DegreeSelector {
	return &DegreeSelector{cc: cc}
}

func (s *DegreeSelector) Name() string { return "degree" }

func (s *DegreeSelector) SelectCell(board *puzzle.Board, dm *puzzle.DomainManager, cc *puzzle.CellConstraints, sym *SymmetryBreaker) (int, int, bool) {
	best := -1
	bestR, bestC := -1, -1
	for r := 0; r < board.Rows(); r++ {
		for c := 0; c < board.Cols(); c++ {
			if board.IsFilled(r, c) {
				continue
			}
			degree := s.filledNeighborCount(board, r, c)
			if best == -1 || degree > best {
				best = degree
				bestR, bestC = r, c
			}
		}
	}
	if bestR == -1 {
		return 0, 0, false
	}
	return bestR, bestC, true
}

func (s *DegreeSelector) filledNeighborCount(board *puzzle.Board, r, c int) int {
	n := 0
	for _, nb := range s.cc.At(r, c).Neighbors() {
		if board.IsFilled(nb.Row, nb.Col) {
			n++
		}
	}
	return n
}

// LexicographicSelector picks the first empty cell in row-major order,
// matching the teacher's LexicographicLabeling's "creation order"
// determinism. Mostly useful for tests that want a predictable search
// order independent of domain sizes.
type LexicographicSelector struct{}

func (LexicographicSelector) Name() string { return "lexicographic" }

func (LexicographicSelector) SelectCell(board *puzzle.Board, dm *puzzle.DomainManager, cc *puzzle.CellConstraints, sym *SymmetryBreaker) (int, int, bool) {
	for r := 0; r < board.Rows(); r++ {
		for c := 0; c < board.Cols(); c++ {
			if !board.IsFilled(r, c) {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// CandidateOrderer ranks a cell's surviving candidates before the
// engine tries them in order. This is where OrderMode (spec §4.4) takes
// effect: LCV by default, or a plain ascending/descending tile-id order
// for diversified parallel workers.
type CandidateOrderer struct {
	mode OrderMode
	rng  *rand.Rand
}

// NewCandidateOrderer builds an orderer for the given mode, holding a
// random generator seeded with seed. Order does not draw from that
// generator; ties are broken by (tile, rotation) order in every mode.
func NewCandidateOrderer(mode OrderMode, seed int64) *CandidateOrderer {
	return &CandidateOrderer{mode: mode, rng: rand.New(rand.NewSource(seed))}
}

// Order ranks candidates and returns the ordered slice: the ascending
// and descending modes sort candidates in place, while LCV returns a
// new slice and leaves candidates unchanged. LCV scores a candidate by how many (tile, rotation) pairs it would leave
// available across the cell's unfilled neighbors were it committed —
// higher surviving counts are tried first, since they constrain the
// rest of the search the least.
func (o *CandidateOrderer) Order(board *puzzle.Board, dm *puzzle.DomainManager, cc *puzzle.CellConstraints, r, c int, tiles []puzzle.Tile, candidates []puzzle.TileRotation) []puzzle.TileRotation {
	switch o.mode {
	case OrderAscending:
		sort.Slice(candidates, func(i, j int) bool {
			return lessCandidate(candidates[i], candidates[j])
		})
		return candidates
	case OrderDescending:
		sort.Slice(candidates, func(i, j int) bool {
			return lessCandidate(candidates[j], candidates[i])
		})
		return candidates
	default:
		return o.orderByLCV(board, dm, cc, r, c, tiles, candidates)
	}
}

func lessCandidate(a, b puzzle.TileRotation) bool {
	if a.TileIdx != b.TileIdx {
		return a.TileIdx < b.TileIdx
	}
	return a.Rotation < b.Rotation
}

func (o *CandidateOrderer) orderByLCV(board *puzzle.Board, dm *puzzle.DomainManager, cc *puzzle.CellConstraints, r, c int, tiles []puzzle.Tile, candidates []puzzle.TileRotation) []puzzle.TileRotation {
	type scored struct {
		cand  puzzle.TileRotation
		score int
	}
	scoredCands := make([]scored, len(candidates))
	for i, cand := range candidates {
		scoredCands[i] = scored{cand: cand, score: o.lcvScore(board, dm, cc, r, c, tiles, cand)}
	}
	sort.SliceStable(scoredCands, func(i, j int) bool {
		if scoredCands[i].score != scoredCands[j].score {
			return scoredCands[i].score > scoredCands[j].score
		}
		return lessCandidate(scoredCands[i].cand, scoredCands[j].cand)
	})
	out := make([]puzzle.TileRotation, len(candidates))
	for i, s := range scoredCands {
		out[i] = s.cand
	}
	return out
}

// lcvScore counts, across the cell's unfilled neighbors, how many of
// their current (tile, rotation) candidates would remain consistent if
// cand were committed at (r,c). A higher score means committing cand
// removes fewer options from the rest of the board.
func (o *CandidateOrderer) lcvScore(board *puzzle.Board, dm *puzzle.DomainManager, cc *puzzle.CellConstraints, r, c int, tiles []puzzle.Tile, cand puzzle.TileRotation) int {
	edges := tiles[cand.TileIdx].At(cand.Rotation)
	score := 0
	for side := puzzle.Side(0); side < puzzle.NumSides; side++ {
		nr, nc, ok := cc.At(r, c).Neighbor(side)
		if !ok || board.IsFilled(nr, nc) {
			continue
		}
		required := edges[side]
		neighborDom := dm.At(nr, nc)
		neighborDom.Iterate(func(tileIdx, rotation int) {
			if tileIdx == cand.TileIdx {
				return
			}
			if tiles[tileIdx].At(rotation)[opposingSide(side)] == required {
				score++
			}
		})
	}
	return score
}
