package puzzle

import "fmt"

// Placement is an immutable (tile, rotation) pair occupying one cell,
// together with its already-rotated edges so callers never have to
// re-derive them.
type Placement struct {
	TileID   int
	Rotation int
	Edges    Edges
}

// Coord is a zero-based (row, col) board position.
type Coord struct {
	Row, Col int
}

// Board is a mutable R*C grid of optional placements. It enforces the
// bookkeeping invariants from the data model (one placement per cell,
// one placement per tile id) but does not itself check edge-matching —
// that is FitsChecker's job, consulted before every Place call.
type Board struct {
	rows, cols int
	cells      []placementSlot
	used       UsedTileSet
	filledN    int
}

type placementSlot struct {
	present bool
	place   Placement
}

// NewBoard creates an empty R*C board sized for a pool of numTiles tiles.
func NewBoard(rows, cols, numTiles int) *Board {
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]placementSlot, rows*cols),
		used:  NewUsedTileSet(numTiles),
	}
}

// Rows returns the board's row count.
func (b *Board) Rows() int { return b.rows }

// Cols returns the board's column count.
func (b *Board) Cols() int { return b.cols }

// Cells returns the total number of cells (rows*cols).
func (b *Board) Cells() int { return b.rows * b.cols }

func (b *Board) index(r, c int) int { return r*b.cols + c }

// InBounds reports whether (r,c) is a valid board coordinate.
func (b *Board) InBounds(r, c int) bool {
	return r >= 0 && r < b.rows && c >= 0 && c < b.cols
}

// IsFilled reports whether (r,c) already holds a placement.
func (b *Board) IsFilled(r, c int) bool {
	return b.cells[b.index(r, c)].present
}

// At returns the placement at (r,c) and whether one is present.
func (b *Board) At(r, c int) (Placement, bool) {
	slot := b.cells[b.index(r, c)]
	return slot.place, slot.present
}

// FilledCount returns how many cells currently hold a placement.
func (b *Board) FilledCount() int { return b.filledN }

// IsComplete reports whether every cell is filled.
func (b *Board) IsComplete() bool { return b.filledN == b.rows*b.cols }

// UsedTiles returns the board's live used-tile bitset. Callers must not
// mutate it directly; Place/Remove keep it in sync.
func (b *Board) UsedTiles() *UsedTileSet { return &b.used }

// Place commits a placement at (r,c). It is the caller's responsibility
// (FitsChecker, symmetry breaking) to have validated the placement first;
// Place only enforces the structural invariants: the cell must be empty
// and the tile must not already be on the board.
func (b *Board) Place(r, c int, p Placement) error {
	if !b.InBounds(r, c) {
		return fmt.Errorf("puzzle: place out of bounds (%d,%d)", r, c)
	}
	idx := b.index(r, c)
	if b.cells[idx].present {
		return fmt.Errorf("puzzle: cell (%d,%d) already filled", r, c)
	}
	if b.used.Has(p.TileID) {
		return fmt.Errorf("puzzle: tile %d already placed", p.TileID)
	}
	b.cells[idx] = placementSlot{present: true, place: p}
	b.used.Set(p.TileID)
	b.filledN++
	return nil
}

// Remove withdraws the placement at (r,c), the mirror image of Place.
// It is a no-op error to remove an empty cell.
func (b *Board) Remove(r, c int) error {
	if !b.InBounds(r, c) {
		return fmt.Errorf("puzzle: remove out of bounds (%d,%d)", r, c)
	}
	idx := b.index(r, c)
	if !b.cells[idx].present {
		return fmt.Errorf("puzzle: cell (%d,%d) already empty", r, c)
	}
	p := b.cells[idx].place
	b.cells[idx] = placementSlot{}
	b.used.Clear(p.TileID)
	b.filledN--
	return nil
}

// NeighborEdge returns the edge label a neighbor in direction side would
// need to match, given the placement at (r,c), and whether (r,c) is
// filled at all.
func (b *Board) NeighborEdge(r, c int, side Side) (int, bool) {
	p, ok := b.At(r, c)
	if !ok {
		return 0, false
	}
	return p.Edges[side], true
}

// Snapshot returns a deep copy of the board suitable for publishing as a
// best-so-far record without aliasing live search state.
func (b *Board) Snapshot() *Board {
	cp := &Board{
		rows:    b.rows,
		cols:    b.cols,
		cells:   make([]placementSlot, len(b.cells)),
		used:    b.used.Clone(),
		filledN: b.filledN,
	}
	copy(cp.cells, b.cells)
	return cp
}

// Validate walks every filled cell and checks the Board invariants from
// the data model: border edges are 0 on border sides, interior shared
// edges match, and each tile id appears once. It is used by tests and by
// checkpoint replay, not by the hot search path.
func (b *Board) Validate(cc *CellConstraints) error {
	seen := NewUsedTileSet(b.used.Size())
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			p, ok := b.At(r, c)
			if !ok {
				continue
			}
			if seen.Has(p.TileID) {
				return fmt.Errorf("puzzle: tile %d placed more than once", p.TileID)
			}
			seen.Set(p.TileID)

			cell := cc.At(r, c)
			for side := Side(0); side < NumSides; side++ {
				label := p.Edges[side]
				if cell.IsBorder(side) {
					if label != BorderLabel {
						return fmt.Errorf("puzzle: (%d,%d) side %d faces border but has label %d", r, c, side, label)
					}
					continue
				}
				if label == BorderLabel {
					return fmt.Errorf("puzzle: (%d,%d) side %d is interior but has border label", r, c, side)
				}
				nr, nc, hasN := cell.Neighbor(side)
				if !hasN {
					continue
				}
				if np, ok := b.At(nr, nc); ok {
					if np.Edges[opposite(side)] != label {
						return fmt.Errorf("puzzle: mismatch between (%d,%d) and (%d,%d)", r, c, nr, nc)
					}
				}
			}
		}
	}
	return nil
}
