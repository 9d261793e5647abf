// Package puzzle holds the immutable data model for edge-matching tiling
// puzzles: tiles, the board they are placed on, and the per-cell geometry
// the solver needs to reason about border and neighbor edges.
package puzzle

import "fmt"

// BorderLabel is the reserved edge label that must face the outer border
// of the board and may never appear between two interior cells.
const BorderLabel = 0

// Side indexes the four edges of a tile in fixed order: North, East,
// South, West. Rotation is always clockwise.
type Side int

const (
	North Side = iota
	East
	South
	West
)

// NumSides is the number of edges on every tile.
const NumSides = 4

// NumRotations is the number of distinct 90-degree orientations a tile
// may be placed in.
const NumRotations = 4

// Edges is a tile's four edge labels in (N, E, S, W) order.
type Edges [NumSides]int

// Tile is an immutable square unit with four labeled edges and a
// precomputed table of its four rotations. An edge label of 0
// (BorderLabel) is reserved and only valid facing the outer border.
type Tile struct {
	ID        int
	edges     Edges
	rotations [NumRotations]Edges
}

// NewTile builds a Tile and precomputes its rotation table. id must be
// positive; edges are taken in (N, E, S, W) order.
func NewTile(id int, edges Edges) Tile {
	t := Tile{ID: id, edges: edges}
	for k := 0; k < NumRotations; k++ {
		t.rotations[k] = rotate(edges, k)
	}
	return t
}

// rotate returns edges rotated clockwise k times. Rotating (N,E,S,W) once
// yields (W,N,E,S): each side's label moves to the next side clockwise,
// so the side that used to hold the label now looks k positions back.
func rotate(e Edges, k int) Edges {
	var out Edges
	for i := 0; i < NumSides; i++ {
		out[i] = e[((i-k)%NumSides+NumSides)%NumSides]
	}
	return out
}

// Edges returns the tile's unrotated (rotation 0) edge labels.
func (t Tile) Edges() Edges {
	return t.edges
}

// At returns the tile's edge labels at the given rotation (0..3).
// Panics if rot is out of range — callers are expected to validate
// rotation indices once at the boundary (pool load, CLI parsing).
func (t Tile) At(rot int) Edges {
	if rot < 0 || rot >= NumRotations {
		panic(fmt.Sprintf("puzzle: rotation %d out of range", rot))
	}
	return t.rotations[rot]
}

// String renders the tile for diagnostics, e.g. "Tile#3(N=1 E=2 S=0 W=4)".
func (t Tile) String() string {
	return fmt.Sprintf("Tile#%d(N=%d E=%d S=%d W=%d)", t.ID, t.edges[North], t.edges[East], t.edges[South], t.edges[West])
}

// opposite returns the side directly across a shared cell edge: a tile's
// East edge touches its neighbor's West edge, and so on.
func opposite(s Side) Side {
	return (s + 2) % NumSides
}
