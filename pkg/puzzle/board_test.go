package puzzle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoardPlaceAndRemoveInvert(t *testing.T) {
	b := NewBoard(2, 2, 4)
	p := Placement{TileID: 1, Rotation: 0, Edges: Edges{0, 5, 6, 0}}

	require.NoError(t, b.Place(0, 0, p))
	require.True(t, b.IsFilled(0, 0))
	require.True(t, b.UsedTiles().Has(1))
	require.Equal(t, 1, b.FilledCount())

	require.NoError(t, b.Remove(0, 0))
	require.False(t, b.IsFilled(0, 0))
	require.False(t, b.UsedTiles().Has(1))
	require.Equal(t, 0, b.FilledCount())
}

func TestBoardRejectsDuplicateTile(t *testing.T) {
	b := NewBoard(2, 2, 4)
	p := Placement{TileID: 1, Rotation: 0, Edges: Edges{0, 5, 6, 0}}
	require.NoError(t, b.Place(0, 0, p))
	err := b.Place(0, 1, Placement{TileID: 1, Rotation: 1, Edges: Edges{0, 6, 5, 0}})
	require.Error(t, err)
}

func TestBoardRejectsOccupiedCell(t *testing.T) {
	b := NewBoard(2, 2, 4)
	p := Placement{TileID: 1, Rotation: 0, Edges: Edges{0, 5, 6, 0}}
	require.NoError(t, b.Place(0, 0, p))
	err := b.Place(0, 0, Placement{TileID: 2, Rotation: 0, Edges: Edges{0, 6, 5, 0}})
	require.Error(t, err)
}

func TestBoardValidateCatchesBorderViolation(t *testing.T) {
	cc := NewCellConstraints(2, 2)
	b := NewBoard(2, 2, 4)
	// (0,0) has North and West facing the border; a non-zero West label
	// there must fail validation.
	require.NoError(t, b.Place(0, 0, Placement{TileID: 1, Rotation: 0, Edges: Edges{0, 5, 6, 9}}))
	require.Error(t, b.Validate(cc))
}

func TestBoardValidateCatchesEdgeMismatch(t *testing.T) {
	cc := NewCellConstraints(1, 2)
	b := NewBoard(1, 2, 2)
	require.NoError(t, b.Place(0, 0, Placement{TileID: 1, Rotation: 0, Edges: Edges{0, 5, 0, 0}}))
	require.NoError(t, b.Place(0, 1, Placement{TileID: 2, Rotation: 0, Edges: Edges{0, 0, 0, 9}}))
	require.Error(t, b.Validate(cc))
}

func TestBoardSnapshotIsIndependent(t *testing.T) {
	b := NewBoard(1, 1, 1)
	require.NoError(t, b.Place(0, 0, Placement{TileID: 1, Rotation: 0, Edges: Edges{0, 0, 0, 0}}))
	snap := b.Snapshot()
	require.NoError(t, b.Remove(0, 0))
	require.True(t, snap.IsFilled(0, 0))
	require.False(t, b.IsFilled(0, 0))
}
