package puzzle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func threeByThreePool() []Tile {
	// A minimal pool whose statically-valid placements are easy to reason
	// about: tile 1 is a corner tile (two border edges, both zero).
	return []Tile{
		NewTile(1, Edges{0, 1, 2, 0}),
		NewTile(2, Edges{0, 3, 4, 1}),
		NewTile(3, Edges{0, 0, 5, 3}),
		NewTile(4, Edges{2, 6, 7, 0}),
		NewTile(5, Edges{4, 8, 9, 6}),
		NewTile(6, Edges{5, 0, 10, 8}),
		NewTile(7, Edges{7, 11, 0, 0}),
		NewTile(8, Edges{9, 12, 0, 11}),
		NewTile(9, Edges{10, 0, 0, 12}),
	}
}

func TestDomainInitializeRespectsBorderMask(t *testing.T) {
	cc := NewCellConstraints(3, 3)
	tiles := threeByThreePool()
	dm := NewDomainManager(3, 3, len(tiles))
	dm.Initialize(tiles, cc)

	// Tile 5 (center tile, no border edges) can never legally sit in a
	// corner cell: every rotation keeps all four edges non-zero, but the
	// corner requires two zero edges.
	corner := dm.At(0, 0)
	corner.Iterate(func(tileIdx, rotation int) {
		if tileIdx == 4 { // tile id 5
			t.Fatalf("tile 5 should never fit the corner cell, got rotation %d", rotation)
		}
	})
}

func TestCellDomainRemoveAndSingleton(t *testing.T) {
	d := NewCellDomain(2)
	d.Add(0, 0)
	d.Add(0, 1)
	require.Equal(t, 2, d.Count())
	require.False(t, d.IsSingleton())

	require.True(t, d.Remove(0, 1))
	require.True(t, d.IsSingleton())
	tileIdx, rot := d.SingletonValue()
	require.Equal(t, 0, tileIdx)
	require.Equal(t, 0, rot)

	require.True(t, d.Remove(0, 0))
	require.True(t, d.IsEmpty())
}

func TestDomainSaveRestoreRoundTrips(t *testing.T) {
	dm := NewDomainManager(1, 1, 2)
	dm.At(0, 0).Add(0, 0)
	dm.At(0, 0).Add(1, 2)
	snap := dm.Save(0, 0)

	dm.Remove(0, 0, 0, 0)
	require.Equal(t, 1, dm.At(0, 0).Count())

	dm.Restore(0, 0, snap)
	require.Equal(t, 2, dm.At(0, 0).Count())
}
