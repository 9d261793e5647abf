package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymmetryBreakerRestrictsOnlyAnchor(t *testing.T) {
	sb := NewSymmetryBreaker()
	require.True(t, sb.Allows(0, 0, 0))
	require.True(t, sb.Allows(0, 0, 2))

	sb.ObserveFirstPlacement(0, 0)
	require.True(t, sb.Allows(0, 0, 0))
	require.False(t, sb.Allows(0, 0, 1))
	require.False(t, sb.Allows(0, 0, 2))

	// Other cells are never restricted.
	require.True(t, sb.Allows(1, 1, 3))

	sb.ObserveUndo(0, 0)
	require.True(t, sb.Allows(0, 0, 2))
}
