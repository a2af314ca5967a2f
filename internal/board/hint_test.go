package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindSwaps_ReturnsOnlyMatchingSwaps(t *testing.T) {
	g := MustParseGrid(DefaultPalette,
		"RGR",
		"GRG",
		"BYB",
	)
	before := g.Clone()

	swaps := FindSwaps(&g)

	assert.Contains(t, swaps, Swap{A: Pos{0, 1}, B: Pos{1, 1}})
	for _, s := range swaps {
		work := g.Clone()
		work.Swap(s.A, s.B)
		assert.True(t, HasMatch(&work), "swap %v-%v should match", s.A, s.B)
	}
	assert.True(t, g.Equal(&before), "search must not mutate the grid")
}

func TestFindSwaps_NoMoves(t *testing.T) {
	g := MustParseGrid(nil, "123", "456", "789")

	assert.Empty(t, FindSwaps(&g))
	assert.False(t, HasMoves(&g))
}

func TestFindSwaps_SameColourSwapKeepsExistingMatch(t *testing.T) {
	g := MustParseGrid(DefaultPalette,
		"RRR",
		"GBY",
		"BYG",
	)

	swaps := FindSwaps(&g)

	// Exchanging two equal tiles leaves the existing run in place.
	assert.Contains(t, swaps, Swap{A: Pos{0, 0}, B: Pos{0, 1}})
	assert.Contains(t, swaps, Swap{A: Pos{0, 1}, B: Pos{0, 2}})
}
