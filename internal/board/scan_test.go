package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swapboard/internal/testutil"
)

func TestScan_RunOfFourFlagsOverlappingWindows(t *testing.T) {
	g := MustParseGrid(DefaultPalette, "RRRR")

	m := Scan(&g)

	assert.Equal(t, []Pos{{0, 0}, {0, 1}, {0, 2}, {0, 1}, {0, 2}, {0, 3}}, m.Flags)
	assert.Len(t, m.Unique(), 4)
	require.Len(t, m.Runs, 1)
	assert.Equal(t, Run{Start: Pos{0, 0}, Length: 4, Horizontal: true, Color: 1}, m.Runs[0])
}

func TestScan_IntersectionCountsCornerTwice(t *testing.T) {
	g := MustParseGrid(DefaultPalette,
		"RRR",
		"RGB",
		"RBG",
	)

	m := Scan(&g)

	assert.Equal(t, []Pos{{0, 0}, {0, 1}, {0, 2}, {0, 0}, {1, 0}, {2, 0}}, m.Flags)
	assert.Len(t, m.Unique(), 5)
	assert.Len(t, m.Runs, 2)
}

func TestScan_IgnoresEmptyCells(t *testing.T) {
	g := MustParseGrid(DefaultPalette,
		"...",
		".G.",
		".G.",
	)

	assert.True(t, Scan(&g).Empty())
	assert.False(t, HasMatch(&g))
}

func TestScan_NoMatch(t *testing.T) {
	g := MustParseGrid(DefaultPalette,
		"RGB",
		"GBR",
		"RGB",
	)

	m := Scan(&g)
	assert.True(t, m.Empty())
	assert.Nil(t, m.Runs)
	assert.False(t, HasMatch(&g))
}

func TestRun_Cells(t *testing.T) {
	r := Run{Start: Pos{1, 2}, Length: 3}
	assert.Equal(t, []Pos{{1, 2}, {2, 2}, {3, 2}}, r.Cells())

	r.Horizontal = true
	assert.Equal(t, []Pos{{1, 2}, {1, 3}, {1, 4}}, r.Cells())
}

func TestCollapse_PreservesOrder(t *testing.T) {
	// Column top to bottom: [A, empty, B, empty, empty]
	g := MustParseGrid(DefaultPalette, "R", ".", "G", ".", ".")

	moves := Collapse(&g)

	assert.Equal(t, []string{".", ".", ".", "R", "G"}, g.Format(DefaultPalette))
	assert.Equal(t, []Move{{Col: 0, From: 2, To: 4}, {Col: 0, From: 0, To: 3}}, moves)
}

func TestCollapse_ColumnsAreIndependent(t *testing.T) {
	g := MustParseGrid(DefaultPalette,
		"RG",
		"..",
		"B.",
	)

	Collapse(&g)

	assert.Equal(t, []string{"..", "R.", "BG"}, g.Format(DefaultPalette))
}

func TestRefill_TopDownPerColumn(t *testing.T) {
	g := MustParseGrid(DefaultPalette,
		"..",
		".G",
	)
	src := testutil.NewScriptedSource(0, 1, 2)

	filled := Refill(&g, src, 5)

	assert.Equal(t, []Pos{{0, 0}, {1, 0}, {0, 1}}, filled)
	assert.Equal(t, []string{"RB", "GG"}, g.Format(DefaultPalette))
	assert.True(t, g.Full())
}
