package board

import "math/rand/v2"

// Source draws random integers in [0, n). *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// GlobalSource returns a Source backed by the shared math/rand/v2 generator.
func GlobalSource() Source { return globalSource{} }

// SeededSource returns a deterministic Source for the given seed.
func SeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomColor draws one of the first n palette colours.
func RandomColor(src Source, n int) Color {
	return Color(src.IntN(n) + 1)
}

// Fill randomizes every cell independently. Pre-existing matches are kept.
func Fill(g *Grid, src Source, colors int) {
	for i := range g.cells {
		g.cells[i] = RandomColor(src, colors)
	}
}

// FillSettled randomizes every cell, re-drawing any colour that would
// complete a horizontal or vertical triple with already placed cells. When
// the palette leaves no legal colour for a cell the random draw is kept.
func FillSettled(g *Grid, src Source, colors int) {
	allowed := make([]Color, 0, colors)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			allowed = allowed[:0]
			for k := 1; k <= colors; k++ {
				col := Color(k)
				if completesTriple(g, r, c, col) {
					continue
				}
				allowed = append(allowed, col)
			}
			p := Pos{Row: r, Col: c}
			if len(allowed) == 0 {
				g.Set(p, RandomColor(src, colors))
				continue
			}
			g.Set(p, allowed[src.IntN(len(allowed))])
		}
	}
}

// completesTriple checks the two cells to the left and the two above (r, c).
func completesTriple(g *Grid, r, c int, col Color) bool {
	if c >= 2 && g.At(Pos{r, c - 1}) == col && g.At(Pos{r, c - 2}) == col {
		return true
	}
	if r >= 2 && g.At(Pos{r - 1, c}) == col && g.At(Pos{r - 2, c}) == col {
		return true
	}
	return false
}
