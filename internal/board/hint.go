package board

// Swap is a pair of adjacent positions.
type Swap struct {
	A Pos `json:"a"`
	B Pos `json:"b"`
}

// FindSwaps lists every adjacent swap after which the board holds a match,
// scanning right and down neighbours in row-major order. Acceptance uses a
// full-board scan, so a match elsewhere on the grid also qualifies a swap.
func FindSwaps(g *Grid) []Swap {
	work := g.Clone()
	var out []Swap
	for r := 0; r < work.rows; r++ {
		for c := 0; c < work.cols; c++ {
			a := Pos{r, c}
			for _, b := range []Pos{{r, c + 1}, {r + 1, c}} {
				if !work.InBounds(b) {
					continue
				}
				work.Swap(a, b)
				if HasMatch(&work) {
					out = append(out, Swap{A: a, B: b})
				}
				work.Swap(a, b)
			}
		}
	}
	return out
}

// HasMoves reports whether at least one swap would be accepted.
func HasMoves(g *Grid) bool {
	return len(FindSwaps(g)) > 0
}
