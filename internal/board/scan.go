package board

// MinRun is the shortest line of equal colours that clears.
const MinRun = 3

// Run is a maximal line of at least MinRun equal non-empty colours.
type Run struct {
	Start      Pos   `json:"start"`
	Length     int   `json:"length"`
	Horizontal bool  `json:"horizontal"`
	Color      Color `json:"color"`
}

// Cells lists the positions covered by the run.
func (r Run) Cells() []Pos {
	out := make([]Pos, r.Length)
	for i := range out {
		if r.Horizontal {
			out[i] = Pos{Row: r.Start.Row, Col: r.Start.Col + i}
		} else {
			out[i] = Pos{Row: r.Start.Row + i, Col: r.Start.Col}
		}
	}
	return out
}

// Match is the result of one scan.
//
// Flags holds one entry per cell of every matching window, in scan order:
// all horizontal windows row by row, then all vertical windows. A cell
// covered by several windows appears several times.
type Match struct {
	Runs  []Run
	Flags []Pos
}

// Empty reports whether the scan found nothing to clear.
func (m Match) Empty() bool { return len(m.Flags) == 0 }

// Unique returns Flags with duplicates removed, first occurrence kept.
func (m Match) Unique() []Pos {
	seen := make(map[Pos]struct{}, len(m.Flags))
	out := make([]Pos, 0, len(m.Flags))
	for _, p := range m.Flags {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Scan examines every row and column of g.
func Scan(g *Grid) Match {
	var m Match

	for r := 0; r < g.rows; r++ {
		for c := 0; c+MinRun <= g.cols; c++ {
			if window(g, Pos{r, c}, 0, 1) {
				m.Flags = append(m.Flags, Pos{r, c}, Pos{r, c + 1}, Pos{r, c + 2})
			}
		}
	}
	for r := 0; r+MinRun <= g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if window(g, Pos{r, c}, 1, 0) {
				m.Flags = append(m.Flags, Pos{r, c}, Pos{r + 1, c}, Pos{r + 2, c})
			}
		}
	}

	if len(m.Flags) > 0 {
		m.Runs = runs(g)
	}
	return m
}

// HasMatch reports whether any window of MinRun equal colours exists.
func HasMatch(g *Grid) bool {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			p := Pos{r, c}
			if c+MinRun <= g.cols && window(g, p, 0, 1) {
				return true
			}
			if r+MinRun <= g.rows && window(g, p, 1, 0) {
				return true
			}
		}
	}
	return false
}

func window(g *Grid, p Pos, dr, dc int) bool {
	col := g.At(p)
	if col == Empty {
		return false
	}
	for i := 1; i < MinRun; i++ {
		if g.At(Pos{p.Row + dr*i, p.Col + dc*i}) != col {
			return false
		}
	}
	return true
}

// runs collects maximal runs, horizontal first.
func runs(g *Grid) []Run {
	var out []Run
	for r := 0; r < g.rows; r++ {
		start := 0
		for c := 1; c <= g.cols; c++ {
			if c < g.cols && g.At(Pos{r, c}) == g.At(Pos{r, start}) {
				continue
			}
			if n := c - start; n >= MinRun && g.At(Pos{r, start}) != Empty {
				out = append(out, Run{Start: Pos{r, start}, Length: n, Horizontal: true, Color: g.At(Pos{r, start})})
			}
			start = c
		}
	}
	for c := 0; c < g.cols; c++ {
		start := 0
		for r := 1; r <= g.rows; r++ {
			if r < g.rows && g.At(Pos{r, c}) == g.At(Pos{start, c}) {
				continue
			}
			if n := r - start; n >= MinRun && g.At(Pos{start, c}) != Empty {
				out = append(out, Run{Start: Pos{start, c}, Length: n, Color: g.At(Pos{start, c})})
			}
			start = r
		}
	}
	return out
}

// Clear empties every flagged cell.
func Clear(g *Grid, flags []Pos) {
	for _, p := range flags {
		g.Set(p, Empty)
	}
}

// Move records a tile falling within a column during a collapse.
type Move struct {
	Col  int `json:"col"`
	From int `json:"from"`
	To   int `json:"to"`
}

// Collapse compacts each column downward, keeping the relative order of
// its non-empty cells and leaving the Empty cells at the top.
func Collapse(g *Grid) []Move {
	var moves []Move
	for c := 0; c < g.cols; c++ {
		dst := g.rows - 1
		for r := g.rows - 1; r >= 0; r-- {
			col := g.At(Pos{r, c})
			if col == Empty {
				continue
			}
			if r != dst {
				g.Set(Pos{dst, c}, col)
				g.Set(Pos{r, c}, Empty)
				moves = append(moves, Move{Col: c, From: r, To: dst})
			}
			dst--
		}
	}
	return moves
}

// Refill fills every Empty cell with a random colour, column by column,
// each column top-down. It returns the filled positions in fill order.
func Refill(g *Grid, src Source, colors int) []Pos {
	var filled []Pos
	for c := 0; c < g.cols; c++ {
		for r := 0; r < g.rows; r++ {
			p := Pos{r, c}
			if g.At(p) != Empty {
				continue
			}
			g.Set(p, RandomColor(src, colors))
			filled = append(filled, p)
		}
	}
	return filled
}
