package board

import (
	"fmt"
	"strings"
)

// Color is a tile colour. Empty marks a cleared cell; palette colours are
// numbered from 1.
type Color uint8

// Empty is the transient colour of a cleared cell.
const Empty Color = 0

// Pos addresses a cell by row (top is 0) and column (left is 0).
type Pos struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Adjacent reports whether q is a 4-directional neighbour of p.
func (p Pos) Adjacent(q Pos) bool {
	dr, dc := abs(p.Row-q.Row), abs(p.Col-q.Col)
	return dr+dc == 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Grid is a rectangular board of colours stored row-major.
type Grid struct {
	rows  int
	cols  int
	cells []Color
}

// NewGrid returns an all-Empty grid. Non-positive dimensions yield an empty grid.
func NewGrid(rows, cols int) Grid {
	if rows <= 0 || cols <= 0 {
		return Grid{}
	}
	return Grid{rows: rows, cols: cols, cells: make([]Color, rows*cols)}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// At returns the colour at p. Out-of-bounds positions read as Empty.
func (g *Grid) At(p Pos) Color {
	if !g.InBounds(p) {
		return Empty
	}
	return g.cells[p.Row*g.cols+p.Col]
}

// Set writes c at p. Out-of-bounds writes are dropped.
func (g *Grid) Set(p Pos, c Color) {
	if !g.InBounds(p) {
		return
	}
	g.cells[p.Row*g.cols+p.Col] = c
}

// Swap exchanges the colours at a and b.
func (g *Grid) Swap(a, b Pos) {
	ca, cb := g.At(a), g.At(b)
	g.Set(a, cb)
	g.Set(b, ca)
}

// Clone returns an independent copy.
func (g *Grid) Clone() Grid {
	out := Grid{rows: g.rows, cols: g.cols}
	if g.cells != nil {
		out.cells = make([]Color, len(g.cells))
		copy(out.cells, g.cells)
	}
	return out
}

// Equal reports whether both grids have the same shape and colours.
func (g *Grid) Equal(o *Grid) bool {
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Full reports whether no cell is Empty.
func (g *Grid) Full() bool {
	for _, c := range g.cells {
		if c == Empty {
			return false
		}
	}
	return true
}

// Column returns a copy of column col, top to bottom.
func (g *Grid) Column(col int) []Color {
	out := make([]Color, 0, g.rows)
	for r := 0; r < g.rows; r++ {
		out = append(out, g.At(Pos{Row: r, Col: col}))
	}
	return out
}

// Format renders the grid as one string per row using the palette symbols.
func (g *Grid) Format(p Palette) []string {
	lines := make([]string, g.rows)
	var sb strings.Builder
	for r := 0; r < g.rows; r++ {
		sb.Reset()
		for c := 0; c < g.cols; c++ {
			sb.WriteString(p.Symbol(g.At(Pos{Row: r, Col: c})))
		}
		lines[r] = sb.String()
	}
	return lines
}

func (g *Grid) String() string {
	return strings.Join(g.Format(nil), "\n")
}

// ParseGrid builds a grid from rows of palette symbols ('.' is Empty).
// Every row must have the same number of symbols.
func ParseGrid(lines []string, p Palette) (Grid, error) {
	if len(lines) == 0 {
		return Grid{}, fmt.Errorf("grid has no rows")
	}
	cols := len([]rune(lines[0]))
	if cols == 0 {
		return Grid{}, fmt.Errorf("grid row 0 is empty")
	}
	g := NewGrid(len(lines), cols)
	for r, line := range lines {
		runes := []rune(line)
		if len(runes) != cols {
			return Grid{}, fmt.Errorf("grid row %d has %d cells, want %d", r, len(runes), cols)
		}
		for c, sym := range runes {
			color, ok := p.Color(string(sym))
			if !ok {
				return Grid{}, fmt.Errorf("grid row %d col %d: unknown symbol %q", r, c, sym)
			}
			g.Set(Pos{Row: r, Col: c}, color)
		}
	}
	return g, nil
}

// MustParseGrid is ParseGrid for fixtures; it panics on error.
func MustParseGrid(p Palette, lines ...string) Grid {
	g, err := ParseGrid(lines, p)
	if err != nil {
		panic(err)
	}
	return g
}
