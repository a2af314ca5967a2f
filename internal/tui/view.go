package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/roach88/swapboard/internal/board"
	"github.com/roach88/swapboard/internal/engine"
)

// Board layout on screen.
const (
	originX = 2
	originY = 2
	cellW   = 3
)

const helpText = "arrows/click: move  space: pick  h: hint  r: restart  q: quit"

// tileColors holds the background of each palette colour, in palette order.
var tileColors = []tcell.Color{
	tcell.ColorRed,
	tcell.ColorGreen,
	tcell.ColorBlue,
	tcell.ColorYellow,
	tcell.ColorPurple,
	tcell.ColorTeal,
	tcell.ColorOrange,
	tcell.ColorFuchsia,
	tcell.ColorSilver,
}

// view is everything one screen shows.
type view struct {
	grid      board.Grid
	palette   board.Palette
	session   engine.Session
	cursor    board.Pos
	selection *board.Pos
	hint      *board.Swap
	status    string
}

func tileStyle(c board.Color) tcell.Style {
	if c == board.Empty {
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
	bg := tileColors[int(c-1)%len(tileColors)]
	return tcell.StyleDefault.Background(bg).Foreground(tcell.ColorBlack)
}

// render draws v and shows it.
func render(s tcell.Screen, v view) {
	s.Clear()

	header := fmt.Sprintf("Score %d   Time %d", v.session.Score, v.session.Remaining)
	if !v.session.Running {
		header = fmt.Sprintf("Score %d   Time up", v.session.Score)
	}
	putString(s, originX, 0, header, tcell.StyleDefault.Bold(true))

	for r := 0; r < v.grid.Rows(); r++ {
		for c := 0; c < v.grid.Cols(); c++ {
			p := board.Pos{Row: r, Col: c}
			drawCell(s, v, p)
		}
	}

	y := originY + v.grid.Rows() + 1
	if v.status != "" {
		putString(s, originX, y, v.status, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	putString(s, originX, y+1, helpText, tcell.StyleDefault.Dim(true))

	s.Show()
}

func drawCell(s tcell.Screen, v view, p board.Pos) {
	col := v.grid.At(p)
	style := tileStyle(col)

	if v.selection != nil && *v.selection == p {
		style = style.Reverse(true)
	}
	if v.hint != nil && (v.hint.A == p || v.hint.B == p) {
		style = style.Bold(true).Underline(true)
	}

	x, y := screenPos(p)
	left, right := ' ', ' '
	if v.session.Running && v.cursor == p {
		left, right = '[', ']'
	}
	sym := []rune(v.palette.Symbol(col))[0]
	s.SetContent(x, y, left, nil, style)
	s.SetContent(x+1, y, sym, nil, style)
	s.SetContent(x+2, y, right, nil, style)
}

// screenPos returns the left column and the row of a cell.
func screenPos(p board.Pos) (int, int) {
	return originX + p.Col*cellW, originY + p.Row
}

// cellAt maps a screen coordinate back to a cell of g.
func cellAt(g *board.Grid, x, y int) (board.Pos, bool) {
	if x < originX || y < originY {
		return board.Pos{}, false
	}
	p := board.Pos{Row: y - originY, Col: (x - originX) / cellW}
	return p, g.InBounds(p)
}

func putString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
