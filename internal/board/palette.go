package board

import "strconv"

// EmptySymbol renders an Empty cell.
const EmptySymbol = "."

// DefaultPalette is the five-colour set of the classic board.
var DefaultPalette = Palette{"R", "G", "B", "Y", "P"}

// Palette names the colours: Palette[i] is the symbol of Color(i+1).
type Palette []string

// Size returns the number of non-empty colours.
func (p Palette) Size() int { return len(p) }

// Symbol returns the display symbol for c. A nil palette falls back to digits.
func (p Palette) Symbol(c Color) string {
	if c == Empty {
		return EmptySymbol
	}
	if int(c) <= len(p) {
		return p[c-1]
	}
	return strconv.Itoa(int(c))
}

// Color looks up the colour for a symbol.
func (p Palette) Color(sym string) (Color, bool) {
	if sym == EmptySymbol {
		return Empty, true
	}
	for i, s := range p {
		if s == sym {
			return Color(i + 1), true
		}
	}
	if p == nil {
		if n, err := strconv.Atoi(sym); err == nil && n > 0 && n < 256 {
			return Color(n), true
		}
	}
	return Empty, false
}
