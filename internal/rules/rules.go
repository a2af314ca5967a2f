// Package rules defines the tunable parameters of a game and loads them
// from CUE files validated against an embedded schema.
package rules

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/swapboard/internal/board"
)

// Rules are the parameters of one game.
type Rules struct {
	Rows          int           `json:"rows"`
	Cols          int           `json:"cols"`
	Palette       []string      `json:"palette"`
	Duration      int           `json:"duration"` // seconds
	Points        int           `json:"points"`   // per flagged cell
	Scoring       board.Scoring `json:"scoring"`
	SettleInitial bool          `json:"settle_initial"`
}

// Default returns the classic 8x8, five colour, 60 second game.
func Default() Rules {
	return Rules{
		Rows:     8,
		Cols:     8,
		Palette:  append([]string(nil), board.DefaultPalette...),
		Duration: 60,
		Points:   board.DefaultPoints,
		Scoring:  board.ScoreWindows,
	}
}

// BoardPalette returns the palette as board symbols.
func (r Rules) BoardPalette() board.Palette {
	return board.Palette(r.Palette)
}

// Colors returns the number of tile colours.
func (r Rules) Colors() int { return len(r.Palette) }

// TimeLimit returns Duration as a time.Duration.
func (r Rules) TimeLimit() time.Duration {
	return time.Duration(r.Duration) * time.Second
}

// Validate checks rules built in Go. Rules loaded through Load have already
// passed the CUE schema; Validate repeats the bounds and adds the symbol
// checks the schema cannot express.
func (r *Rules) Validate() error {
	if r.Rows < 3 || r.Rows > 32 {
		return &ValidationError{Field: "rows", Message: fmt.Sprintf("must be between 3 and 32, got %d", r.Rows)}
	}
	if r.Cols < 3 || r.Cols > 32 {
		return &ValidationError{Field: "cols", Message: fmt.Sprintf("must be between 3 and 32, got %d", r.Cols)}
	}
	if n := len(r.Palette); n < 2 || n > 9 {
		return &ValidationError{Field: "palette", Message: fmt.Sprintf("must have 2 to 9 colours, got %d", n)}
	}
	if r.Duration <= 0 {
		return &ValidationError{Field: "duration", Message: "must be positive"}
	}
	if r.Points <= 0 {
		return &ValidationError{Field: "points", Message: "must be positive"}
	}
	switch r.Scoring {
	case board.ScoreWindows, board.ScoreUnique:
	default:
		return &ValidationError{Field: "scoring", Message: fmt.Sprintf("unknown mode %q", r.Scoring)}
	}
	return r.normalizePalette()
}

// normalizePalette NFC-normalizes symbols so composed and decomposed forms
// of the same character compare equal, then requires one printable,
// non-space rune per symbol with no repeats.
func (r *Rules) normalizePalette() error {
	seen := make(map[string]bool, len(r.Palette))
	for i, sym := range r.Palette {
		sym = norm.NFC.String(sym)
		r.Palette[i] = sym

		if utf8.RuneCountInString(sym) != 1 {
			return &ValidationError{Field: "palette", Message: fmt.Sprintf("symbol %q must be a single character", sym)}
		}
		ru, _ := utf8.DecodeRuneInString(sym)
		if sym == board.EmptySymbol || unicode.IsSpace(ru) || !unicode.IsPrint(ru) {
			return &ValidationError{Field: "palette", Message: fmt.Sprintf("symbol %q is reserved or not printable", sym)}
		}
		if seen[sym] {
			return &ValidationError{Field: "palette", Message: fmt.Sprintf("duplicate symbol %q", sym)}
		}
		seen[sym] = true
	}
	return nil
}
