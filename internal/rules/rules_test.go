package rules

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/swapboard/internal/board"
)

func TestDefault_IsValid(t *testing.T) {
	r := Default()
	require.NoError(t, r.Validate())

	assert.Equal(t, 8, r.Rows)
	assert.Equal(t, 8, r.Cols)
	assert.Equal(t, 5, r.Colors())
	assert.Equal(t, 60*time.Second, r.TimeLimit())
	assert.Equal(t, board.ScoreWindows, r.Scoring)
	assert.False(t, r.SettleInitial)
}

func TestDefault_PaletteIsACopy(t *testing.T) {
	r := Default()
	r.Palette[0] = "Z"
	assert.Equal(t, "R", board.DefaultPalette[0])
}

func TestParse_EmptyFileYieldsDefaults(t *testing.T) {
	r, err := Parse([]byte(""), "empty.cue")
	require.NoError(t, err)
	assert.Equal(t, Default(), r)
}

func TestParse_Overrides(t *testing.T) {
	src := `
rows:           6
cols:           10
palette:        ["a", "b", "c"]
duration:       90
points:         5
scoring:        "unique"
settle_initial: true
`
	r, err := Parse([]byte(src), "custom.cue")
	require.NoError(t, err)

	assert.Equal(t, Rules{
		Rows:          6,
		Cols:          10,
		Palette:       []string{"a", "b", "c"},
		Duration:      90,
		Points:        5,
		Scoring:       board.ScoreUnique,
		SettleInitial: true,
	}, r)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"rows too small", "rows: 2"},
		{"cols too large", "cols: 33"},
		{"palette too short", `palette: ["R"]`},
		{"palette too long", `palette: ["1","2","3","4","5","6","7","8","9","0"]`},
		{"unknown scoring", `scoring: "best"`},
		{"negative duration", "duration: -1"},
		{"unknown field", "rowz: 8"},
		{"wrong type", `rows: "eight"`},
		{"syntax error", "rows: {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.cue")
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "got %T: %v", err, err)
		})
	}
}

func TestParse_PaletteSymbolChecks(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"multi-character", `palette: ["RR", "G"]`, "single character"},
		{"empty marker", `palette: [".", "G"]`, "reserved"},
		{"space", `palette: [" ", "G"]`, "reserved"},
		{"duplicate", `palette: ["R", "R"]`, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.cue")
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestValidate_NormalizesDecomposedSymbols(t *testing.T) {
	r := Default()
	r.Palette = []string{"e\u0301", "G"}

	require.NoError(t, r.Validate())
	assert.Equal(t, "\u00e9", r.Palette[0])
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Rules)
		field string
	}{
		{"rows", func(r *Rules) { r.Rows = 1 }, "rows"},
		{"cols", func(r *Rules) { r.Cols = 100 }, "cols"},
		{"palette", func(r *Rules) { r.Palette = nil }, "palette"},
		{"duration", func(r *Rules) { r.Duration = 0 }, "duration"},
		{"points", func(r *Rules) { r.Points = 0 }, "points"},
		{"scoring", func(r *Rules) { r.Scoring = "bogus" }, "scoring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Default()
			tt.mut(&r)

			err := r.Validate()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.cue")
	require.NoError(t, os.WriteFile(path, []byte("rows: 5\ncols: 5\n"), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rows)
	assert.Equal(t, 60, r.Duration)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
}

func TestLoadOrDefault(t *testing.T) {
	r, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), r)
}

func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{Field: "rows", Message: "too small"}
	assert.Equal(t, "rows: too small", err.Error())
}
