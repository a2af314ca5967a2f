package rules

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaCUE string

// Load reads a CUE rules file. Fields left out take their schema defaults;
// unknown fields are rejected because #Rules is a closed definition.
func Load(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data, path)
}

// Parse compiles CUE source against the schema. filename is used only for
// error positions.
func Parse(data []byte, filename string) (Rules, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Rules{}, fmt.Errorf("compile rules schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Rules"))

	src := ctx.CompileBytes(data, cue.Filename(filename))
	if err := src.Err(); err != nil {
		return Rules{}, formatCUEError(err)
	}

	unified := def.Unify(src)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Rules{}, formatCUEError(err)
	}

	var r Rules
	if err := unified.Decode(&r); err != nil {
		return Rules{}, formatCUEError(err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}

	slog.Debug("rules loaded",
		"file", filename,
		"rows", r.Rows,
		"cols", r.Cols,
		"colors", len(r.Palette),
		"scoring", r.Scoring,
	)
	return r, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (Rules, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
