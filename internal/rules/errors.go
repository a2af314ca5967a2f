package rules

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// ValidationError reports a rule that is missing, malformed or out of range.
// Pos is set when the error came from a CUE file.
type ValidationError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ValidationError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// formatCUEError turns the first CUE error into a ValidationError carrying
// its source position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := "cue"
	if path := first.Path(); len(path) > 0 {
		field = path[len(path)-1]
	}
	ve := &ValidationError{Field: field, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ve.Pos = positions[0]
	}
	return ve
}
