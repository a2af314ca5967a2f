package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/swapboard/internal/rules"
)

// RuleError is one rules problem as reported by validate.
type RuleError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Rules  *rules.Rules `json:"rules,omitempty"`
	Errors []RuleError  `json:"errors,omitempty"`
}

// String renders the resolved rules for text output.
func (r ValidationResult) String() string {
	var b strings.Builder
	b.WriteString("✓ Rules valid\n")
	if r.Rules != nil {
		fmt.Fprintf(&b, "  board:    %dx%d\n", r.Rules.Rows, r.Rules.Cols)
		fmt.Fprintf(&b, "  palette:  %s\n", strings.Join(r.Rules.Palette, " "))
		fmt.Fprintf(&b, "  duration: %ds\n", r.Rules.Duration)
		fmt.Fprintf(&b, "  points:   %d (%s)\n", r.Rules.Points, r.Rules.Scoring)
		fmt.Fprintf(&b, "  settle:   %t\n", r.Rules.SettleInitial)
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rules.cue>",
		Short: "Validate a rules file",
		Long: `Validate a CUE rules file against the rules schema.

Prints the resolved rules, defaults included, when the file is valid.

Exit codes:
  0 - Rules valid
  1 - Rules invalid
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Validating %s", path)

	r, err := rules.Load(path)
	if err != nil {
		var ve *rules.ValidationError
		if errors.As(err, &ve) {
			return outputValidationErrors(formatter, []RuleError{toRuleError(ve)})
		}
		_ = formatter.Error(ErrCodeRulesInvalid, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load rules", err)
	}

	return formatter.Success(ValidationResult{Valid: true, Rules: &r})
}

func toRuleError(ve *rules.ValidationError) RuleError {
	re := RuleError{Field: ve.Field, Message: ve.Message}
	if ve.Pos.IsValid() {
		re.Line = ve.Pos.Line()
	}
	return re
}

// outputValidationErrors outputs validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []RuleError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    ErrCodeRulesInvalid,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
