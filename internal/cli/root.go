package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/swapboard/internal/rules"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Rules   string // path to a CUE rules file; empty means defaults
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the swapboard CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "swapboard",
		Short: "swapboard - a match-3 board engine",
		Long: `A match-3 board engine: swap adjacent tiles, clear lines of three or more,
let the board fall and refill, and score the cascade.

Play in the terminal, run scripted scenarios, simulate games with a bot
and browse the session ledger.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			setupLogging(opts, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Rules, "rules", "", "rules file (CUE); defaults apply when omitted")

	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// setupLogging installs the default logger: text on stderr, debug level
// with --verbose.
func setupLogging(opts *RootOptions, w io.Writer) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadRules loads --rules, or the defaults when it is not set.
func loadRules(opts *RootOptions) (rules.Rules, error) {
	r, err := rules.LoadOrDefault(opts.Rules)
	if err != nil {
		return rules.Rules{}, WrapExitError(ExitCommandError, "failed to load rules", err)
	}
	return r, nil
}
