package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/swapboard/internal/engine"
	"github.com/roach88/swapboard/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// ShowResult is one session with its swaps.
type ShowResult struct {
	Session engine.Summary     `json:"session"`
	Swaps   []store.SwapRecord `json:"swaps"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one recorded session",
		Long: `Show a recorded session summary and every settled swap in order.

Exit codes:
  0 - Session shown
  1 - Session not found
  2 - Command error (database not found, etc.)

Examples:
  swapboard show --db ./swapboard.db 01928f5e-7c1a-7000-8000-000000000000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, sessionID string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openLedger(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := st.ReadSession(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		msg := fmt.Sprintf("session not found: %s", sessionID)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitFailure, msg)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	swaps, err := st.ReadSwaps(ctx, sessionID)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read swaps", err)
	}

	result := ShowResult{Session: summary, Swaps: swaps}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result})
	}

	outputShowText(cmd.OutOrStdout(), result, opts.Verbose)
	return nil
}

func outputShowText(w io.Writer, result ShowResult, verbose bool) {
	s := result.Session

	fmt.Fprintf(w, "Session: %s\n", s.SessionID)
	fmt.Fprintf(w, "Board:   %dx%d, %d colours\n", s.Rows, s.Cols, s.Colors)
	fmt.Fprintf(w, "Score:   %d\n", s.Score)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Swaps ===")
	if len(result.Swaps) == 0 {
		fmt.Fprintln(w, "  (no swaps)")
	}
	for _, r := range result.Swaps {
		fmt.Fprintf(w, "  [%d] %s-%s %s", r.Seq, r.A, r.B, r.Status)
		if r.ScoreDelta > 0 {
			fmt.Fprintf(w, " +%d (%d passes, %d cleared)", r.ScoreDelta, r.Passes, r.Cleared)
		}
		fmt.Fprintln(w)
		if verbose && r.GridHash != "" {
			fmt.Fprintf(w, "      grid %s\n", r.GridHash)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Accepted:        %d\n", s.Stats.Accepted)
	fmt.Fprintf(w, "  Reverted:        %d\n", s.Stats.Reverted)
	fmt.Fprintf(w, "  Ignored:         %d\n", s.Stats.Ignored)
	fmt.Fprintf(w, "  Passes:          %d\n", s.Stats.Passes)
	fmt.Fprintf(w, "  Longest cascade: %d\n", s.Stats.LongestCascade)
	fmt.Fprintf(w, "  Cleared:         %d\n", s.Stats.Cleared)
}
