package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/swapboard/internal/engine"
	"github.com/roach88/swapboard/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// HistoryResult is the list of recorded sessions plus the best one.
type HistoryResult struct {
	Sessions []engine.Summary `json:"sessions"`
	Best     *engine.Summary  `json:"best,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded sessions",
		Long: `List the sessions recorded in a ledger, most recent first, along with
the best score ever recorded.

Examples:
  swapboard history --db ./swapboard.db
  swapboard history --db ./swapboard.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of sessions to list (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := openLedger(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := st.ListSessions(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	result := HistoryResult{Sessions: sessions}
	best, ok, err := st.BestScore(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read best score", err)
	}
	if ok {
		result.Best = &best
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result})
	}

	outputHistoryText(cmd.OutOrStdout(), result)
	return nil
}

// openLedger opens an existing ledger. A missing file is a command error
// rather than a fresh empty ledger.
func openLedger(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path), err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func outputHistoryText(w io.Writer, result HistoryResult) {
	if len(result.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return
	}

	fmt.Fprintf(w, "%-38s %5s %6s %6s %8s %7s\n", "SESSION", "BOARD", "SCORE", "SWAPS", "REVERTED", "CASCADE")
	for _, s := range result.Sessions {
		fmt.Fprintf(w, "%-38s %5s %6d %6d %8d %7d\n",
			s.SessionID,
			fmt.Sprintf("%dx%d", s.Rows, s.Cols),
			s.Score,
			s.Stats.Accepted,
			s.Stats.Reverted,
			s.Stats.LongestCascade)
	}

	if result.Best != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Best score: %d (%s)\n", result.Best.Score, result.Best.SessionID)
	}
}
