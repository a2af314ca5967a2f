package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/swapboard/internal/board"
	"github.com/roach88/swapboard/internal/engine"
	"github.com/roach88/swapboard/internal/rules"
	"github.com/roach88/swapboard/internal/store"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Games    int
	Swaps    int
	Database string
	Seed     uint64

	// SessionIDs overrides the session ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	SessionIDs engine.SessionIDGenerator

	seeded bool
}

// GameResult is the outcome of one simulated game.
type GameResult struct {
	SessionID      string `json:"session_id"`
	Score          int    `json:"score"`
	Swaps          int    `json:"swaps"`
	Passes         int    `json:"passes"`
	LongestCascade int    `json:"longest_cascade"`
	Stuck          bool   `json:"stuck"` // ran out of moves before the swap limit
}

// SimulateResult holds the outcome of all games.
type SimulateResult struct {
	Games []GameResult `json:"games"`
	Best  int          `json:"best"`
	Total int          `json:"total"`
}

// String renders the result as a table.
func (r SimulateResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-38s %6s %6s %7s %8s\n", "GAME", "SESSION", "SCORE", "SWAPS", "PASSES", "CASCADE")
	for i, g := range r.Games {
		stuck := ""
		if g.Stuck {
			stuck = " (no moves)"
		}
		fmt.Fprintf(&b, "%-4d %-38s %6d %6d %7d %8d%s\n",
			i+1, g.SessionID, g.Score, g.Swaps, g.Passes, g.LongestCascade, stuck)
	}
	fmt.Fprintf(&b, "\nBest score: %d, total: %d\n", r.Best, r.Total)
	return b.String()
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play games with a hint-following bot",
		Long: `Play games with a bot that always makes the first swap the hint search
finds. Each game runs until the swap limit or until no move is left.

With --seed the boards and refills are reproducible: game N uses seed+N.
With --db every game is written to the ledger.

Example:
  swapboard simulate --games 10 --swaps 50
  swapboard simulate --games 3 --seed 7 --db ./swapboard.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seeded = cmd.Flags().Changed("seed")
			return runSimulate(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Games, "games", 1, "number of games")
	cmd.Flags().IntVar(&opts.Swaps, "swaps", 100, "swap limit per game")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record games in this SQLite ledger")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for reproducible games")

	return cmd
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command) error {
	if opts.Games < 1 {
		return NewExitError(ExitCommandError, "--games must be at least 1")
	}
	if opts.Swaps < 1 {
		return NewExitError(ExitCommandError, "--swaps must be at least 1")
	}

	r, err := loadRules(opts.RootOptions)
	if err != nil {
		return err
	}

	var recorder engine.Recorder
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		recorder = st
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result := SimulateResult{Games: make([]GameResult, 0, opts.Games)}
	for i := 0; i < opts.Games; i++ {
		game, err := simulateGame(ctx, opts, r, recorder, i)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("game %d failed", i+1), err)
		}
		result.Games = append(result.Games, game)
		result.Total += game.Score
		if game.Score > result.Best {
			result.Best = game.Score
		}
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(result)
}

func simulateGame(ctx context.Context, opts *SimulateOptions, r rules.Rules, recorder engine.Recorder, n int) (GameResult, error) {
	engineOpts := []engine.Option{engine.WithLogger(slog.Default())}
	if opts.seeded {
		engineOpts = append(engineOpts, engine.WithSource(board.SeededSource(opts.Seed+uint64(n))))
	}
	if opts.SessionIDs != nil {
		engineOpts = append(engineOpts, engine.WithSessionIDs(opts.SessionIDs))
	}
	if recorder != nil {
		engineOpts = append(engineOpts, engine.WithRecorder(recorder))
	}

	eng, err := engine.New(r, engineOpts...)
	if err != nil {
		return GameResult{}, err
	}

	stuck := false
	for swaps := 0; swaps < opts.Swaps; swaps++ {
		hint, ok := eng.Hint()
		if !ok {
			stuck = true
			break
		}
		out := eng.TrySwap(ctx, hint.A, hint.B)
		if !out.Accepted() {
			// A hint is always a matching swap on the current board.
			return GameResult{}, fmt.Errorf("hint %s-%s was %s", hint.A, hint.B, out.Status)
		}
	}

	sum := eng.End(ctx)
	slog.Debug("game simulated",
		"game", n+1,
		"session", sum.SessionID,
		"score", sum.Score,
		"stuck", stuck)

	return GameResult{
		SessionID:      sum.SessionID,
		Score:          sum.Score,
		Swaps:          sum.Stats.Accepted,
		Passes:         sum.Stats.Passes,
		LongestCascade: sum.Stats.LongestCascade,
		Stuck:          stuck,
	}, nil
}
