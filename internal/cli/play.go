package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/roach88/swapboard/internal/engine"
	"github.com/roach88/swapboard/internal/store"
	"github.com/roach88/swapboard/internal/tui"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	LogFile  string
	Database string

	// NewScreen creates the terminal screen (for testing).
	// If nil, defaults to tcell.NewScreen.
	NewScreen func() (tcell.Screen, error)
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a timed game in the terminal",
		Long: `Play a timed game in the terminal.

Move with the arrow keys or the mouse, pick a tile with space or enter and
pick a neighbour to swap them. h shows a hint, r restarts, q quits.

The terminal belongs to the game while it runs, so logs go to --log or
are discarded. With --db the session is written to the ledger.

Example:
  swapboard play
  swapboard play --rules ./rules.cue --db ./swapboard.db --log ./play.log`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.LogFile, "log", "", "write logs to this file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the session in this SQLite ledger")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	r, err := loadRules(opts.RootOptions)
	if err != nil {
		return err
	}

	logger, closeLog, err := playLogger(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	engineOpts := []engine.Option{engine.WithLogger(logger)}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		engineOpts = append(engineOpts, engine.WithRecorder(st))
	}

	newScreen := opts.NewScreen
	if newScreen == nil {
		newScreen = tcell.NewScreen
	}
	screen, err := newScreen()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create screen", err)
	}
	if err := screen.Init(); err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize screen", err)
	}
	screen.EnableMouse()

	ui := tui.New(screen, tui.WithLogger(logger))
	engineOpts = append(engineOpts, engine.WithObserver(ui))

	eng, err := engine.New(r, engineOpts...)
	if err != nil {
		screen.Fini()
		return WrapExitError(ExitCommandError, "failed to start engine", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("game starting", "session", eng.Session().ID, "rows", r.Rows, "cols", r.Cols)
	runErr := ui.Run(ctx, eng)
	screen.Fini()

	summary := eng.End(context.Background())
	logger.Info("game over", "session", summary.SessionID, "score", summary.Score)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return WrapExitError(ExitFailure, "game error", runErr)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(playResult(summary))
}

// playResult is the text and JSON form of a finished game.
type playResult engine.Summary

func (p playResult) String() string {
	return fmt.Sprintf("Final score: %d (%d swaps, longest cascade %d)\n",
		p.Score, p.Stats.Accepted, p.Stats.LongestCascade)
}

func playLogger(opts *PlayOptions) (*slog.Logger, func(), error) {
	if opts.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open log file", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
