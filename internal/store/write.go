package store

import (
	"context"
	"fmt"

	"github.com/roach88/swapboard/internal/canonical"
	"github.com/roach88/swapboard/internal/engine"
)

var _ engine.Recorder = (*Store)(nil)

// RecordSwap appends a settled swap. Ignored input is not recorded.
// Uses ON CONFLICT DO NOTHING so a repeated (session, seq) is a no-op.
func (s *Store) RecordSwap(ctx context.Context, out engine.Outcome) error {
	if out.Status == engine.StatusIgnored {
		return nil
	}
	if out.SessionID == "" {
		return fmt.Errorf("record swap: missing session id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO swaps
		(session_id, seq, a_row, a_col, b_row, b_col, status, score_delta, passes, cleared, grid_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		out.SessionID,
		out.Seq,
		out.A.Row, out.A.Col,
		out.B.Row, out.B.Col,
		out.Status.String(),
		out.ScoreDelta,
		len(out.Passes),
		out.Cleared(),
		canonical.GridHash(&out.Grid),
	)
	if err != nil {
		return fmt.Errorf("record swap: %w", err)
	}
	return nil
}

// RecordSession stores a session summary. A session is recorded once;
// later writes for the same id are ignored.
func (s *Store) RecordSession(ctx context.Context, sum engine.Summary) error {
	if sum.SessionID == "" {
		return fmt.Errorf("record session: missing session id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions
		(id, board_rows, board_cols, colors, score, accepted, reverted, ignored, passes,
		 longest_cascade, cleared, started_seq, ended_seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sum.SessionID,
		sum.Rows,
		sum.Cols,
		sum.Colors,
		sum.Score,
		sum.Stats.Accepted,
		sum.Stats.Reverted,
		sum.Stats.Ignored,
		sum.Stats.Passes,
		sum.Stats.LongestCascade,
		sum.Stats.Cleared,
		sum.StartedSeq,
		sum.EndedSeq,
	)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}
