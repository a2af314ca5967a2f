package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/swapboard/internal/board"
	"github.com/roach88/swapboard/internal/engine"
)

// SwapRecord is one settled swap as stored in the ledger.
type SwapRecord struct {
	SessionID  string    `json:"session_id"`
	Seq        int64     `json:"seq"`
	A          board.Pos `json:"a"`
	B          board.Pos `json:"b"`
	Status     string    `json:"status"`
	ScoreDelta int       `json:"score_delta"`
	Passes     int       `json:"passes"`
	Cleared    int       `json:"cleared"`
	GridHash   string    `json:"grid_hash"`
}

const sessionColumns = `id, board_rows, board_cols, colors, score, accepted, reverted, ignored,
	passes, longest_cascade, cleared, started_seq, ended_seq`

// ListSessions returns recorded sessions, most recently recorded first.
// A limit of zero or less returns all of them.
//
// Returns an empty slice (not nil) if nothing has been recorded.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]engine.Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		ORDER BY rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []engine.Summary{}
	for rows.Next() {
		sum, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadSession retrieves one session summary.
// The error wraps sql.ErrNoRows if the session was never recorded.
func (s *Store) ReadSession(ctx context.Context, id string) (engine.Summary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE id = ?
	`, id)

	sum, err := scanSession(row)
	if err != nil {
		return engine.Summary{}, fmt.Errorf("read session %s: %w", id, err)
	}
	return sum, nil
}

// BestScore returns the highest scoring session. ok is false when the
// ledger is empty.
func (s *Store) BestScore(ctx context.Context) (sum engine.Summary, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		ORDER BY score DESC, rowid ASC
		LIMIT 1
	`)

	sum, err = scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Summary{}, false, nil
	}
	if err != nil {
		return engine.Summary{}, false, fmt.Errorf("best score: %w", err)
	}
	return sum, true, nil
}

// ReadSwaps returns the swaps of a session ordered by seq.
//
// Returns an empty slice (not nil) if the session has no swaps.
func (s *Store) ReadSwaps(ctx context.Context, sessionID string) ([]SwapRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, a_row, a_col, b_row, b_col, status,
		       score_delta, passes, cleared, grid_hash
		FROM swaps
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query swaps: %w", err)
	}
	defer rows.Close()

	swaps := []SwapRecord{}
	for rows.Next() {
		var r SwapRecord
		if err := rows.Scan(
			&r.SessionID, &r.Seq,
			&r.A.Row, &r.A.Col, &r.B.Row, &r.B.Col,
			&r.Status, &r.ScoreDelta, &r.Passes, &r.Cleared, &r.GridHash,
		); err != nil {
			return nil, fmt.Errorf("scan swap: %w", err)
		}
		swaps = append(swaps, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swaps: %w", err)
	}
	return swaps, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (engine.Summary, error) {
	var sum engine.Summary
	err := sc.Scan(
		&sum.SessionID,
		&sum.Rows,
		&sum.Cols,
		&sum.Colors,
		&sum.Score,
		&sum.Stats.Accepted,
		&sum.Stats.Reverted,
		&sum.Stats.Ignored,
		&sum.Stats.Passes,
		&sum.Stats.LongestCascade,
		&sum.Stats.Cleared,
		&sum.StartedSeq,
		&sum.EndedSeq,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Summary{}, err
	}
	if err != nil {
		return engine.Summary{}, fmt.Errorf("scan session: %w", err)
	}
	return sum, nil
}

// Counts returns the number of recorded sessions and swaps.
func (s *Store) Counts(ctx context.Context) (sessions, swaps int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM sessions), (SELECT COUNT(*) FROM swaps)
	`).Scan(&sessions, &swaps)
	if err != nil {
		return 0, 0, fmt.Errorf("count ledger rows: %w", err)
	}
	return sessions, swaps, nil
}
