package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShowCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewShowCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestShowCommand_Text(t *testing.T) {
	db, sim := seededLedger(t)

	out, err := runShowCmd(t, "text", "--db", db, "test-session-1")
	require.NoError(t, err)

	assert.Contains(t, out, "Session: test-session-1")
	assert.Contains(t, out, "Board:   8x8, 5 colours")
	assert.Contains(t, out, "=== Swaps ===")
	assert.Contains(t, out, "=== Stats ===")
	if sim.Games[0].Swaps > 0 {
		assert.Contains(t, out, " accepted +")
	} else {
		assert.Contains(t, out, "(no swaps)")
	}
}

func TestShowCommand_JSON(t *testing.T) {
	db, sim := seededLedger(t)

	out, err := runShowCmd(t, "json", "--db", db, "test-session-2")
	require.NoError(t, err)

	var response struct {
		Status string     `json:"status"`
		Data   ShowResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)

	game := sim.Games[1]
	assert.Equal(t, "test-session-2", response.Data.Session.SessionID)
	assert.Equal(t, game.Score, response.Data.Session.Score)
	require.Len(t, response.Data.Swaps, game.Swaps)

	total := 0
	for i, r := range response.Data.Swaps {
		assert.Equal(t, "accepted", r.Status)
		assert.True(t, r.A.Adjacent(r.B))
		assert.Len(t, r.GridHash, 64)
		if i > 0 {
			assert.Greater(t, r.Seq, response.Data.Swaps[i-1].Seq)
		}
		total += r.ScoreDelta
	}
	assert.Equal(t, game.Score, total)
}

func TestShowCommand_NotFound(t *testing.T) {
	db, _ := seededLedger(t)

	out, err := runShowCmd(t, "json", "--db", db, "nope")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, ErrCodeNotFound, response.Error.Code)
}

func TestShowCommand_MissingDatabase(t *testing.T) {
	_, err := runShowCmd(t, "text", "--db", filepath.Join(t.TempDir(), "missing.db"), "x")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
