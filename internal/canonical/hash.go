package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/swapboard/internal/board"
)

// Domain prefixes for hashes. The version suffix leaves room for a
// different encoding later.
const (
	DomainGrid  = "swapboard/grid/v1"
	DomainTrace = "swapboard/trace/v1"
)

// HashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// GridHash identifies a board by shape and colour indices. Palette
// symbols are not part of the hash.
func GridHash(g *board.Grid) string {
	rows := g.Format(nil)
	cells := make([]any, len(rows))
	for i, r := range rows {
		cells[i] = r
	}
	data := MustMarshal(map[string]any{
		"rows":  g.Rows(),
		"cols":  g.Cols(),
		"cells": cells,
	})
	return HashWithDomain(DomainGrid, data)
}

// Hash marshals v canonically and hashes it under domain.
func Hash(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}
	return HashWithDomain(domain, data), nil
}
