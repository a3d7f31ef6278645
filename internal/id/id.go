// Package id generates and parses the identifiers used across the repo:
// UUIDs for imported bank transactions and "YYYY-MM-NNN" entry IDs for
// accepted journal entries.
package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NewTransactionID returns a fresh UUID for an imported bank transaction.
func NewTransactionID() string {
	return uuid.NewString()
}

// FormatEntryID returns an entry ID like "2025-01-001".
func FormatEntryID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// FormatLegID returns a leg ID like "2025-01-001a" (leg 0='a', 1='b', etc.).
func FormatLegID(entryID string, leg int) string {
	return entryID + string(rune('a'+leg))
}

// ParseEntryID parses "2025-01-001" (or a leg ID) into year, month, seq.
func ParseEntryID(id string) (year, month, seq int, err error) {
	base := EntryGroup(id)

	parts := strings.SplitN(base, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid entry ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in entry ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in entry ID %q: %w", id, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in entry ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// EntryGroup strips the leg suffix from a leg ID.
// "2025-01-001a" -> "2025-01-001"
func EntryGroup(legID string) string {
	i := len(legID)
	for i > 0 && legID[i-1] >= 'a' && legID[i-1] <= 'z' {
		i--
	}
	return legID[:i]
}
