package auditlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []Entry {
	ts := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	return []Entry{
		{
			Timestamp:     ts,
			Action:        "categorize",
			TransactionID: "txn-1",
			Details:       "3 suggestions, top confidence 0.92",
		},
		{
			Timestamp:     ts.Add(time.Minute),
			Action:        "accept",
			TransactionID: "txn-1",
			EntryID:       "2025-03-001",
			Details:       "auto-confirmed",
			CommitHash:    "abc1234",
		},
	}
}

func TestAppendRead(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, Append(root, sampleEntries()))

	got, err := Read(root)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "categorize", got[0].Action)
	assert.Equal(t, "txn-1", got[0].TransactionID)
	assert.Empty(t, got[0].EntryID)
	assert.Equal(t, "accept", got[1].Action)
	assert.Equal(t, "2025-03-001", got[1].EntryID)
	assert.Equal(t, "abc1234", got[1].CommitHash)
	assert.True(t, got[0].Timestamp.Equal(sampleEntries()[0].Timestamp))
}

func TestAppend_AccumulatesAcrossCalls(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, Append(root, sampleEntries()[:1]))
	require.NoError(t, Append(root, sampleEntries()[1:]))

	got, err := Read(root)
	require.NoError(t, err)
	assert.Len(t, got, 2, "header is written once")
}

func TestRead_MissingIsEmpty(t *testing.T) {
	got, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnmarshalEntry_Rejects(t *testing.T) {
	_, err := UnmarshalEntry([]string{"short"})
	require.Error(t, err)

	_, err = UnmarshalEntry([]string{"not-a-time", "accept", "txn-1", "", "", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp")
}
