package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/clausediff"
)

func fixedClock() func() time.Time {
	t := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func sampleRecord(sim float64) clausediff.ChangeRecord {
	return clausediff.ChangeRecord{
		Modified: []clausediff.ModifiedClause{
			{OldText: "old clause text here", NewText: "new clause text here", Similarity: 0.8},
		},
		SimilarityScore: sim,
		TotalOldClauses: 1,
		TotalNewClauses: 1,
	}
}

func TestLedgerRecordAndTimeline(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(NewMemoryStore()).WithClock(fixedClock())

	first, err := ledger.Record(ctx, "gdpr", sampleRecord(0.8))
	require.NoError(t, err)
	second, err := ledger.Record(ctx, "gdpr", sampleRecord(0.6))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.Sequence)
	assert.Equal(t, uint64(2), second.Sequence)
	assert.Equal(t, first.ContentHash, second.PrevHash)
	assert.NotEmpty(t, first.EntryID)
	assert.True(t, second.Timestamp.After(first.Timestamp))

	timeline, err := ledger.Timeline(ctx, "gdpr")
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, first.EntryID, timeline[0].EntryID)
	assert.Equal(t, second.EntryID, timeline[1].EntryID)
}

func TestLedgerIsolatesRegulations(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(NewMemoryStore())

	_, err := ledger.Record(ctx, "gdpr", sampleRecord(0.8))
	require.NoError(t, err)

	timeline, err := ledger.Timeline(ctx, "eu-ai-act")
	require.NoError(t, err)
	assert.Empty(t, timeline)
}

func TestLedgerRejectsEmptyRegulationID(t *testing.T) {
	_, err := NewLedger(NewMemoryStore()).Record(context.Background(), "", sampleRecord(0.8))
	assert.Error(t, err)
}

func TestLedgerVerifyDetectsTampering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ledger := NewLedger(store).WithClock(fixedClock())

	for i := 0; i < 3; i++ {
		_, err := ledger.Record(ctx, "gdpr", sampleRecord(0.9))
		require.NoError(t, err)
	}
	require.NoError(t, ledger.Verify(ctx, "gdpr"))

	// Tamper with the middle entry's record.
	store.entries["gdpr"][1].Record.SimilarityScore = 0.1
	err := ledger.Verify(ctx, "gdpr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content hash mismatch")
}

func TestLedgerVerifyEmptyHistory(t *testing.T) {
	assert.NoError(t, NewLedger(NewMemoryStore()).Verify(context.Background(), "never-recorded"))
}

func TestJSONStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")

	ledger := NewLedger(NewJSONStore(path)).WithClock(fixedClock())
	entry, err := ledger.Record(ctx, "dora", sampleRecord(0.7))
	require.NoError(t, err)

	reopened := NewLedger(NewJSONStore(path))
	timeline, err := reopened.Timeline(ctx, "dora")
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, entry.EntryID, timeline[0].EntryID)
	assert.Equal(t, entry.ContentHash, timeline[0].ContentHash)
	require.NoError(t, reopened.Verify(ctx, "dora"))
}
