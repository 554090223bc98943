// Package history is the change-history ledger: detected regulation
// changes are appended per regulation ID and queried back as a timeline.
// Entries are hash-chained; Verify walks a regulation's chain and reports
// the first break.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"

	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/compliance/clausediff"
)

const genesisHash = "genesis"

// Entry is one recorded change for a regulation. Immutable once appended.
type Entry struct {
	EntryID      string                  `json:"entry_id"`
	RegulationID string                  `json:"regulation_id"`
	Sequence     uint64                  `json:"sequence"`
	Timestamp    time.Time               `json:"timestamp"`
	ContentHash  string                  `json:"content_hash"`
	PrevHash     string                  `json:"prev_hash"`
	Record       clausediff.ChangeRecord `json:"record"`
}

// Store persists history entries keyed by regulation ID.
type Store interface {
	// Append adds an entry to the regulation's list.
	Append(ctx context.Context, entry Entry) error
	// Timeline returns a regulation's entries in insertion order, which is
	// chronological order since entries are only ever appended.
	Timeline(ctx context.Context, regulationID string) ([]Entry, error)
	// Head returns the most recently appended entry, or nil if none.
	Head(ctx context.Context, regulationID string) (*Entry, error)
}

// Ledger records change records against regulation IDs.
type Ledger struct {
	store Store
	clock func() time.Time
}

// NewLedger creates a ledger over the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, clock: time.Now}
}

// WithClock overrides the clock for deterministic tests.
func (l *Ledger) WithClock(clock func() time.Time) *Ledger {
	l.clock = clock
	return l
}

// Record appends a change record to the regulation's history and returns
// the stored entry.
func (l *Ledger) Record(ctx context.Context, regulationID string, rec clausediff.ChangeRecord) (Entry, error) {
	if regulationID == "" {
		return Entry{}, fmt.Errorf("regulation id must not be empty")
	}

	head, err := l.store.Head(ctx, regulationID)
	if err != nil {
		return Entry{}, fmt.Errorf("read head for %s: %w", regulationID, err)
	}

	prevHash := genesisHash
	var seq uint64 = 1
	if head != nil {
		prevHash = head.ContentHash
		seq = head.Sequence + 1
	}

	contentHash, err := hashRecord(regulationID, seq, prevHash, rec)
	if err != nil {
		return Entry{}, fmt.Errorf("hash record for %s: %w", regulationID, err)
	}

	entry := Entry{
		EntryID:      uuid.NewString(),
		RegulationID: regulationID,
		Sequence:     seq,
		Timestamp:    l.clock(),
		ContentHash:  contentHash,
		PrevHash:     prevHash,
		Record:       rec,
	}
	if err := l.store.Append(ctx, entry); err != nil {
		return Entry{}, fmt.Errorf("append entry for %s: %w", regulationID, err)
	}
	return entry, nil
}

// Timeline returns a regulation's recorded changes in chronological order.
func (l *Ledger) Timeline(ctx context.Context, regulationID string) ([]Entry, error) {
	return l.store.Timeline(ctx, regulationID)
}

// Verify walks a regulation's chain and returns an error at the first
// entry whose linkage or content hash does not check out.
func (l *Ledger) Verify(ctx context.Context, regulationID string) error {
	entries, err := l.store.Timeline(ctx, regulationID)
	if err != nil {
		return err
	}

	prev := genesisHash
	for i, e := range entries {
		if e.PrevHash != prev {
			return fmt.Errorf("entry %d of %s: prev hash mismatch", i, regulationID)
		}
		want, err := hashRecord(regulationID, e.Sequence, e.PrevHash, e.Record)
		if err != nil {
			return err
		}
		if e.ContentHash != want {
			return fmt.Errorf("entry %d of %s: content hash mismatch", i, regulationID)
		}
		prev = e.ContentHash
	}
	return nil
}

// hashRecord computes a deterministic hash over the JCS-canonicalized
// record plus its chain position.
func hashRecord(regulationID string, seq uint64, prevHash string, rec clausediff.ChangeRecord) (string, error) {
	payload := struct {
		RegulationID string                  `json:"regulation_id"`
		Sequence     uint64                  `json:"sequence"`
		PrevHash     string                  `json:"prev_hash"`
		Record       clausediff.ChangeRecord `json:"record"`
	}{regulationID, seq, prevHash, rec}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(h[:]), nil
}
