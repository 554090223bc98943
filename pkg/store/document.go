// Package store provides an atomic JSON document store.
// Each Document wraps a single file on disk. Writes go through a temp
// file, fsync, and rename so a crash never leaves a truncated document,
// and a per-document mutex serializes read-modify-write cycles within
// the process.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	// MaxDocumentBytes caps how much JSON a single document may hold.
	// Generous for years of snapshots, but stops a corrupted or hostile
	// file from exhausting the heap.
	MaxDocumentBytes = 64 * 1024 * 1024

	documentPerms = 0o600
)

// Document is a single JSON file with atomic replace-on-write.
type Document struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewDocument creates a Document backed by the given file path.
// The file does not need to exist yet.
func NewDocument(path string) *Document {
	return &Document{
		path:   filepath.Clean(path),
		logger: slog.Default().With("component", "store", "document", filepath.Base(path)),
	}
}

// Path returns the backing file path.
func (d *Document) Path() string { return d.path }

// Load decodes the document into v. A missing file is not an error: v is
// left untouched and the caller proceeds with its zero value. An unreadable
// or malformed file is logged and likewise treated as empty, per the
// engine's availability-over-consistency policy.
func (d *Document) Load(v any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	info, err := os.Stat(d.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		d.logger.Warn("stat failed, starting empty", "error", err)
		return nil
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("document %s is not a regular file", d.path)
	}

	f, err := os.Open(d.path)
	if err != nil {
		d.logger.Warn("open failed, starting empty", "error", err)
		return nil
	}
	defer f.Close()

	dec := json.NewDecoder(io.LimitReader(f, MaxDocumentBytes))
	if err := dec.Decode(v); err != nil {
		d.logger.Warn("decode failed, starting empty", "error", err)
		return nil
	}
	return nil
}

// Save encodes v and atomically replaces the document. The temp file is
// written in the same directory so the rename stays on one filesystem.
func (d *Document) Save(v any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpPath := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Chmod(tmpPath, documentPerms); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod document: %w", err)
	}
	if err := os.Rename(tmpPath, d.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
