package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string         `json:"name"`
	Count int            `json:"count"`
	Tags  map[string]int `json:"tags,omitempty"`
}

func TestDocumentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := NewDocument(filepath.Join(dir, "state.json"))

	in := payload{Name: "gdpr", Count: 3, Tags: map[string]int{"a": 1}}
	require.NoError(t, doc.Save(in))

	var out payload
	require.NoError(t, doc.Load(&out))
	assert.Equal(t, in, out)
}

func TestDocumentLoadMissingFile(t *testing.T) {
	doc := NewDocument(filepath.Join(t.TempDir(), "absent.json"))

	out := payload{Name: "unchanged"}
	require.NoError(t, doc.Load(&out))
	assert.Equal(t, "unchanged", out.Name, "missing file must leave value untouched")
}

func TestDocumentLoadCorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	var out payload
	require.NoError(t, NewDocument(path).Load(&out))
	assert.Zero(t, out)
}

func TestDocumentSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	doc := NewDocument(filepath.Join(dir, "state.json"))

	require.NoError(t, doc.Save(payload{Name: "v1"}))
	require.NoError(t, doc.Save(payload{Name: "v2"}))

	var out payload
	require.NoError(t, doc.Load(&out))
	assert.Equal(t, "v2", out.Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files may survive a save")
}

func TestDocumentRejectsNonRegularFile(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "actually-a-dir")
	require.NoError(t, os.Mkdir(sub, 0o700))

	var out payload
	err := NewDocument(sub).Load(&out)
	assert.Error(t, err)
}
