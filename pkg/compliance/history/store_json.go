package history

import (
	"context"
	"sync"

	"github.com/qaisarkhan123/IRAQAF-Integrated-Regulatory-Compliant-Quality-Assurance-Framework-sub002/pkg/store"
)

// JSONStore keeps the whole history map in one JSON document. Every
// append loads the document, appends, and rewrites it atomically. Fine
// for a single process; multi-process deployments should prefer the
// sqlitestore backend.
type JSONStore struct {
	mu  sync.Mutex
	doc *store.Document
}

// NewJSONStore creates a store backed by the JSON document at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{doc: store.NewDocument(path)}
}

func (s *JSONStore) load() (map[string][]Entry, error) {
	m := make(map[string][]Entry)
	if err := s.doc.Load(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// Append implements Store.
func (s *JSONStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[entry.RegulationID] = append(m[entry.RegulationID], entry)
	return s.doc.Save(m)
}

// Timeline implements Store.
func (s *JSONStore) Timeline(_ context.Context, regulationID string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return nil, err
	}
	return m[regulationID], nil
}

// Head implements Store.
func (s *JSONStore) Head(_ context.Context, regulationID string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return nil, err
	}
	entries := m[regulationID]
	if len(entries) == 0 {
		return nil, nil
	}
	head := entries[len(entries)-1]
	return &head, nil
}
