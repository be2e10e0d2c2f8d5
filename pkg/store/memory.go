package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/threadtree/pkg/digraph"
)

// MemoryStore keeps graphs in memory. Graphs are stored encoded so that
// callers never share a *digraph.Graph with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	meta  Record
	graph []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]memoryRecord)}
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, name string, g *digraph.Graph) (*Record, error) {
	data, err := encodeGraph(g)
	if err != nil {
		return nil, err
	}
	meta := Record{
		ID:        NewID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
	}

	s.mu.Lock()
	s.records[meta.ID] = memoryRecord{meta: meta, graph: data}
	s.mu.Unlock()

	rec := meta
	rec.Graph = g
	return &rec, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	r, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	g, err := decodeGraph(r.graph)
	if err != nil {
		return nil, err
	}
	rec := r.meta
	rec.Graph = g
	return &rec, nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	out := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		meta := r.meta
		out = append(out, &meta)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
