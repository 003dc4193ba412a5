package memory

import (
	"context"
	"sync"
)

// Store is an in-memory EntryMirror used in tests and local runs without
// Google credentials.
type Store struct {
	mu   sync.Mutex
	rows map[string][][]any
}

func New() *Store {
	return &Store{rows: map[string][][]any{}}
}

func (s *Store) Append(_ context.Context, table string, row []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := append([]any(nil), row...)
	s.rows[table] = append(s.rows[table], copied)
	return nil
}

// Rows returns a copy of everything appended to the given table.
func (s *Store) Rows(table string) [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows[table]))
	for i, r := range s.rows[table] {
		out[i] = append([]any(nil), r...)
	}
	return out
}
