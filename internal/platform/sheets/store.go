package sheets

import (
	"context"
	"sync"
)

// Store hands out one Table per schema so every repository writing to the
// same table shares its lock.
type Store struct {
	client Client
	mu     sync.Mutex
	tables map[string]*Table
}

func NewStore(client Client) *Store {
	return &Store{client: client, tables: make(map[string]*Table)}
}

func (s *Store) Client() Client { return s.client }

// Table returns the shared Table for schema.
func (s *Store) Table(schema Schema) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[schema.Name]; ok {
		return t
	}
	t := NewTable(s.client, schema)
	s.tables[schema.Name] = t
	return t
}

// RunInTx runs fn directly. The spreadsheet has no transactions, so a failure
// in fn leaves earlier writes in place.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
