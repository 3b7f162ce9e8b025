package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore supports local dev and unit tests when no managed store is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]Item // table -> id -> item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: map[string]map[string]Item{},
	}
}

var _ RecordStore = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, table, id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.tables[table][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneItem(item), nil
}

func (s *MemoryStore) Put(_ context.Context, table string, item Item) error {
	id, _ := item["id"].(string)
	if id == "" {
		return fmt.Errorf("item id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tables[table] == nil {
		s.tables[table] = map[string]Item{}
	}
	s.tables[table][id] = cloneItem(item)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, table, id string, fields Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.tables[table][id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range fields {
		item[k] = v
	}
	s.tables[table][id] = item
	return cloneItem(item), nil
}

func (s *MemoryStore) Delete(_ context.Context, table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[table][id]; !ok {
		return ErrNotFound
	}
	delete(s.tables[table], id)
	return nil
}

func (s *MemoryStore) Scan(_ context.Context, table string, filter func(Item) bool) ([]Item, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, 0, len(s.tables[table]))
	for _, item := range s.tables[table] {
		if filter != nil && !filter(item) {
			continue
		}
		items = append(items, cloneItem(item))
	}
	return items, len(items), nil
}

// cloneItem shallow-copies one level; nested values are JSON scalars/slices written whole.
func cloneItem(item Item) Item {
	out := make(Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
