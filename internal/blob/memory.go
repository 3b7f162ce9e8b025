package blob

import (
	"context"
	"sync"
)

// MemoryStore supports local dev and unit tests when no object storage is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte // path -> data
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}}
}

var _ Store = (*MemoryStore)(nil)

const memoryURLPrefix = "memory://blobs/"

func (s *MemoryStore) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[path] = data
	return memoryURLPrefix + path, nil
}

func (s *MemoryStore) DeleteMany(_ context.Context, paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range paths {
		if len(path) > len(memoryURLPrefix) && path[:len(memoryURLPrefix)] == memoryURLPrefix {
			path = path[len(memoryURLPrefix):]
		}
		delete(s.objects, path)
	}
	return nil
}

// Len test helper
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
