package memory

import (
	"context"
	"fmt"
	"sync"
	"xmlstore/core"
)

type documentStore struct {
	mu        sync.RWMutex
	documents map[string][]byte
}

func NewDocumentStore() core.DocumentStore {
	return &documentStore{documents: make(map[string][]byte)}
}

func (s *documentStore) Save(ctx context.Context, document *core.Document) (string, error) {
	data := make([]byte, len(document.Content))
	copy(data, document.Content)

	s.mu.Lock()
	s.documents[document.Name] = data
	s.mu.Unlock()
	return s.path(document.Name), nil
}

func (s *documentStore) Load(ctx context.Context, name string) (*core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if val, ok := s.documents[name]; ok {
		return &core.Document{Name: name, Content: val}, nil
	}
	return nil, fmt.Errorf("%w: %s", core.ErrNotFound, name)
}

func (s *documentStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[name]; !ok {
		return fmt.Errorf("%w: %s", core.ErrNotFound, name)
	}
	delete(s.documents, name)
	return nil
}

func (s *documentStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.documents))
	for name := range s.documents {
		names = append(names, name)
	}
	return names, nil
}

func (s *documentStore) Location() string {
	return "memory://"
}

func (s *documentStore) path(name string) string {
	return s.Location() + name
}
