package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemStore is an in-memory DocumentStore used by tests and local tooling.
// Collections preserve insertion order, matching the backing database's
// behavior. All reads return deep copies; callers can mutate results freely.
type MemStore struct {
	mu          sync.Mutex
	collections map[string][]*memDoc
}

type memDoc struct {
	id   string
	data map[string]interface{}
}

func NewMemStore() *MemStore {
	return &MemStore{collections: map[string][]*memDoc{}}
}

func (s *MemStore) GetDocument(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.collections[collection] {
		if doc.id == id {
			return cloneDoc(doc.data)
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) GetCollection(ctx context.Context, collection string) ([]Doc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.collections[collection]
	out := make([]Doc, 0, len(docs))
	for _, doc := range docs {
		data, err := cloneDoc(doc.data)
		if err != nil {
			return nil, err
		}
		out = append(out, Doc{ID: doc.id, Data: data})
	}
	return out, nil
}

func (s *MemStore) SetDocument(ctx context.Context, collection, id string, data map[string]interface{}) error {
	copied, err := cloneDoc(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.collections[collection] {
		if doc.id == id {
			doc.data = copied
			return nil
		}
	}
	s.collections[collection] = append(s.collections[collection], &memDoc{id: id, data: copied})
	return nil
}

func (s *MemStore) UpdateDocument(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	copied, err := cloneDoc(patch)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.collections[collection] {
		if doc.id == id {
			for key, value := range copied {
				doc.data[key] = value
			}
			return nil
		}
	}
	return ErrNotFound
}

func cloneDoc(data map[string]interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
