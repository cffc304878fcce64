package storage

import (
	"context"
	"errors"
	"sync"
)

// InMemoryObjectStorage keeps objects in a map. Used by tests and by
// local development without an S3 backend.
type InMemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]stubObject
	baseURL string
}

type stubObject struct {
	data        []byte
	contentType string
}

// NewInMemoryObjectStorage creates an empty in-memory store.
func NewInMemoryObjectStorage(baseURL string) *InMemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://storage.local"
	}
	return &InMemoryObjectStorage{
		objects: make(map[string]stubObject),
		baseURL: baseURL,
	}
}

// Upload stores the object bytes under the key.
func (s *InMemoryObjectStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = stubObject{data: buf, contentType: contentType}
	return nil
}

// Delete removes the object under the key.
func (s *InMemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Exists reports whether the key holds an object.
func (s *InMemoryObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// ObjectURL returns the stub URL for a stored key.
func (s *InMemoryObjectStorage) ObjectURL(key string) string {
	return s.baseURL + "/" + key
}

// Get returns the stored bytes and content type, for test assertions.
func (s *InMemoryObjectStorage) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.data, obj.contentType, ok
}
