package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
)

// MemoryStore keeps blobs in memory. Used by tests and local previews.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]memoryObject
	puts    int
	BaseURL string
	PutErr  error
}

type memoryObject struct {
	contentType string
	data        []byte
}

// NewMemoryStore returns an empty store serving keys under baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject), BaseURL: baseURL}
}

func (s *MemoryStore) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.PutErr != nil {
		return s.PutErr
	}
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	s.objects[cleaned] = memoryObject{contentType: contentType, data: buf.Bytes()}
	return nil
}

func (s *MemoryStore) PublicURL(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if _, ok := s.objects[cleaned]; !ok {
		return "", ErrNotFound
	}
	return s.BaseURL + "/" + cleaned, nil
}

func (s *MemoryStore) List(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Puts counts write attempts, including failed ones.
func (s *MemoryStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// Object returns the stored bytes for key.
func (s *MemoryStore) Object(key string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	return obj.data, obj.contentType, ok
}
