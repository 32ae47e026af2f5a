package objectstore

import (
	"context"
	"io"
	"io/ioutil"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// InmemStore holds uploads in memory. Tests and the console setup use it.
type InmemStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ core.FileStore = (*InmemStore)(nil)

func NewInmemStore() *InmemStore {
	return &InmemStore{objects: make(map[string][]byte)}
}

func (s *InmemStore) Upload(_ context.Context, key string, r io.Reader) (string, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "reading object")
	}
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return key, nil
}

func (s *InmemStore) URL(path string) string {
	return "mem://" + path
}

// Object returns a stored object's content and whether it exists.
func (s *InmemStore) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}
