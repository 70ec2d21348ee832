// Package draft implements the multi-step booking draft: a forward-only
// state machine persisted to a durable key-value store after every
// successful mutation, recoverable across sessions, and discarded cleanly
// when the stored payload is corrupt.
package draft

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Storage is the injected key-value store behind the draft. The production
// target is whatever durable per-session storage the host platform offers;
// FileStorage is the file-backed implementation shipped here and
// MemoryStorage backs tests.
type Storage interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (value string, ok bool, err error)
	// Set stores the value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(key string) error
}

// MemoryStorage is an in-process Storage for tests and ephemeral sessions.
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{m: make(map[string]string)}
}

// Get implements Storage.
func (s *MemoryStorage) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

// Set implements Storage.
func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

// Remove implements Storage.
func (s *MemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// FileStorage persists each key as a file under a directory. It is the
// durable analogue of per-browser local storage for native or server-side
// hosts of the booking flow.
type FileStorage struct {
	dir string
}

// NewFileStorage returns a FileStorage rooted at dir, creating it if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

// Get implements Storage.
func (s *FileStorage) Get(key string) (string, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

// Set implements Storage.
func (s *FileStorage) Set(key, value string) error {
	return os.WriteFile(s.path(key), []byte(value), 0o600)
}

// Remove implements Storage.
func (s *FileStorage) Remove(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
