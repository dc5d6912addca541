package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists entries as a single JSON document on disk, the durable
// analog of browser localStorage. The file is loaded once at construction
// and rewritten atomically (write temp, rename) after every mutation.
//
// Known limitation: two processes sharing the same path are not coordinated,
// the same way two browser tabs racing on localStorage are not.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
	quota   int
	used    int
}

// NewFileStore loads or creates the store file at path.
func NewFileStore(path string) (*FileStore, error) {
	return NewFileStoreWithQuota(path, DefaultQuotaBytes)
}

// NewFileStoreWithQuota loads or creates the store file with an explicit
// byte quota. Quota <= 0 means unlimited.
func NewFileStoreWithQuota(path string, quota int) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		entries: make(map[string]string),
		quota:   quota,
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.entries); err != nil {
			return nil, fmt.Errorf("parse state file %s: %w", path, err)
		}
	}
	for k, v := range s.entries {
		s.used += len(k) + len(v)
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.used + len(key) + len(value)
	prev, had := s.entries[key]
	if had {
		next -= len(key) + len(prev)
	}
	if s.quota > 0 && next > s.quota {
		return ErrQuotaExceeded
	}
	s.entries[key] = value
	if err := s.flushLocked(); err != nil {
		// Roll back so memory matches disk.
		if had {
			s.entries[key] = prev
		} else {
			delete(s.entries, key)
		}
		return err
	}
	s.used = next
	return nil
}

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.entries[key]
	if !ok {
		return nil
	}
	delete(s.entries, key)
	if err := s.flushLocked(); err != nil {
		s.entries[key] = prev
		return err
	}
	s.used -= len(key) + len(prev)
	return nil
}

func (s *FileStore) flushLocked() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
