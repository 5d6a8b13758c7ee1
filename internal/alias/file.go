package alias

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// FileStore keeps the alias table in memory and rewrites one flat JSON
// object file wholesale after every successful mutation.
type FileStore struct {
	path    string
	mu      sync.Mutex
	entries map[string]string
	log     *logrus.Logger
}

func NewFileStore(path string, log *logrus.Logger) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		entries: make(map[string]string),
		log:     log,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// First run: an empty store is created on the first mutation.
			log.WithFields(logrus.Fields{"path": path}).Warn("Alias file not found, starting with empty store")
			return s, nil
		}
		return nil, fmt.Errorf("alias: read %s: %w", path, err)
	}

	var loaded map[string]string
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("alias: parse %s: %w", path, err)
	}

	for k, v := range loaded {
		s.entries[Normalize(k)] = Normalize(v)
	}

	log.WithFields(logrus.Fields{
		"path":  path,
		"count": len(s.entries),
	}).Info("Aliases loaded")

	return s, nil
}

func (s *FileStore) Get(aliasName string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.entries[Normalize(aliasName)]
	return target, ok
}

func (s *FileStore) Resolve(name string) string {
	normalized := Normalize(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if target, ok := s.entries[normalized]; ok {
		return target
	}
	return normalized
}

func (s *FileStore) Upsert(aliasName, target string) (UpsertStatus, error) {
	key := Normalize(aliasName)
	value := Normalize(target)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[key]; ok {
		if existing == value {
			return Unchanged, nil
		}
		return Conflict, nil
	}

	s.entries[key] = value

	if err := s.persistLocked(); err != nil {
		s.log.WithFields(logrus.Fields{
			"path":  s.path,
			"alias": key,
			"error": err.Error(),
		}).Error("Failed to persist aliases, mutation is session-only")
		return Added, err
	}

	return Added, nil
}

func (s *FileStore) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		copied[k] = v
	}
	return copied
}

func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *FileStore) persistLocked() error {
	raw, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("alias: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("alias: write %s: %w", s.path, err)
	}
	return nil
}
