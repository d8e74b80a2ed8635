package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileStore keeps a collection in a single JSON document on disk, in the
// same shape the storefront reads directly (a top-level array, indented).
//
// Writes go through a temp file and rename, so a crashed save leaves the
// previous document intact. A per-store mutex serializes Update cycles;
// cross-process writers are not coordinated (single-operator deployment).
type FileStore[T any] struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFileStore creates a file-backed store for the collection at path.
func NewFileStore[T any](path string, logger *zap.Logger) *FileStore[T] {
	return &FileStore[T]{path: path, logger: logger}
}

func (s *FileStore[T]) Load(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore[T]) loadLocked() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Collection unreadable, treating as empty",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
		return []T{}, nil
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("Collection malformed, treating as empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (s *FileStore[T]) Save(ctx context.Context, records []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(records)
}

func (s *FileStore[T]) saveLocked(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrWriteFailed, s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrWriteFailed, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: temp file: %v", ErrWriteFailed, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrWriteFailed, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: sync %s: %v", ErrWriteFailed, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", ErrWriteFailed, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename %s: %v", ErrWriteFailed, s.path, err)
	}
	return nil
}

// Update holds the store lock across the whole load-mutate-save cycle.
func (s *FileStore[T]) Update(ctx context.Context, mutate func(records []T) ([]T, error)) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	next, err := mutate(records)
	if err != nil {
		return nil, err
	}
	if err := s.saveLocked(next); err != nil {
		return nil, err
	}
	return next, nil
}
