// Package taskstore persists the task list as a single JSON file in the
// application data directory.
//
// Load is fail-soft: a missing, unreadable or corrupt file yields an empty
// list. Save is fail-loud: every failure is returned to the caller.
package taskstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"todo/internal/service"
)

const (
	// FileName is the store file name inside the data directory.
	FileName = "tasks.json"

	dirMode  = 0o755
	fileMode = 0o644
)

// Store implements service.Store on top of <dir>/tasks.json.
type Store struct {
	mu   sync.Mutex // serializes Load and Save within the process
	path string
	log  *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded loads and saves.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a store rooted at dir. Nothing is touched on disk until Save.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		path: filepath.Join(dir, FileName),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored list, or an empty list if the file is missing,
// unreadable or not a valid task list. The result is never nil.
func (s *Store) Load() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("tasks file unreadable, starting empty", zap.String("path", s.path), zap.Error(err))
		}
		return []service.Task{}
	}

	tasks, err := decode(data)
	if err != nil {
		s.log.Warn("tasks file corrupt, starting empty", zap.String("path", s.path), zap.Error(err))
		return []service.Task{}
	}
	return tasks
}

// Save replaces the stored list with tasks. The directory is created if
// needed and the file is swapped in with a rename, so a failed Save leaves
// the previous content in place.
func (s *Store) Save(tasks []service.Task) error {
	data, err := encode(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := writeFile(dir, s.path, data); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}

	s.log.Debug("saved tasks", zap.String("path", s.path), zap.Int("count", len(tasks)))
	return nil
}

func decode(data []byte) ([]service.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []service.Task{}, nil
	}
	return service.DecodeTasks(data)
}

func encode(tasks []service.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []service.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// writeFile writes data to a temp file in dir and renames it over path.
func writeFile(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, FileName+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, fileMode); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
