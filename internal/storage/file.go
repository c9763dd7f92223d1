package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileStorage persiste todas las claves en un unico archivo JSON.
// Sobrevive reinicios del proceso igual que localStorage sobrevive recargas.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

func NewFileStorage(path string, logger *zap.Logger) *FileStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStorage{path: path, logger: logger}
}

func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, _, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (s *FileStorage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, _, err := s.load()
	if err != nil {
		return err
	}
	items[key] = value
	return s.save(items)
}

func (s *FileStorage) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, corrupt, err := s.load()
	if err != nil {
		return err
	}
	changed := corrupt
	for _, k := range keys {
		if _, ok := items[k]; ok {
			delete(items, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(items)
}

// load trata un archivo ilegible como vacio y lo informa en corrupt para
// que Delete lo reescriba aunque no haya claves que borrar.
func (s *FileStorage) load() (items map[string]string, corrupt bool, err error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read storage file: %w", err)
	}
	items = make(map[string]string)
	if len(data) == 0 {
		return items, false, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("storage file unreadable, starting empty", zap.String("path", s.path), zap.Error(err))
		return make(map[string]string), true, nil
	}
	return items, false, nil
}

func (s *FileStorage) save(items map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".storage-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
