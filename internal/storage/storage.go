// Package storage ofrece un almacen clave-valor durable equivalente al
// localStorage del navegador. Los valores son strings opacos.
package storage

import (
	"context"
	"errors"
	"sync"
)

// Storage es el contrato minimo que necesita el token store.
type Storage interface {
	// Get devuelve false si la clave no existe.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete ignora claves inexistentes.
	Delete(ctx context.Context, keys ...string) error
}

var ErrEmptyKey = errors.New("storage: empty key")

type memoryStorage struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryStorage crea un almacen en memoria, util en tests y demos.
func NewMemoryStorage() Storage {
	return &memoryStorage{items: make(map[string]string)}
}

func (s *memoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *memoryStorage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}
