package filestore

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/arnvold/parts-catalog-service/internal/apperr"
)

// Op identifies a store operation for fault injection.
type Op string

const (
	OpUpload Op = "upload"
	OpDelete Op = "delete"
	OpMove   Op = "move"
	OpExists Op = "exists"
)

// Memory is an in-memory Store for tests and local development. The Hook, if
// set, runs before each operation and may return an error to inject a
// failure; the operation is then not applied.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte

	Hook func(op Op, name string) error
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (s *Memory) hook(op Op, name string) error {
	if s.Hook != nil {
		return s.Hook(op, name)
	}
	return nil
}

func (s *Memory) URL(name string) string {
	return "mem://" + name
}

func (s *Memory) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.hook(OpUpload, name); err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[name]; ok {
		return "", apperr.Newf(apperr.CodeNameConflict, "object %q already exists", name)
	}
	s.objects[name] = data
	return s.URL(name), nil
}

func (s *Memory) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.hook(OpDelete, name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[name]; !ok {
		return apperr.Newf(apperr.CodeNotFound, "object %q not found", name)
	}
	delete(s.objects, name)
	return nil
}

func (s *Memory) Move(ctx context.Context, oldName, newName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.hook(OpMove, oldName); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[oldName]
	if !ok {
		return "", apperr.Newf(apperr.CodeNotFound, "move source %q not found", oldName)
	}
	if _, occupied := s.objects[newName]; occupied {
		return "", apperr.Newf(apperr.CodeNameConflict, "move %s -> %s: target occupied", oldName, newName)
	}
	delete(s.objects, oldName)
	s.objects[newName] = data
	return s.URL(newName), nil
}

func (s *Memory) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.hook(OpExists, name); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[name]
	return ok, nil
}

// Names returns the sorted object names currently held. For assertions.
func (s *Memory) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Put seeds an object directly, bypassing hooks. For test setup.
func (s *Memory) Put(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = data
}
