package files

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"kyccore/pkg/platform/sentinel"
)

type memFile struct {
	data      []byte
	createdAt time.Time
	mode      fs.FileMode
}

// MemoryStore is an in-memory Store for tests and local tooling.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]memFile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]memFile)}
}

// Put stores data under ref with owner-read permissions.
func (s *MemoryStore) Put(ref string, data []byte, createdAt time.Time) {
	s.PutWithMode(ref, data, createdAt, 0o644)
}

// PutWithMode stores data under ref with an explicit mode.
func (s *MemoryStore) PutWithMode(ref string, data []byte, createdAt time.Time, mode fs.FileMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[ref] = memFile{data: append([]byte(nil), data...), createdAt: createdAt, mode: mode}
}

// Remove deletes ref.
func (s *MemoryStore) Remove(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, ref)
}

func (s *MemoryStore) Stat(ctx context.Context, ref string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[ref]
	if !ok {
		return Info{}, fmt.Errorf("stat %s: %w", ref, sentinel.ErrNotFound)
	}
	return Info{
		Ref:       ref,
		Name:      BaseName(ref),
		Size:      int64(len(f.data)),
		CreatedAt: f.createdAt,
		Mode:      f.mode,
	}, nil
}

func (s *MemoryStore) Read(ctx context.Context, ref string, limit int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[ref]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", ref, sentinel.ErrNotFound)
	}
	if f.mode.Perm()&0o400 == 0 {
		return nil, fmt.Errorf("open %s: %w", ref, fs.ErrPermission)
	}
	data := f.data
	if limit > 0 && int64(len(data)) > limit {
		data = data[:limit]
	}
	return append([]byte(nil), data...), nil
}
