package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"kyccore/pkg/platform/sentinel"
)

// LocalStore serves documents from a directory on disk. References are
// slash-separated paths relative to the root and cannot escape it.
//
// Creation time is the file's modification time; portable birth time is not
// available from os.Stat.
type LocalStore struct {
	root string
}

// NewLocalStore returns a store rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve file root: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) resolve(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("empty reference: %w", sentinel.ErrNotFound)
	}
	clean := filepath.Clean(string(filepath.Separator) + filepath.FromSlash(ref))
	return filepath.Join(s.root, clean), nil
}

func (s *LocalStore) Stat(ctx context.Context, ref string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	p, err := s.resolve(ref)
	if err != nil {
		return Info{}, err
	}
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, fmt.Errorf("stat %s: %w", ref, sentinel.ErrNotFound)
		}
		return Info{}, fmt.Errorf("stat %s: %w", ref, err)
	}
	if fi.IsDir() {
		return Info{}, fmt.Errorf("stat %s: is a directory: %w", ref, sentinel.ErrNotFound)
	}
	return Info{
		Ref:       ref,
		Name:      fi.Name(),
		Size:      fi.Size(),
		CreatedAt: fi.ModTime(),
		Mode:      fi.Mode(),
	}, nil
}

func (s *LocalStore) Read(ctx context.Context, ref string, limit int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", ref, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ref, err)
	}
	return data, nil
}
