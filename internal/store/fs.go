package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/forgekit/skillmem/internal/model"
)

// FSStore keeps each record as one file beneath a root directory.
type FSStore struct {
	root string
}

// NewFSStore opens or creates a filesystem store rooted at dir.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FSStore{root: dir}, nil
}

// Root returns the store's root directory.
func (s *FSStore) Root() string { return s.root }

func (s *FSStore) path(location string) string {
	return filepath.Join(s.root, filepath.FromSlash(location))
}

func (s *FSStore) Get(location string) ([]byte, error) {
	data, err := os.ReadFile(s.path(location))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrNotFound, location)
		}
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return data, nil
}

// Put writes to a temp file in the target directory and renames it
// into place, so a concurrent reader never observes a partial record.
func (s *FSStore) Put(location string, data []byte) error {
	p := s.path(location)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", location, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "."+filepath.Base(p)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", location, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp for %s: %w", location, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", location, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", location, err)
	}
	return nil
}

func (s *FSStore) Delete(location string) error {
	err := os.Remove(s.path(location))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", model.ErrNotFound, location)
		}
		return fmt.Errorf("delete %s: %w", location, err)
	}
	return nil
}

// List walks the tree under prefix and returns slash-separated
// locations. An absent prefix directory yields an empty list, not an
// error: callers probe layers that may not exist yet.
func (s *FSStore) List(prefix string) ([]string, error) {
	base := s.path(prefix)
	info, err := os.Stat(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", prefix, err)
	}
	if !info.IsDir() {
		return []string{prefix}, nil
	}

	var locations []string
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		locations = append(locations, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	sort.Strings(locations)
	return locations, nil
}

func (s *FSStore) ModTime(location string) (time.Time, error) {
	info, err := os.Stat(s.path(location))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, fmt.Errorf("%w: %s", model.ErrNotFound, location)
		}
		return time.Time{}, fmt.Errorf("stat %s: %w", location, err)
	}
	return info.ModTime(), nil
}
