package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"dosesum/dose"
)

// ObjectStore is the persistence collaborator for dose objects. The engine
// only ever reads whole objects, writes whole objects, and lists a
// directory for the skip-marker check.
type ObjectStore interface {
	Read(path string) (*dose.Object, error)
	ReadHeader(path string) (*dose.Header, error)
	Write(dir string, name string, obj *dose.Object) (string, error)
	List(dir string) ([]string, error)
}

// FileStore keeps dose objects as individual files on the local filesystem.
type FileStore struct{}

func NewFileStore() *FileStore {
	return &FileStore{}
}

func (fs *FileStore) Read(path string) (*dose.Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	obj, err := dose.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}

func (fs *FileStore) ReadHeader(path string) (*dose.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	header, err := dose.DecodeHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return header, nil
}

// Write persists obj under dir/name via a temp file and rename, so a
// half-written artifact is never visible under its final name.
func (fs *FileStore) Write(dir string, name string, obj *dose.Object) (string, error) {
	outPath := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, name+".tmp*")
	if err != nil {
		return "", err
	}
	if err := dose.Encode(tmp, obj); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return outPath, nil
}

func (fs *FileStore) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
