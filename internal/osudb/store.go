package osudb

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileStore persists a CollectionDB at a single path.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore returns a store for path on the OS filesystem.
func NewFileStore(path string) *FileStore {
	return NewFileStoreWithFS(afero.NewOsFs(), path)
}

// NewFileStoreWithFS returns a store for path on fs.
func NewFileStoreWithFS(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

// Path returns the database path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and decodes the database. A missing file is an error.
func (s *FileStore) Load() (*CollectionDB, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	db, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	return db, nil
}

// Save encodes db to a temporary file beside the target and renames it
// over the target.
func (s *FileStore) Save(db *CollectionDB) error {
	var buf bytes.Buffer
	if err := Encode(&buf, db); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	return nil
}

// Create writes an empty database at the store path if none exists.
func (s *FileStore) Create() error {
	if _, err := s.fs.Stat(s.path); err == nil {
		return os.ErrExist
	}
	return s.Save(&CollectionDB{Version: DefaultVersion})
}
