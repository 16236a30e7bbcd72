package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// DefaultJSONPath is the file name used by the original flat dump.
const DefaultJSONPath = "comprehensive_codeforces_problems.json"

// JSONStore keeps the document in a single file.
type JSONStore struct {
	path string
}

// NewJSON returns a store backed by path.
func NewJSON(path string) *JSONStore {
	if path == "" {
		path = DefaultJSONPath
	}
	return &JSONStore{path: path}
}

// Path returns the backing file.
func (s *JSONStore) Path() string { return s.path }

// Load reads the document. A missing file is an empty collection.
func (s *JSONStore) Load(_ context.Context) (Documents, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Documents{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "json store: read %s", s.path)
	}
	return Decode(data)
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers never observe a partial document.
func (s *JSONStore) Save(_ context.Context, docs Documents) error {
	data, err := Encode(docs)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "json store: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return eris.Wrap(err, "json store: create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "json store: write")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "json store: sync")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "json store: close")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return eris.Wrapf(err, "json store: rename to %s", s.path)
	}
	return nil
}

// Migrate is a no-op; the file needs no schema.
func (s *JSONStore) Migrate(_ context.Context) error { return nil }

// Close is a no-op.
func (s *JSONStore) Close() error { return nil }
