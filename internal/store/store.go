// Package store persists the problem collection as one whole document.
// Every backend reads the entire document on Load and rewrites it on Save.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cf-tutor/internal/model"
)

// Documents maps problem identifiers to their records.
type Documents map[string]*model.Problem

// DocumentName is the key under which database backends keep the document.
const DocumentName = "problems"

// Store is a whole-document persistence backend.
type Store interface {
	// Load returns the stored document. A missing document is empty, not an
	// error.
	Load(ctx context.Context) (Documents, error)
	// Save replaces the stored document with docs.
	Save(ctx context.Context, docs Documents) error
	// Migrate prepares backend schema. It is a no-op where none is needed.
	Migrate(ctx context.Context) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver      string `mapstructure:"driver"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
	MaxConns    int32  `mapstructure:"max_conns"`
}

// Drivers understood by Open.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open creates the backend named by cfg.Driver and runs its migration.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(cfg.Driver) {
	case "", DriverJSON:
		s = NewJSON(cfg.Path)
	case DriverSQLite:
		s, err = NewSQLite(cfg.Path)
	case DriverPostgres:
		s, err = NewPostgres(ctx, cfg.DatabaseURL, cfg.MaxConns)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Encode renders docs as indented JSON without HTML escaping, so code
// snippets keep their literal angle brackets and ampersands.
func Encode(docs Documents) ([]byte, error) {
	if docs == nil {
		docs = Documents{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return nil, eris.Wrap(err, "store: encode documents")
	}
	return buf.Bytes(), nil
}

// Decode parses a document. Empty input and JSON null decode to an empty
// collection; null records are dropped.
func Decode(data []byte) (Documents, error) {
	docs := Documents{}
	if len(bytes.TrimSpace(data)) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, eris.Wrap(err, "store: decode documents")
	}
	if docs == nil {
		return Documents{}, nil
	}
	for id, p := range docs {
		if p == nil {
			delete(docs, id)
		}
	}
	return docs, nil
}
