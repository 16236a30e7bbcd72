package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONStore_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	s := NewJSON(filepath.Join(t.TempDir(), "missing.json"))
	docs, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestJSONStore_SaveLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "nested", "problems.json")
	s := NewJSON(path)
	require.NoError(t, s.Save(ctx, sampleDocs()))

	docs, err := s.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, docs, "2135B")
	assert.Equal(t, "B. Bar", docs["2135B"].ProblemTitle)
	assert.Equal(t, []string{"if (a < b && c > d) {}"}, docs["2135B"].Solutions[0].Codes)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestJSONStore_SaveReplacesWholeDocument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewJSON(filepath.Join(t.TempDir(), "p.json"))
	require.NoError(t, s.Save(ctx, sampleDocs()))
	require.NoError(t, s.Save(ctx, Documents{}))

	docs, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestJSONStore_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "p.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewJSON(path).Load(context.Background())
	assert.ErrorContains(t, err, "decode documents")
}

func TestJSONStore_DefaultPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultJSONPath, NewJSON("").Path())
}
