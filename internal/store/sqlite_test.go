package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_EmptyDatabase(t *testing.T) {
	t.Parallel()

	docs, err := newTestSQLiteStore(t).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSQLite_SaveLoadOverwrite(t *testing.T) {
	t.Parallel()
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, sampleDocs()))
	docs, err := st.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, docs, "2135B")
	assert.Len(t, docs["2135B"].Solutions, 1)

	next := sampleDocs()
	next["2135B"].ProblemTitle = "B. Bar v2"
	delete(next, "missing")
	require.NoError(t, st.Save(ctx, next))

	docs, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B. Bar v2", docs["2135B"].ProblemTitle)

	var rows int
	require.NoError(t, st.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	t.Parallel()

	st := newTestSQLiteStore(t)
	assert.NoError(t, st.Migrate(context.Background()))
}
