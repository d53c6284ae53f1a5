package cachedb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/morphic/internal/model"
)

func TestOpenMigrates(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("runs"))
	assert.True(t, db.Migrator().HasTable("cache_entries"))
}

func TestStoreAndLookup(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)

	patternID := PatternID(`engine(language="go") pattern p() = `+"`x`")
	digest := Digest([]byte("package main"))

	runID, err := NewRun(db, patternID, "go", "/repo")
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	_, hit, err := Lookup(db, patternID, "main.go", digest)
	require.NoError(t, err)
	assert.False(t, hit)

	matches := []model.Match{{File: "main.go", Start: 0, End: 7}}
	require.NoError(t, Store(db, runID, patternID, "main.go", digest, matches, false))
	require.NoError(t, EndRun(db, runID))

	entry, hit, err := Lookup(db, patternID, "main.go", digest)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, 1, entry.MatchCount)
	assert.Equal(t, runID, entry.RunID)
}

func TestLookupMissOnDigestChange(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)

	patternID := PatternID("pattern p() = `x`")
	runID, err := NewRun(db, patternID, "go", "/repo")
	require.NoError(t, err)
	require.NoError(t, Store(db, runID, patternID, "main.go", Digest([]byte("v1")), nil, false))

	_, hit, err := Lookup(db, patternID, "main.go", Digest([]byte("v2")))
	require.NoError(t, err)
	assert.False(t, hit)
}
