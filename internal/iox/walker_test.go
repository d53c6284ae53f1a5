package iox

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestWalkerIncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":        "package a",
		"b.go":        "package b",
		"vendor/c.go": "package c",
		"readme.md":   "# hi",
	})

	w := NewWalker()
	results, err := w.Walk(context.Background(), Scope{
		Root:    root,
		Include: []string{"**/*.go"},
		Exclude: []string{"**/vendor/**"},
	})
	require.NoError(t, err)

	var found []string
	for r := range results {
		require.NoError(t, r.Err)
		rel, _ := filepath.Rel(root, r.Path)
		found = append(found, rel)
	}

	assert.ElementsMatch(t, []string{"a.go", "b.go"}, found)
}

func TestWalkerGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore": "build/\n",
		"main.go":    "package main",
		"build/x.go": "package build",
	})

	w := NewWalker()
	results, err := w.Walk(context.Background(), Scope{
		Root:         root,
		Include:      []string{"**/*.go"},
		UseGitignore: true,
	})
	require.NoError(t, err)

	var found []string
	for r := range results {
		rel, _ := filepath.Rel(root, r.Path)
		found = append(found, rel)
	}

	assert.Equal(t, []string{"main.go"}, found)
}
