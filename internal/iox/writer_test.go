package iox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriterWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.go")
	require.NoError(t, os.WriteFile(path, []byte("package old"), 0o644))

	w := NewAtomicWriter(DefaultWriteConfig())
	require.NoError(t, w.WriteFile(path, []byte("package new")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package new", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var sawBackup bool
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".go" {
			sawBackup = true
		}
	}
	assert.True(t, sawBackup, "expected a backup file alongside the rewritten original")
}

func TestAtomicWriterNoBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.go")
	require.NoError(t, os.WriteFile(path, []byte("package old"), 0o644))

	cfg := DefaultWriteConfig()
	cfg.BackupOriginal = false
	w := NewAtomicWriter(cfg)
	require.NoError(t, w.WriteFile(path, []byte("package new")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
