package iox

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// WriteConfig controls AtomicWriter's behavior.
type WriteConfig struct {
	UseFsync       bool   // force fsync before rename for durability
	TempSuffix     string // suffix for the temp file written before rename
	BackupOriginal bool   // write a timestamped .bak copy before overwriting
}

// DefaultWriteConfig favors performance over fsync durability, with
// backups on by default.
func DefaultWriteConfig() WriteConfig {
	return WriteConfig{
		UseFsync:       false,
		TempSuffix:     ".morphic.tmp",
		BackupOriginal: true,
	}
}

// AtomicWriter commits rewritten file content via temp-file-then-rename.
// It serves a single CLI invocation's apply step, never concurrent
// processes racing on the same tree, so a per-path in-process mutex is
// all correctness requires.
type AtomicWriter struct {
	config WriteConfig
	mu     sync.Mutex
	paths  map[string]*sync.Mutex
}

// NewAtomicWriter returns a writer using config.
func NewAtomicWriter(config WriteConfig) *AtomicWriter {
	return &AtomicWriter{config: config, paths: make(map[string]*sync.Mutex)}
}

// WriteFile atomically replaces path's content.
func (aw *AtomicWriter) WriteFile(path string, content []byte) error {
	lock := aw.lockFor(path)
	lock.Lock()
	defer lock.Unlock()
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
		if aw.config.BackupOriginal {
			if err := aw.backup(path); err != nil {
				return fmt.Errorf("iox: backup %q: %w", path, err)
			}
		}
	}

	tempPath := path + aw.config.TempSuffix
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("iox: create temp file for %q: %w", path, err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("iox: write %q: %w", path, err)
	}
	if aw.config.UseFsync {
		if err := f.Sync(); err != nil {
			f.Close()
			os.Remove(tempPath)
			return fmt.Errorf("iox: sync %q: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("iox: close temp file for %q: %w", path, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("iox: rename into %q: %w", path, err)
	}
	return nil
}

func (aw *AtomicWriter) backup(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	perm := info.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}
	backupPath := fmt.Sprintf("%s.bak.%s", path, time.Now().Format("20060102-150405"))
	return os.WriteFile(backupPath, content, perm)
}

func (aw *AtomicWriter) lockFor(path string) *sync.Mutex {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	lock, ok := aw.paths[path]
	if !ok {
		lock = &sync.Mutex{}
		aw.paths[path] = lock
	}
	return lock
}
