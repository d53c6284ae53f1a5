// Package iox is the filesystem collaborator: the worker-pool directory
// walker that discovers candidate files, and the atomic writer that
// commits rewritten content back to disk. Both sit outside the pattern
// engine entirely, so nothing under internal/pattern, internal/evaluator,
// or internal/unparser imports this package; only cmd/morphic does.
//
// The walker does a worker-pool directory scan with include/exclude
// globbing via github.com/bmatcuk/doublestar/v4, and honors a
// repository's .gitignore via github.com/sabhiram/go-gitignore.
package iox

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Scope bounds a walk: the root directory, include/exclude globs, and
// traversal limits.
type Scope struct {
	Root           string
	Include        []string // doublestar globs; empty means "all files"
	Exclude        []string // doublestar globs, checked before Include
	MaxDepth       int      // 0 means unlimited
	FollowSymlinks bool
	UseGitignore   bool // honor a .gitignore at Root, if present
}

// Result is one discovered file.
type Result struct {
	Path string
	Info fs.FileInfo
	Err  error
}

// Walker performs parallel directory traversal with glob and .gitignore
// filtering, sized for I/O-bound work (2x CPU core worker count).
type Walker struct {
	workers    int
	bufferSize int
}

// NewWalker returns a Walker sized for the current machine.
func NewWalker() *Walker {
	return &Walker{
		workers:    runtime.NumCPU() * 2,
		bufferSize: 1000,
	}
}

// Walk streams discovered files matching scope. The returned channel is
// closed once traversal completes or ctx is cancelled.
func (w *Walker) Walk(ctx context.Context, scope Scope) (<-chan Result, error) {
	info, err := os.Stat(scope.Root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "walk", Path: scope.Root, Err: fs.ErrInvalid}
	}

	var gi *ignore.GitIgnore
	if scope.UseGitignore {
		if loaded, err := ignore.CompileIgnoreFile(filepath.Join(scope.Root, ".gitignore")); err == nil {
			gi = loaded
		}
		// Missing or unreadable .gitignore is not an error: walk proceeds
		// unfiltered by it.
	}

	paths := make(chan string, w.bufferSize)
	results := make(chan Result, w.bufferSize)

	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go w.work(ctx, paths, results, &wg)
	}

	go func() {
		defer close(paths)
		w.scan(ctx, scope.Root, scope, gi, paths, 0, make(map[string]struct{}))
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results, nil
}

func (w *Walker) work(ctx context.Context, paths <-chan string, results chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-paths:
			if !ok {
				return
			}
			info, err := os.Stat(path)
			select {
			case <-ctx.Done():
				return
			case results <- Result{Path: path, Info: info, Err: err}:
			}
		}
	}
}

func (w *Walker) scan(ctx context.Context, dir string, scope Scope, gi *ignore.GitIgnore, paths chan<- string, depth int, visited map[string]struct{}) {
	select {
	case <-ctx.Done():
		return
	default:
	}
	if scope.MaxDepth > 0 && depth > scope.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		full := filepath.Join(dir, entry.Name())
		rel, relErr := filepath.Rel(scope.Root, full)
		if relErr != nil {
			rel = full
		}

		if gi != nil && gi.MatchesPath(rel) {
			continue
		}
		if matchAny(full, scope.Exclude) {
			continue
		}

		if entry.IsDir() {
			if entry.Type()&os.ModeSymlink != 0 && !scope.FollowSymlinks {
				continue
			}
			real := full
			if resolved, err := filepath.EvalSymlinks(full); err == nil {
				real = resolved
			}
			if _, seen := visited[real]; seen {
				continue
			}
			visited[real] = struct{}{}
			w.scan(ctx, full, scope, gi, paths, depth+1, visited)
			continue
		}

		if entry.Type()&os.ModeSymlink != 0 && !scope.FollowSymlinks {
			continue
		}

		if len(scope.Include) == 0 || matchAny(full, scope.Include) {
			select {
			case <-ctx.Done():
				return
			case paths <- full:
			}
		}
	}
}

func matchAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.PathMatch(pattern, path); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.PathMatch(pattern, filepath.Base(path)); err == nil && matched {
				return true
			}
		}
	}
	return false
}
