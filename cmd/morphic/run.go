package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/oxhq/morphic/internal/cachedb"
	"github.com/oxhq/morphic/internal/config"
	"github.com/oxhq/morphic/internal/evaluator"
	"github.com/oxhq/morphic/internal/iox"
	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/patterncompiler"
	"github.com/oxhq/morphic/internal/registry"
	"github.com/oxhq/morphic/internal/syntax"
)

// gatherFiles walks cfg.Root and reads the body of every file whose
// extension the registry recognizes (or, when cfg.Language is set, every
// file the walk yields, whatever its extension).
func gatherFiles(ctx context.Context, reg *registry.Registry, cfg config.Config) (syntax.LanguageSupport, []evaluator.InputFile, error) {
	var forced syntax.LanguageSupport
	if cfg.Language != "" {
		lang, ok := reg.ByName(cfg.Language)
		if !ok {
			return nil, nil, fmt.Errorf("morphic: unknown language %q", cfg.Language)
		}
		forced = lang
	}

	walker := iox.NewWalker()
	results, err := walker.Walk(ctx, iox.Scope{
		Root: cfg.Root,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
		MaxDepth: cfg.MaxDepth,
		FollowSymlinks: cfg.FollowSymlinks,
		UseGitignore: cfg.UseGitignore,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("morphic: walk %q: %w", cfg.Root, err)
	}

	var lang syntax.LanguageSupport
	var files []evaluator.InputFile
	for r := range results {
		if r.Err != nil {
			continue
		}
		candidate := forced
		if candidate == nil {
			if found, ok := reg.ByExtension(filepath.Ext(r.Path)); ok {
				candidate = found
			} else {
				continue
			}
		}
		if lang == nil {
			lang = candidate
		} else if lang.Name() != candidate.Name() {
			// A scan targets exactly one language per run; mixed-extension trees need per-language runs.
			continue
		}

		body, err := os.ReadFile(r.Path)
		if err != nil {
			continue
		}
		files = append(files, evaluator.InputFile{Path: r.Path, Body: body})
	}

	if lang == nil {
		if forced != nil {
			lang = forced
		} else {
			return nil, nil, fmt.Errorf("morphic: no recognized source files under %q", cfg.Root)
		}
	}

	return lang, files, nil
}

// evalRun compiles source against lang and evaluates it over files,
// consulting/updating the result cache at cfg.CachePath when enabled.
// A cache hit for a file simply excludes it from the batch passed to
// evaluator.Evaluate; nothing from the cached entry is added to the
// result, so that file contributes no matches and no effects to this run.
func evalRun(ctx context.Context, source string, lang syntax.LanguageSupport, files []evaluator.InputFile, cfg config.Config) (*evaluator.Result, error) {
	prog, err := patterncompiler.Compile(source, lang)
	if err != nil {
		return nil, fmt.Errorf("morphic: compile pattern: %w", err)
	}

	patternID := cachedb.PatternID(source)

	var db *gorm.DB
	var runID string
	if cfg.UseCache {
		db, err = cachedb.Open(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		runID, err = cachedb.NewRun(db, patternID, lang.Name(), cfg.Root)
		if err != nil {
			return nil, err
		}
	}

	toEvaluate := files
	if cfg.UseCache {
		toEvaluate = make([]evaluator.InputFile, 0, len(files))
		for _, f := range files {
			digest := cachedb.Digest(f.Body)
			if _, hit, _ := cachedb.Lookup(db, patternID, f.Path, digest); !hit {
				toEvaluate = append(toEvaluate, f)
			}
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	result, err := evaluator.Evaluate(runCtx, prog, lang, toEvaluate)
	if err != nil {
		return nil, fmt.Errorf("morphic: evaluate: %w", err)
	}

	if cfg.UseCache {
		matchesByFile := map[string][]model.Match{}
		for _, m := range result.Matches {
			matchesByFile[m.File] = append(matchesByFile[m.File], m)
		}
		for _, f := range toEvaluate {
			digest := cachedb.Digest(f.Body)
			matches := matchesByFile[f.Path]
			if err := cachedb.Store(db, runID, patternID, f.Path, digest, matches, len(matches) > 0); err != nil {
				return nil, err
			}
		}
		if err := cachedb.EndRun(db, runID); err != nil {
			return nil, err
		}
	}

	return result, nil
}
