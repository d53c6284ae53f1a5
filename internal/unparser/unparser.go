// Package unparser applies the effect queue a top-level evaluation
// produced back onto source text: an arbitrary, possibly-large,
// interleaved set of rewrites and zero-width inserts per file.
package unparser

import (
	"sort"

	"github.com/oxhq/morphic/internal/model"
)

// FileResult is the outcome of applying one file's effects.
type FileResult struct {
	Path string
	Body string
	Rewrote bool // always true: ApplyEffects returns only files that have effects
}

// ApplyEffects groups effects by file, applies each file's effects in
// byte order, and returns the rewritten body for every touched file.
// files maps path to current source bytes;
// effects is the full queue from one or more top-level attempts against
// those files. An effect naming a path absent from files is an internal
// error, since the evaluator only enqueues effects against files it has
// itself registered.
func ApplyEffects(files map[string][]byte, effects []model.Effect) ([]FileResult, error) {
	byFile := map[string][]model.Effect{}
	for _, e := range effects {
		byFile[e.Binding.File] = append(byFile[e.Binding.File], e)
	}
	return applyGrouped(files, byFile)
}

func applyGrouped(files map[string][]byte, byFile map[string][]model.Effect) ([]FileResult, error) {
	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		body, ok := files[path]
		if !ok {
			return nil, model.NewError(model.ErrInternal, "unparser: effect targets unregistered file "+path, nil)
		}
		rewritten, err := applyFile(string(body), files, byFile[path])
		if err != nil {
			return nil, err
		}
		out = append(out, FileResult{Path: path, Body: rewritten, Rewrote: true})
	}
	return out, nil
}

// applyFile applies one file's effects: sort ascending by target start
// byte (ties broken by registration order, so equal-position inserts apply
// in the order the pattern program enqueued them), verify no two adjacent
// effects overlap, then concatenate original spans with each effect's
// rendered replacement.
func applyFile(original string, files map[string][]byte, effects []model.Effect) (string, error) {
	sorted := make([]model.Effect, len(effects))
	copy(sorted, effects)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Binding.Start != sorted[j].Binding.Start {
			return sorted[i].Binding.Start < sorted[j].Binding.Start
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Binding.End > cur.Binding.Start {
			return "", model.NewError(model.ErrEffectConflict,
				"overlapping effects in the same file", nil)
		}
	}

	fileBodies := make(map[string][]byte, len(files))
	for k, v := range files {
		fileBodies[k] = v
	}

	var out []byte
	cursor := uint32(0)
	src := []byte(original)
	for _, e := range sorted {
		if e.Binding.Start > uint32(len(src)) || e.Binding.End > uint32(len(src)) {
			return "", model.NewError(model.ErrInternal, "unparser: effect range out of bounds", nil)
		}
		out = append(out, src[cursor:e.Binding.Start]...)
		text, err := e.Replacement.Text(fileBodies)
		if err != nil {
			return "", model.NewError(model.ErrMatch, "unparser: rendering replacement", err)
		}
		out = append(out, text...)
		cursor = e.Binding.End
	}
	out = append(out, src[cursor:]...)
	return string(out), nil
}
