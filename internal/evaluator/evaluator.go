// Package evaluator drives a compiled pattern program against parsed
// files. It owns the one concern the compiler and the IR deliberately
// don't: finding the subjects a top-level pattern runs against. A
// compiled program's Root pattern is never wrapped in IR — Evaluate is
// what applies it at every file and every descendant node.
package evaluator

import (
	"context"
	"fmt"

	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/pattern"
	"github.com/oxhq/morphic/internal/patterncompiler"
	"github.com/oxhq/morphic/internal/state"
	"github.com/oxhq/morphic/internal/suppression"
	"github.com/oxhq/morphic/internal/syntax"
)

// InputFile is the file I/O contract from the collaborator:
// a path, its current body, and whether it is newly created by a prior
// effect rather than read from disk.
type InputFile struct {
	Path string
	Body []byte
	IsNew bool
}

// Result is everything Evaluate produces for one invocation: the matches
// found (for reporting), the effects they enqueued (for the unparser),
// and every diagnostic logged along the way.
type Result struct {
	Matches []model.Match
	Effects []model.Effect
	Logs []model.LogRecord
}

// Evaluate runs prog against every file in files, single-threaded (the
// caller is responsible for any cross-file parallelism). A program with no
// Root pattern (a definitions-only library) produces an empty Result with
// no error.
func Evaluate(ctx context.Context, prog *patterncompiler.CompiledProgram, lang syntax.LanguageSupport, files []InputFile) (*Result, error) {
	result := &Result{}
	if prog.Root == nil {
		return result, nil
	}

	for _, f := range files {
		matches, effects, logs, err := evaluateFile(ctx, prog, lang, f)
		if err != nil {
			if engineErr, ok := err.(*model.EngineError); ok && engineErr.Kind == model.ErrCancelled {
				return result, err
			}
			result.Logs = append(result.Logs, model.LogRecord{
				Level: model.LevelWarning,
				Message: err.Error(),
				File: f.Path,
			})
			continue
		}
		result.Matches = append(result.Matches, matches...)
		result.Effects = append(result.Effects, effects...)
		result.Logs = append(result.Logs, logs...)
	}
	return result, nil
}

// evaluateFile runs one top-level attempt per candidate node of a single
// file. Each attempt gets its own fresh State: state.go's "one top-level
// match attempt" is the candidate node, not the file, so a successful
// match's variable bindings must not leak into the next candidate — two
// function declarations in the same file binding $name to different text
// would otherwise collide under single-assignment and the second would
// wrongly fail to match. Effects, logs and matches accumulate across
// attempts at the file level instead.
func evaluateFile(ctx context.Context, prog *patterncompiler.CompiledProgram, lang syntax.LanguageSupport, f InputFile) ([]model.Match, []model.Effect, []model.LogRecord, error) {
	tree, err := lang.Parse(f.Body)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("evaluator: parse %q: %w", f.Path, err)
	}
	defer tree.Close()
	fileModel := &model.File{Path: f.Path, Body: string(f.Body), Tree: tree, Lang: lang.Name(), IsNew: f.IsNew}

	pctx := &pattern.Context{
		Lang: lang,
		Definitions: prog.Defs,
		File: f.Path,
		Ctx: ctx,
	}

	suppressed := suppression.Scan(lang, tree.Root)

	var matches []model.Match
	var effects []model.Effect
	var logs []model.LogRecord
	for _, node := range candidates(tree.Root) {
		if err := pollCancel(ctx); err != nil {
			return matches, effects, logs, err
		}

		start, end := node.ByteRange()
		if suppressed.Suppressed("", start, end) {
			continue
		}

		st := state.New(prog.Registry)
		st.AddFile(fileModel)

		binding := model.NodeBinding(f.Path, node)
		ok, err := prog.Root.Execute(binding, st, pctx)
		if err != nil {
			if engineErr, isEngine := err.(*model.EngineError); isEngine && engineErr.Kind == model.ErrCancelled {
				return matches, effects, logs, err
			}
			logs = append(logs, model.LogRecord{
				Level: model.LevelWarning,
				Message: err.Error(),
				File: f.Path,
				Range: byteRangePtr(node),
			})
			continue
		}
		if !ok {
			continue
		}

		effects = append(effects, st.Effects()...)
		logs = append(logs, st.Logs()...)
		matches = append(matches, model.Match{
			File: f.Path,
			Start: start,
			End: end,
			Variables: collectVariables(prog, st),
		})
	}

	return matches, effects, logs, nil
}

// candidates lists every subject a top-level pattern is tried against:
// the file's root node followed by each of its descendants, pre-order.
// Pre-order matches Contains' own traversal so outer matches are reported
// before the inner nodes they contain.
func candidates(root syntax.Node) []syntax.Node {
	var out []syntax.Node
	var walk func(n syntax.Node)
	walk = func(n syntax.Node) {
		out = append(out, n)
		for _, c := range n.NamedChildren() {
			walk(c)
		}
	}
	walk(root)
	return out
}

func pollCancel(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return model.NewError(model.ErrCancelled, "evaluation cancelled", ctx.Err())
	default:
		return nil
	}
}

func byteRangePtr(n syntax.Node) *[2]uint32 {
	s, e := n.ByteRange()
	r := [2]uint32{s, e}
	return &r
}

// collectVariables reads every global-scope variable a completed top-level
// attempt bound, for the Match.Variables map the driver reports. Variables
// registered inside a pattern or function definition's own scope are
// call-local and never escape to the caller, so only scope 0 is reported
// here.
func collectVariables(prog *patterncompiler.CompiledProgram, st *state.State) map[string]model.VariableResult {
	names := prog.Registry.Names(0)
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]model.VariableResult, len(names))
	files := st.FileBodies()
	for _, name := range names {
		idx, ok := prog.Registry.Lookup(name)
		if !ok {
			continue
		}
		v, ok := st.Get(idx)
		if !ok {
			continue
		}
		text, err := v.Text(files)
		if err != nil {
			continue
		}
		start, end := variableRange(v)
		out[name] = model.VariableResult{Text: text, Start: start, End: end}
	}
	return out
}

// variableRange reports the byte range a bound value's text came from, if
// it is anchored to source (a node, range, or insertion binding); engine-
// produced values (snippets, lists, constants) have no single source
// range and report a zero-width range at 0.
func variableRange(v model.ResolvedPattern) (uint32, uint32) {
	if v.Kind == model.KindBinding {
		return v.Binding.Start, v.Binding.End
	}
	return 0, 0
}
