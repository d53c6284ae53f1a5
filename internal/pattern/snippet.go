package pattern

import (
	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/state"
	"github.com/oxhq/morphic/internal/syntax"
	"github.com/oxhq/morphic/internal/variable"
)

// Snippet matches the LHS form of a backtick snippet: the compiler parses
// the literal text once (internal/syntax.ParseSnippet, itself cached by
// (text, language)) and stores the resulting SnippetPattern directly in
// the IR, so matching never re-parses. Vars maps each metavariable name
// found in the snippet to the slot it binds.
type Snippet struct {
	Pattern *syntax.SnippetPattern
	Vars map[string]variable.Index
}

func (p *Snippet) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	n, ok := asNode(b)
	if !ok {
		return false, nil
	}
	return p.matchNode(p.Pattern.Root, n, b.File, st, ctx)
}

func (p *Snippet) matchNode(pat, subj syntax.Node, file string, st *state.State, ctx *Context) (bool, error) {
	if err := checkCancelled(ctx); err != nil {
		return false, err
	}
	if name, ok := p.Pattern.MetaVarAt(pat); ok {
		idx, ok := p.Vars[name]
		if !ok {
			return false, internalErr("snippet metavariable $%s has no allocated slot", name)
		}
		s, e := subj.ByteRange()
		return assign(st, idx, model.FromBinding(model.NodeBinding(file, subj)), [2]uint32{s, e}), nil
	}

	if pat.Kind() != subj.Kind() {
		return false, nil
	}

	patChildren := filterWhitespace(ctx.Lang, pat.NamedChildren())
	subjChildren := filterWhitespace(ctx.Lang, subj.NamedChildren())

	if len(patChildren) == 0 {
		// Leaf-shaped production (identifier, literal, operator token):
		// compare text directly rather than descending further.
		return pat.Text() == subj.Text(), nil
	}
	if len(patChildren) != len(subjChildren) {
		return false, nil
	}
	for i := range patChildren {
		ok, err := p.matchNode(patChildren[i], subjChildren[i], file, st, ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func filterWhitespace(lang syntax.LanguageSupport, nodes []syntax.Node) []syntax.Node {
	if lang == nil {
		return nodes
	}
	out := nodes[:0:0]
	for _, n := range nodes {
		if !lang.IsWhitespace(n.Kind()) {
			out = append(out, n)
		}
	}
	return out
}

// ConstructFragment is one piece of an RHS snippet template: a literal text
// run, or a reference to a variable whose current value is spliced in.
type ConstructFragment struct {
	Literal string
	Var *variable.Index
}

// SnippetConstruct is the RHS counterpart to Snippet: it renders a
// template by substituting each `$name` occurrence with that variable's
// current ResolvedPattern, producing a KindSnippet value rather than
// matching anything.
type SnippetConstruct struct {
	Fragments []ConstructFragment
}

func (e *SnippetConstruct) Eval(st *state.State, _ *Context) (model.ResolvedPattern, error) {
	frags := make([]model.SnippetFragment, 0, len(e.Fragments))
	for _, f := range e.Fragments {
		if f.Var == nil {
			frags = append(frags, model.SnippetFragment{Literal: f.Literal})
			continue
		}
		v, ok := st.Get(*f.Var)
		if !ok {
			v = model.Undefined()
		}
		vCopy := v
		frags = append(frags, model.SnippetFragment{Value: &vCopy})
	}
	return model.FromSnippet(frags), nil
}
