package pattern

import (
	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/state"
)

// MatchOp implements `subject <: pattern`: evaluate subject to a
// ResolvedPattern, wrap it as a Binding (directly, if it already is one; via
// model.ValueBinding otherwise), and run pattern against that binding
// instead of whatever binding the enclosing clause was evaluating. This is
// how a `where` clause narrows down from the overall match to one of its
// captured variables, e.g. `$n <: "2"` or `$t <: not undefined`.
type MatchOp struct {
	Subject Expr
	Pattern Pattern
}

func (p MatchOp) Execute(_ model.Binding, st *state.State, ctx *Context) (bool, error) {
	v, err := p.Subject.Eval(st, ctx)
	if err != nil {
		return false, err
	}
	var b model.Binding
	if v.Kind == model.KindBinding {
		b = v.Binding
	} else {
		b = model.ValueBinding(v)
	}
	return p.Pattern.Execute(b, st, ctx)
}

// Rewrite implements `pattern => replacement`: run pattern against the
// current subject; on success, evaluate replacement in construct mode and
// enqueue an Effect that replaces the subject's span with the rendered
// result once the top-level match commits.
type Rewrite struct {
	Pattern Pattern
	Replacement Expr
}

func (p Rewrite) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	ok, err := p.Pattern.Execute(b, st, ctx)
	if err != nil || !ok {
		return false, err
	}
	val, err := p.Replacement.Eval(st, ctx)
	if err != nil {
		return false, err
	}
	st.Enqueue(model.Effect{
		Binding: b,
		Replacement: val,
		Kind: model.EffectRewrite,
	})
	return true, nil
}

// InsertAfter and InsertBefore implement the `after`/`before` insertion
// forms when used to splice new text rather than assert
// relative position: they enqueue a zero-width Effect anchored immediately
// after/before the subject's span.
type InsertAfter struct {
	Value Expr
}

func (p InsertAfter) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	val, err := p.Value.Eval(st, ctx)
	if err != nil {
		return false, err
	}
	st.Enqueue(model.Effect{
		Binding: model.InsertionBinding(b.File, b.End),
		Replacement: val,
		Kind: model.EffectInsert,
	})
	return true, nil
}

type InsertBefore struct {
	Value Expr
}

func (p InsertBefore) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	val, err := p.Value.Eval(st, ctx)
	if err != nil {
		return false, err
	}
	st.Enqueue(model.Effect{
		Binding: model.InsertionBinding(b.File, b.Start),
		Replacement: val,
		Kind: model.EffectInsert,
	})
	return true, nil
}
