package pattern

import (
	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/state"
	"github.com/oxhq/morphic/internal/variable"
)

// assign stores v into idx, enforcing single-assignment-per-branch: if the
// slot already holds a value that is not Equal to v, the assignment fails
// rather than overwriting it.
func assign(st *state.State, idx variable.Index, v model.ResolvedPattern, matchedRange [2]uint32) bool {
	if existing, ok := st.Get(idx); ok {
		if !existing.Equal(v, st.FileBodies()) {
			return false
		}
		return true
	}
	st.Set(idx, v, matchedRange)
	return true
}

// bindingValue converts whatever a Pattern.Execute subject denotes into
// the ResolvedPattern a variable slot stores: unwrapping a BindingValue
// directly, or wrapping a node/range/insertion/literal binding via
// model.FromBinding.
func bindingValue(b model.Binding) model.ResolvedPattern {
	if b.Kind == model.BindingValue && b.Value != nil {
		return *b.Value
	}
	return model.FromBinding(b)
}

// VariableBind implements a bare `$var` appearing in pattern (matching)
// position: bind the current subject into $var's slot if the slot has
// never been assigned, or require equality with the existing value if it
// has. This is the structural
// counterpart to VariableRead (expr.go), which only reads $var's current
// value and never touches the subject being matched.
type VariableBind struct {
	Index variable.Index
}

func (p VariableBind) Execute(b model.Binding, st *state.State, _ *Context) (bool, error) {
	rng := [2]uint32{0, 0}
	if b.Kind == model.BindingNode || b.Kind == model.BindingRange {
		rng = [2]uint32{b.Start, b.End}
	}
	return assign(st, p.Index, bindingValue(b), rng), nil
}

// Assignment implements `$v = expr`: evaluate expr to a ResolvedPattern and
// store it in $v's slot, failing only if the slot already holds a
// different value. expr is compiled in construct/RHS mode,
// so a snippet literal here renders rather than matches — e.g. `$n =
// \`two\`` inside an if/else branch.
type Assignment struct {
	Index variable.Index
	Value Expr
}

func (p Assignment) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	v, err := p.Value.Eval(st, ctx)
	if err != nil {
		return false, err
	}
	rng := [2]uint32{0, 0}
	if b.Kind == model.BindingNode || b.Kind == model.BindingRange {
		rng = [2]uint32{b.Start, b.End}
	}
	return assign(st, p.Index, v, rng), nil
}

// Accumulate implements `$v += expr`: lift $v to an Accumulator (starting
// from its current rendered text, or "" if it was never assigned) and
// append expr's rendered text. Accumulate never fails in-band; evaluation
// errors still propagate.
type Accumulate struct {
	Index variable.Index
	Value Expr
}

func (p Accumulate) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	v, err := p.Value.Eval(st, ctx)
	if err != nil {
		return false, err
	}
	add, err := v.Text(st.FileBodies())
	if err != nil {
		return false, err
	}

	prefix := ""
	if existing, ok := st.Get(p.Index); ok {
		prefix, err = existing.Text(st.FileBodies())
		if err != nil {
			return false, err
		}
	}

	rng := [2]uint32{0, 0}
	if b.Kind == model.BindingNode || b.Kind == model.BindingRange {
		rng = [2]uint32{b.Start, b.End}
	}
	st.Set(p.Index, model.Accumulator(prefix+add), rng)
	return true, nil
}
