package pattern

import (
	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/state"
	"github.com/oxhq/morphic/internal/syntax"
)

// Contains walks the subject and its descendants pre-order, attempting
// Inner at each node; the first success wins. Until bounds the traversal:
// a node matching Until is tested against Inner itself but never
// descended into.
type Contains struct {
	Inner Pattern
	Until Pattern // nil if unbounded
}

func (p *Contains) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	n, ok := asNode(b)
	if !ok {
		return false, nil
	}
	return p.walk(n, b.File, st, ctx)
}

func (p *Contains) walk(n syntax.Node, file string, st *state.State, ctx *Context) (bool, error) {
	if err := checkCancelled(ctx); err != nil {
		return false, err
	}
	cp := st.Snapshot()
	ok, err := p.Inner.Execute(model.NodeBinding(file, n), st, ctx)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	st.Restore(cp)

	if p.Until != nil {
		cp2 := st.Snapshot()
		bounded, err := p.Until.Execute(model.NodeBinding(file, n), st, ctx)
		st.Restore(cp2)
		if err != nil {
			return false, err
		}
		if bounded {
			return false, nil
		}
	}

	for _, child := range n.NamedChildren() {
		ok, err := p.walk(child, file, st, ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Within walks the subject's ancestors; it succeeds if any ancestor
// matches Outer, stopping at the first success.
type Within struct {
	Outer Pattern
}

func (p *Within) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	n, ok := asNode(b)
	if !ok {
		return false, nil
	}
	for {
		parent, ok := n.Parent()
		if !ok {
			return false, nil
		}
		if err := checkCancelled(ctx); err != nil {
			return false, err
		}
		cp := st.Snapshot()
		matched, err := p.Outer.Execute(model.NodeBinding(b.File, parent), st, ctx)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
		st.Restore(cp)
		n = parent
	}
}

// Bubble opens a fresh lexical scope and then behaves like an unbounded
// Contains: the child pattern is tried against the subject and every
// descendant, first success committing. The fresh scope means variables
// bound inside Bubble don't leak into the surrounding match; the scope id
// is supplied by the compiler the same way a pattern-definition call gets
// one.
type Bubble struct {
	ScopeID int
	Child Pattern
}

func (p *Bubble) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	st.PushScope(p.ScopeID)
	defer st.PopScope(p.ScopeID)
	c := &Contains{Inner: p.Child}
	return c.Execute(b, st, ctx)
}

// listElements extracts the element bindings Every/Some iterate over. A
// KindList ResolvedPattern (reached via BindingValue, e.g. `$elements <:
// every number`) yields one binding per element; a node binding with named
// children is treated as the list of its named children, so `every p` can
// also be written directly against a structural list node.
func listElements(b model.Binding) ([]model.Binding, bool) {
	if b.Kind == model.BindingValue && b.Value != nil && b.Value.Kind == model.KindList {
		out := make([]model.Binding, 0, len(b.Value.List))
		for _, item := range b.Value.List {
			item := item
			if item.Kind == model.KindBinding {
				out = append(out, item.Binding)
			} else {
				out = append(out, model.ValueBinding(item))
			}
		}
		return out, true
	}
	if n, ok := asNode(b); ok {
		children := n.NamedChildren()
		out := make([]model.Binding, 0, len(children))
		for _, c := range children {
			out = append(out, model.NodeBinding(b.File, c))
		}
		return out, true
	}
	return nil, false
}

// Every succeeds iff every element of the subject list matches Child; a
// failure is atomic — no element's effects (including earlier successful
// ones) survive a failed Every. An empty list vacuously
// succeeds.
type Every struct {
	Child Pattern
}

func (p *Every) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	elems, ok := listElements(b)
	if !ok {
		return false, nil
	}
	cp := st.Snapshot()
	for _, e := range elems {
		if err := checkCancelled(ctx); err != nil {
			return false, err
		}
		ok, err := p.Child.Execute(e, st, ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			st.Restore(cp)
			return false, nil
		}
	}
	return true, nil
}

// Some succeeds iff at least one element matches Child, accumulating
// effects from every matching element (not just the first); non-matching
// elements leave no trace. An empty list fails.
type Some struct {
	Child Pattern
}

func (p *Some) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	elems, ok := listElements(b)
	if !ok {
		return false, nil
	}
	any := false
	for _, e := range elems {
		if err := checkCancelled(ctx); err != nil {
			return false, err
		}
		cp := st.Snapshot()
		ok, err := p.Child.Execute(e, st, ctx)
		if err != nil {
			return false, err
		}
		if ok {
			any = true
		} else {
			st.Restore(cp)
		}
	}
	return any, nil
}

// siblings returns the subject's parent's named children and the
// subject's own index among them, for After/Before.
func siblings(n syntax.Node) ([]syntax.Node, int, bool) {
	parent, ok := n.Parent()
	if !ok {
		return nil, 0, false
	}
	children := parent.NamedChildren()
	s, e := n.ByteRange()
	for i, c := range children {
		cs, ce := c.ByteRange()
		if cs == s && ce == e && c.Kind() == n.Kind() {
			return children, i, true
		}
	}
	return nil, 0, false
}

// After succeeds if some later sibling of the subject (in source order,
// within the same parent's named children) matches Child; the first match
// found wins. Resolved
// after/before's precedence relative to `contains` inside conjunctions
// unspecified, so here After/Before only ever inspect siblings, never
// descendants — `contains` stays the only descendant-searching form.
type After struct {
	Child Pattern
}

func (p *After) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	n, ok := asNode(b)
	if !ok {
		return false, nil
	}
	sibs, idx, ok := siblings(n)
	if !ok {
		return false, nil
	}
	for _, s := range sibs[idx+1:] {
		if err := checkCancelled(ctx); err != nil {
			return false, err
		}
		cp := st.Snapshot()
		matched, err := p.Child.Execute(model.NodeBinding(b.File, s), st, ctx)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
		st.Restore(cp)
	}
	return false, nil
}

// Before is the mirror of After: it succeeds if some earlier sibling
// matches Child, searching from the immediately-preceding sibling backward.
type Before struct {
	Child Pattern
}

func (p *Before) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	n, ok := asNode(b)
	if !ok {
		return false, nil
	}
	sibs, idx, ok := siblings(n)
	if !ok {
		return false, nil
	}
	for i := idx - 1; i >= 0; i-- {
		if err := checkCancelled(ctx); err != nil {
			return false, err
		}
		cp := st.Snapshot()
		matched, err := p.Child.Execute(model.NodeBinding(b.File, sibs[i]), st, ctx)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
		st.Restore(cp)
	}
	return false, nil
}
