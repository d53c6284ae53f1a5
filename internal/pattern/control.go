package pattern

import (
	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/state"
)

// And evaluates children in order, short-circuiting on the first false.
// There is no snapshotting between siblings: assignments made by an
// earlier child persist and are visible to later ones, and if And fails
// partway through, whatever earlier children committed stays committed —
// And itself never rolls back. A caller that needs all-or-nothing
// semantics (Or, Not, If) snapshots before trying And as a branch.
type And struct {
	Children []Pattern
}

func (p *And) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	for _, child := range p.Children {
		if err := checkCancelled(ctx); err != nil {
			return false, err
		}
		ok, err := child.Execute(b, st, ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Or snapshots before each child, rolls back on false, and commits on the
// first true. Any is the identical combinator under a different
// user-facing name in the grammar (`any {... }` over a list of
// sub-patterns compiles to the same Or node as `or {... }`).
type Or struct {
	Children []Pattern
}

func (p *Or) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	for _, child := range p.Children {
		if err := checkCancelled(ctx); err != nil {
			return false, err
		}
		cp := st.Snapshot()
		ok, err := child.Execute(b, st, ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		st.Restore(cp)
	}
	return false, nil
}

// Not snapshots, runs the child, inverts the result, and always rolls
// back — even on success, since a Not that matched must leave no trace.
// This is a hard contract, not just the common case: a Rewrite nested
// inside a Not never survives, regardless of whether the enclosing Not
// itself succeeds.
type Not struct {
	Child Pattern
}

func (p *Not) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	cp := st.Snapshot()
	ok, err := p.Child.Execute(b, st, ctx)
	st.Restore(cp)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// Maybe always succeeds. If the child fails, Maybe behaves as a no-op:
// state is rolled back to before the attempt and Maybe still returns
// true. If the child succeeds, its effects are kept.
type Maybe struct {
	Child Pattern
}

func (p *Maybe) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	cp := st.Snapshot()
	ok, err := p.Child.Execute(b, st, ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		st.Restore(cp)
	}
	return true, nil
}

// If snapshots, runs Cond as a predicate (no effects from Cond survive
// regardless of outcome), restores, then runs Then or Else depending on
// the result.
type If struct {
	Cond Pattern
	Then Pattern
	Else Pattern // nil if there is no else branch
}

func (p *If) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	cp := st.Snapshot()
	ok, err := p.Cond.Execute(b, st, ctx)
	st.Restore(cp)
	if err != nil {
		return false, err
	}
	if ok {
		return p.Then.Execute(b, st, ctx)
	}
	if p.Else == nil {
		return true, nil
	}
	return p.Else.Execute(b, st, ctx)
}

// Where attaches a predicate clause to a pattern: `pattern where { preds }`.
// Base must match first (its effects persist); then Clause runs as a
// further condition over the same binding. If Clause fails, Where as a
// whole fails — but whatever Base committed before Clause ran is only
// undone by an enclosing Or/Not/If snapshot, consistent with And's
// no-rollback-on-its-own rule (Where is modeled as And{Base, Clause}
// under the hood but kept distinct so the compiler can report clearer
// diagnostics).
type Where struct {
	Base Pattern
	Clause Pattern
}

func (p *Where) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	ok, err := p.Base.Execute(b, st, ctx)
	if err != nil || !ok {
		return false, err
	}
	return p.Clause.Execute(b, st, ctx)
}
