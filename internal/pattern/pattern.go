// Package pattern is the compiled intermediate representation: tagged
// variants for patterns (things that match and may rewrite) and
// predicates (things that only decide), plus expressions (literals,
// arithmetic, variable reads/writes). Constructors are language-neutral;
// matcher semantics are uniform across every target language.
//
// Dynamic dispatch over variants is modeled as a tagged sum with a single
// Execute dispatcher (one Go type per variant implementing the Pattern
// interface) rather than a class hierarchy: each variant's semantics are
// small and distinct enough that inheritance would only obscure them.
package pattern

import (
	"context"
	"fmt"

	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/state"
	"github.com/oxhq/morphic/internal/syntax"
	"github.com/oxhq/morphic/internal/variable"
)

// Pattern is the uniform matcher contract. Execute returns
// true if subject matches; any side effects on st have been committed to
// the current branch. It returns false for an in-band non-match; the
// caller is responsible for restoring state (disjunctive callers snapshot
// before trying a child). It returns an error only for the distinct
// error kinds in — those abort the whole top-level attempt.
//
// A Predicate is simply a Pattern variant that never calls
// State.Enqueue: there is no separate Go
// type, matching the Design Notes' preference for one small dispatcher
// over a deep hierarchy.
type Pattern interface {
	Execute(b model.Binding, st *state.State, ctx *Context) (bool, error)
}

// Expr is a pattern-language expression: literals, arithmetic, variable
// reads. Unlike Pattern, Eval never matches or fails in-band — arithmetic
// errors (overflow, divide-by-zero) are reported as MatchErrors.
type Expr interface {
	Eval(st *state.State, ctx *Context) (model.ResolvedPattern, error)
}

// Definitions is the flat, stable-id-indexed table of named pattern and
// function definitions a compiled program may call into. Storing
// definitions by id rather than by pointer-graph lets recursive and
// mutually-recursive definitions resolve without a borrow-checker fight,
// and makes the table trivially serializable (Design Notes).
type Definitions struct {
	entries []*Definition
}

// Definition is one `pattern name(args) { body }` or `function name(args) =
// body` definition.
type Definition struct {
	Name string
	IsFunc bool
	ScopeID int // the lexical scope opened for this definition's body
	Params []variable.Index // parameter slots, in declaration order
	Body Pattern // for `pattern` defs
	Expr Expr // for `function` defs
}

func NewDefinitions() *Definitions { return &Definitions{} }

// Add appends a Definition and returns its stable id.
func (d *Definitions) Add(def *Definition) int {
	d.entries = append(d.entries, def)
	return len(d.entries) - 1
}

// Get resolves a definition id. ok is false for an out-of-range id, which
// indicates an internal compiler bug (unresolved calls are rejected at
// compile time, never left dangling in the IR).
func (d *Definitions) Get(id int) (*Definition, bool) {
	if id < 0 || id >= len(d.entries) {
		return nil, false
	}
	return d.entries[id], true
}

// Context is the per-evaluation context threaded through every Execute/Eval
// call: the target language, the definition table, the file currently
// being matched, and a cancellation signal. Apart from ReturnValue, which
// Return sets and PatternExpr clears, it is read-only once construction of
// a top-level evaluation begins.
type Context struct {
	Lang syntax.LanguageSupport
	Definitions *Definitions
	File string
	Ctx context.Context

	// ReturnValue, when non-nil, carries the value of a `return` executed
	// within the current call frame; checked by FunctionCall after running
	// a Definition's Body, and by PatternExpr.
	ReturnValue *model.ResolvedPattern
}

// WithFile returns a shallow copy of ctx pointed at the given file, with
// ReturnValue cleared. PatternCall and FunctionCall call it with the
// current file to give each call its own return slot.
func (c *Context) WithFile(file string) *Context {
	cp := *c
	cp.File = file
	cp.ReturnValue = nil
	return &cp
}

// checkCancelled polls the cancellation signal; matchers with unbounded
// recursion (Contains, Every/Some, Within, calls) must call this at each
// recursive step.
func checkCancelled(ctx *Context) error {
	if ctx.Ctx == nil {
		return nil
	}
	select {
	case <-ctx.Ctx.Done():
		return model.NewError(model.ErrCancelled, "evaluation cancelled", ctx.Ctx.Err())
	default:
		return nil
	}
}

// bindingNode returns the syntax.Node a Binding wraps, if it is a
// BindingNode (or a BindingValue wrapping one); most structural patterns
// only make sense against a node binding.
func bindingNode(b model.Binding) (syntax.Node, bool) {
	return asNode(b)
}

func internalErr(format string, args...any) error {
	return model.NewError(model.ErrInternal, fmt.Sprintf(format, args...), nil)
}
