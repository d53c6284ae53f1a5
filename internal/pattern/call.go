package pattern

import (
	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/state"
)

// bindArgs evaluates each call argument in the caller's (already-current)
// scope and copies the resulting value into the callee's freshly-pushed
// parameter slots. A true by-reference alias would require slots shared
// across scopes, which the frame-per-scope State design does not support.
// copy-in/copy-out (see copyOutArgs) reproduces the common case — passing
// a bare `$var` so the callee's binding is visible to the caller afterward
// — without needing shared storage.
func bindArgs(def *Definition, args []Expr, st *state.State, ctx *Context) error {
	for i, arg := range args {
		if i >= len(def.Params) {
			break
		}
		v, err := arg.Eval(st, ctx)
		if err != nil {
			return err
		}
		st.Set(def.Params[i], v, [2]uint32{0, 0})
	}
	return nil
}

// copyOutArgs writes each parameter's final value back to the caller
// variable it was passed as, for any argument that was a plain `$var`
// reference (VariableRead) rather than a computed expression.
func copyOutArgs(def *Definition, args []Expr, st *state.State) {
	for i, arg := range args {
		if i >= len(def.Params) {
			break
		}
		ref, ok := arg.(VariableRead)
		if !ok {
			continue
		}
		v, ok := st.Get(def.Params[i])
		if !ok {
			continue
		}
		st.Set(ref.Index, v, [2]uint32{0, 0})
	}
}

// PatternCall invokes a named `pattern` definition against the current
// subject, with Args copied into its parameter slots (see bindArgs).
type PatternCall struct {
	DefID int
	Args []Expr
}

func (p *PatternCall) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	if err := checkCancelled(ctx); err != nil {
		return false, err
	}
	def, ok := ctx.Definitions.Get(p.DefID)
	if !ok || def.Body == nil {
		return false, internalErr("call to unresolved pattern definition %d", p.DefID)
	}
	st.PushScope(def.ScopeID)
	defer st.PopScope(def.ScopeID)

	if err := bindArgs(def, p.Args, st, ctx); err != nil {
		return false, err
	}
	callCtx := ctx.WithFile(ctx.File)
	ok, err := def.Body.Execute(b, st, callCtx)
	if err != nil {
		return false, err
	}
	if ok {
		copyOutArgs(def, p.Args, st)
	}
	return ok, nil
}

// FunctionCall invokes a named `function` definition as an expression,
// producing the value of its trailing `return` (or Undefined, for a
// function whose body never returns along the taken path).
type FunctionCall struct {
	DefID int
	Args []Expr
}

func (e *FunctionCall) Eval(st *state.State, ctx *Context) (model.ResolvedPattern, error) {
	if err := checkCancelled(ctx); err != nil {
		return model.ResolvedPattern{}, err
	}
	def, ok := ctx.Definitions.Get(e.DefID)
	if !ok {
		return model.ResolvedPattern{}, internalErr("call to unresolved function definition %d", e.DefID)
	}
	st.PushScope(def.ScopeID)
	defer st.PopScope(def.ScopeID)

	if err := bindArgs(def, e.Args, st, ctx); err != nil {
		return model.ResolvedPattern{}, err
	}

	callCtx := ctx.WithFile(ctx.File)
	if def.Expr != nil {
		return def.Expr.Eval(st, callCtx)
	}
	if def.Body != nil {
		if _, err := def.Body.Execute(model.ValueBinding(model.Undefined()), st, callCtx); err != nil {
			return model.ResolvedPattern{}, err
		}
		if callCtx.ReturnValue != nil {
			return *callCtx.ReturnValue, nil
		}
	}
	return model.Undefined(), nil
}

// PatternExpr adapts a Pattern to the Expr interface: executing it (for its
// side effects, chiefly a nested Return setting ctx.ReturnValue) and then
// yielding that return value, or Undefined if none was set. This lets an
// if/return-shaped construct stand directly in expression position — e.g.
// a function body that branches before returning — without a separate
// call indirection, the same contract FunctionCall uses for a definition's
// Body.
type PatternExpr struct {
	Body Pattern
}

func (e *PatternExpr) Eval(st *state.State, ctx *Context) (model.ResolvedPattern, error) {
	if _, err := e.Body.Execute(model.ValueBinding(model.Undefined()), st, ctx); err != nil {
		return model.ResolvedPattern{}, err
	}
	if ctx.ReturnValue != nil {
		v := *ctx.ReturnValue
		ctx.ReturnValue = nil
		return v, nil
	}
	return model.Undefined(), nil
}

// Return records its evaluated Value as the enclosing call frame's return
// value. It always matches (returning true): `return` is a value-producing
// statement within a multi-statement function body, not itself a
// structural test.
type Return struct {
	Value Expr
}

func (p Return) Execute(_ model.Binding, st *state.State, ctx *Context) (bool, error) {
	v, err := p.Value.Eval(st, ctx)
	if err != nil {
		return false, err
	}
	ctx.ReturnValue = &v
	return true, nil
}
