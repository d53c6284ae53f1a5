package pattern

import (
	"fmt"

	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/state"
	"github.com/oxhq/morphic/internal/variable"
)

// BoolConstant, IntConstant, FloatConstant, StringConstant, and
// UndefinedConstant are the closed set of literal expressions — one small
// type per literal kind rather than a single "Literal{any}" type, so the
// compiler can reject a literal in a context that needs a different kind
// at compile time.
type BoolConstant struct{ Value bool }

func (e BoolConstant) Eval(*state.State, *Context) (model.ResolvedPattern, error) {
	return model.Bool(e.Value), nil
}

type IntConstant struct{ Value int64 }

func (e IntConstant) Eval(*state.State, *Context) (model.ResolvedPattern, error) {
	return model.Int(e.Value), nil
}

type FloatConstant struct{ Value float64 }

func (e FloatConstant) Eval(*state.State, *Context) (model.ResolvedPattern, error) {
	return model.Float(e.Value), nil
}

type StringConstant struct{ Value string }

func (e StringConstant) Eval(*state.State, *Context) (model.ResolvedPattern, error) {
	return model.Str(e.Value), nil
}

type UndefinedConstant struct{}

func (e UndefinedConstant) Eval(*state.State, *Context) (model.ResolvedPattern, error) {
	return model.Undefined(), nil
}

// FileReference resolves one of the reserved global variables
// ($filename, $program, $absolute_filename) without going
// through the ordinary variable store, since they describe the file being
// matched rather than anything bound during matching.
type FileReference struct {
	Field string // "filename" | "program" | "absolute_filename"
}

func (e FileReference) Eval(st *state.State, ctx *Context) (model.ResolvedPattern, error) {
	f, ok := st.File(ctx.File)
	if !ok {
		return model.ResolvedPattern{}, internalErr("file reference to unregistered file %q", ctx.File)
	}
	switch e.Field {
	case "filename", "absolute_filename":
		return model.Str(f.Path), nil
	case "program":
		return model.Str(f.Body), nil
	default:
		return model.ResolvedPattern{}, internalErr("unknown file reference field %q", e.Field)
	}
}

// VariableRead evaluates a `$var` reference to its current value, or
// model.Undefined if the slot has never been assigned.
type VariableRead struct {
	Index variable.Index
}

func (e VariableRead) Eval(st *state.State, _ *Context) (model.ResolvedPattern, error) {
	v, ok := st.Get(e.Index)
	if !ok {
		return model.Undefined(), nil
	}
	return v, nil
}

// Accessor evaluates `$m.field`: a field access into whatever $m currently
// holds. For a node Binding, it descends via ChildByFieldName. For a Map,
// it looks up the key. A missing field or key, or a Binding that is not a
// node, yields Undefined; any other kind of value is a MatchError.
type Accessor struct {
	Base Expr
	Field string
}

func (e Accessor) Eval(st *state.State, ctx *Context) (model.ResolvedPattern, error) {
	base, err := e.Base.Eval(st, ctx)
	if err != nil {
		return model.ResolvedPattern{}, err
	}
	switch base.Kind {
	case model.KindMap:
		if v, ok := base.MapValues[e.Field]; ok {
			return v, nil
		}
		return model.Undefined(), nil
	case model.KindBinding:
		n, ok := bindingNode(base.Binding)
		if !ok {
			return model.Undefined(), nil
		}
		child, ok := n.ChildByFieldName(e.Field)
		if !ok {
			return model.Undefined(), nil
		}
		return model.FromBinding(model.NodeBinding(base.Binding.File, child)), nil
	default:
		return model.ResolvedPattern{}, model.NewError(model.ErrMatch,
			fmt.Sprintf("cannot access field %q of a non-node, non-map value", e.Field), nil)
	}
}

// ArithOp is the closed set of checked arithmetic/comparison operators
//.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

// Arith evaluates a binary arithmetic or comparison expression over two
// Constant operands.
type Arith struct {
	Op ArithOp
	Left Expr
	Right Expr
}

func (e Arith) Eval(st *state.State, ctx *Context) (model.ResolvedPattern, error) {
	l, err := e.Left.Eval(st, ctx)
	if err != nil {
		return model.ResolvedPattern{}, err
	}
	r, err := e.Right.Eval(st, ctx)
	if err != nil {
		return model.ResolvedPattern{}, err
	}

	switch e.Op {
	case OpEq:
		return model.Bool(l.Equal(r, st.FileBodies())), nil
	case OpNeq:
		return model.Bool(!l.Equal(r, st.FileBodies())), nil
	}

	lf, lIsFloat, err := numeric(l)
	if err != nil {
		return model.ResolvedPattern{}, err
	}
	rf, rIsFloat, err := numeric(r)
	if err != nil {
		return model.ResolvedPattern{}, err
	}
	useFloat := lIsFloat || rIsFloat

	switch e.Op {
	case OpLt:
		return model.Bool(lf < rf), nil
	case OpLte:
		return model.Bool(lf <= rf), nil
	case OpGt:
		return model.Bool(lf > rf), nil
	case OpGte:
		return model.Bool(lf >= rf), nil
	}

	if !useFloat {
		li, ri := int64(lf), int64(rf)
		switch e.Op {
		case OpAdd:
			sum := li + ri
			if (ri > 0 && sum < li) || (ri < 0 && sum > li) {
				return model.ResolvedPattern{}, model.NewError(model.ErrMatch, "integer overflow in +", nil)
			}
			return model.Int(sum), nil
		case OpSub:
			diff := li - ri
			if (ri < 0 && diff < li) || (ri > 0 && diff > li) {
				return model.ResolvedPattern{}, model.NewError(model.ErrMatch, "integer overflow in -", nil)
			}
			return model.Int(diff), nil
		case OpMul:
			if li != 0 && ri != 0 {
				prod := li * ri
				if prod/ri != li {
					return model.ResolvedPattern{}, model.NewError(model.ErrMatch, "integer overflow in *", nil)
				}
				return model.Int(prod), nil
			}
			return model.Int(0), nil
		case OpDiv:
			if ri == 0 {
				return model.ResolvedPattern{}, model.NewError(model.ErrMatch, "division by zero", nil)
			}
			return model.Int(li / ri), nil
		case OpMod:
			if ri == 0 {
				return model.ResolvedPattern{}, model.NewError(model.ErrMatch, "division by zero", nil)
			}
			return model.Int(li % ri), nil
		}
	}

	switch e.Op {
	case OpAdd:
		return model.Float(lf + rf), nil
	case OpSub:
		return model.Float(lf - rf), nil
	case OpMul:
		return model.Float(lf * rf), nil
	case OpDiv:
		if rf == 0 {
			return model.ResolvedPattern{}, model.NewError(model.ErrMatch, "division by zero", nil)
		}
		return model.Float(lf / rf), nil
	}
	return model.ResolvedPattern{}, internalErr("unreachable arithmetic operator %d", e.Op)
}

func numeric(v model.ResolvedPattern) (float64, bool, error) {
	if v.Kind != model.KindConstant {
		return 0, false, model.NewError(model.ErrMatch, "expected a numeric constant", nil)
	}
	switch v.ConstKind {
	case model.ConstInt:
		return float64(v.Int), false, nil
	case model.ConstFloat:
		return v.Float, true, nil
	case model.ConstString:
		var f float64
		if _, err := fmt.Sscanf(v.String, "%g", &f); err != nil {
			return 0, false, model.NewError(model.ErrMatch,
				fmt.Sprintf("cannot parse %q as a number", v.String), err)
		}
		return f, true, nil
	default:
		return 0, false, model.NewError(model.ErrMatch, "expected a numeric constant", nil)
	}
}

// BoolNot negates a predicate. Note this is the expression-level boolean
// Not (used inside `where` clauses and arithmetic expressions); it does not
// roll State back, so anything its child's evaluation changes (a
// FunctionCall can set slots and enqueue effects) stays. The pattern-level
// Not (control.go) always rolls back.
type BoolNot struct{ Child Expr }

func (e BoolNot) Eval(st *state.State, ctx *Context) (model.ResolvedPattern, error) {
	v, err := e.Child.Eval(st, ctx)
	if err != nil {
		return model.ResolvedPattern{}, err
	}
	truthy, err := v.IsTruthy(st.FileBodies())
	if err != nil {
		return model.ResolvedPattern{}, err
	}
	return model.Bool(!truthy), nil
}

// ExprPattern adapts an Expr to the Pattern interface: evaluating it and
// treating truthiness as match/no-match. This is how `where { $n > 2 }`
// style boolean expressions participate in And/Or/If without a separate
// predicate hierarchy.
type ExprPattern struct {
	Expr Expr
}

func (p ExprPattern) Execute(_ model.Binding, st *state.State, ctx *Context) (bool, error) {
	v, err := p.Expr.Eval(st, ctx)
	if err != nil {
		return false, err
	}
	return v.IsTruthy(st.FileBodies())
}
