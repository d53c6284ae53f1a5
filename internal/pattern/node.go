package pattern

import (
	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/state"
	"github.com/oxhq/morphic/internal/syntax"
)

// FieldConstraint pairs a grammar field name with the sub-pattern its child
// must match. Order is significant only in that it is the order constraints
// run in; the compiler preserves source order when building these
// from a `kind(field=pattern,...)` call.
type FieldConstraint struct {
	Field string
	Pattern Pattern
}

// NodePattern matches a node of a specific grammar kind, plus a constraint
// per named field (`function_declaration(name=$name, body=$body)`). A field
// the language schema doesn't recognize is rejected at compile time
// (internal/patterncompiler), never reaches the IR.
type NodePattern struct {
	Kind string
	Fields []FieldConstraint
}

func (p *NodePattern) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	n, ok := asNode(b)
	if !ok {
		return false, nil
	}
	if n.Kind() != p.Kind {
		return false, nil
	}
	for _, fc := range p.Fields {
		if err := checkCancelled(ctx); err != nil {
			return false, err
		}
		child, ok := n.ChildByFieldName(fc.Field)
		var childBinding model.Binding
		if ok {
			childBinding = model.NodeBinding(b.File, child)
		} else {
			childBinding = model.ValueBinding(model.Undefined())
		}
		matched, err := fc.Pattern.Execute(childBinding, st, ctx)
		if err != nil {
			return false, err
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

// AnyNodePattern matches any named node at all — the compiled form of a
// bare `$_`.
type AnyNodePattern struct{}

func (AnyNodePattern) Execute(b model.Binding, _ *state.State, _ *Context) (bool, error) {
	_, ok := asNode(b)
	return ok, nil
}

// UndefinedPattern matches the distinguished Undefined constant: a variable
// that has never been assigned, or a field absent from its parent node.
type UndefinedPattern struct{}

func (UndefinedPattern) Execute(b model.Binding, _ *state.State, _ *Context) (bool, error) {
	if b.Kind != model.BindingValue || b.Value == nil {
		return false, nil
	}
	return b.Value.MatchesUndefined(), nil
}

// asNode recovers the syntax.Node a binding denotes, unwrapping a
// BindingValue that itself wraps a KindBinding ResolvedPattern (the result
// of `<:` re-wrapping a variable read).
func asNode(b model.Binding) (syntax.Node, bool) {
	switch b.Kind {
	case model.BindingNode:
		return b.Node, true
	case model.BindingValue:
		if b.Value != nil && b.Value.Kind == model.KindBinding {
			return asNode(b.Value.Binding)
		}
	}
	return syntax.Node{}, false
}
