package pattern

import (
	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/state"
	"github.com/oxhq/morphic/internal/variable"
)

// ListPattern matches an ordered list subject (a KindList value, or a
// structural node's named children — see listElements in traverse.go)
// against one sub-pattern per position. Rest, if non-nil, captures every
// element past len(Elements) as a List value bound to that slot — the
// compiled form of the `...$rest` tail in `[$head, ...$rest]`.
type ListPattern struct {
	Elements []Pattern
	Rest     *variable.Index
}

func (p *ListPattern) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	elems, ok := listElements(b)
	if !ok {
		return false, nil
	}
	if p.Rest == nil {
		if len(elems) != len(p.Elements) {
			return false, nil
		}
	} else if len(elems) < len(p.Elements) {
		return false, nil
	}

	for i, ep := range p.Elements {
		if err := checkCancelled(ctx); err != nil {
			return false, err
		}
		ok, err := ep.Execute(elems[i], st, ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if p.Rest != nil {
		rest := make([]model.ResolvedPattern, 0, len(elems)-len(p.Elements))
		for _, e := range elems[len(p.Elements):] {
			if e.Kind == model.BindingValue && e.Value != nil {
				rest = append(rest, *e.Value)
			} else {
				rest = append(rest, model.FromBinding(e))
			}
		}
		rng := [2]uint32{0, 0}
		if b.Kind == model.BindingNode || b.Kind == model.BindingRange {
			rng = [2]uint32{b.Start, b.End}
		}
		return assign(st, *p.Rest, model.FromList(rest), rng), nil
	}
	return true, nil
}

// MapFieldConstraint pairs a map key with the sub-pattern its value must
// match. A key absent from the subject map is treated as Undefined, the
// same convention NodePattern uses for an absent grammar field.
type MapFieldConstraint struct {
	Key     string
	Pattern Pattern
}

// MapPattern matches a KindMap subject against a constraint per named key;
// keys not listed are wildcards.
type MapPattern struct {
	Fields []MapFieldConstraint
}

// ListConstruct is the RHS counterpart to ListPattern: it builds a KindList
// value from one expression per element, rather than matching one.
type ListConstruct struct {
	Elements []Expr
}

func (e *ListConstruct) Eval(st *state.State, ctx *Context) (model.ResolvedPattern, error) {
	out := make([]model.ResolvedPattern, len(e.Elements))
	for i, el := range e.Elements {
		v, err := el.Eval(st, ctx)
		if err != nil {
			return model.ResolvedPattern{}, err
		}
		out[i] = v
	}
	return model.FromList(out), nil
}

// MapConstruct is the RHS counterpart to MapPattern: it builds a KindMap
// value from one expression per key, rather than matching one.
type MapConstruct struct {
	Keys   []string
	Values []Expr
}

func (e *MapConstruct) Eval(st *state.State, ctx *Context) (model.ResolvedPattern, error) {
	m := model.NewMap()
	for i, k := range e.Keys {
		v, err := e.Values[i].Eval(st, ctx)
		if err != nil {
			return model.ResolvedPattern{}, err
		}
		m.Set(k, v)
	}
	return m, nil
}

func (p *MapPattern) Execute(b model.Binding, st *state.State, ctx *Context) (bool, error) {
	if b.Kind != model.BindingValue || b.Value == nil || b.Value.Kind != model.KindMap {
		return false, nil
	}
	for _, fc := range p.Fields {
		if err := checkCancelled(ctx); err != nil {
			return false, err
		}
		var childBinding model.Binding
		if v, ok := b.Value.MapValues[fc.Key]; ok {
			if v.Kind == model.KindBinding {
				childBinding = v.Binding
			} else {
				childBinding = model.ValueBinding(v)
			}
		} else {
			childBinding = model.ValueBinding(model.Undefined())
		}
		ok, err := fc.Pattern.Execute(childBinding, st, ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
