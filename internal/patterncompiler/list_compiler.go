package patterncompiler

import (
	"github.com/oxhq/morphic/internal/pattern"
	"github.com/oxhq/morphic/internal/variable"
)

// compileList and compileMap compile the `[...]`/`{...}` structural forms
// in matching (LHS) position.
func (c *compileCtx) compileList(node *ListNode, isRHS bool) (pattern.Pattern, error) {
	elems := make([]pattern.Pattern, len(node.Elements))
	for i, el := range node.Elements {
		p, err := c.compilePattern(el, isRHS)
		if err != nil {
			return nil, err
		}
		elems[i] = p
	}
	var rest *variable.Index
	if node.Rest != "" {
		idx := c.registerVar(node.Rest)
		rest = &idx
	}
	return &pattern.ListPattern{Elements: elems, Rest: rest}, nil
}

func (c *compileCtx) compileMap(node *MapNode, isRHS bool) (pattern.Pattern, error) {
	fields := make([]pattern.MapFieldConstraint, len(node.Fields))
	for i, f := range node.Fields {
		p, err := c.compilePattern(f.Value, isRHS)
		if err != nil {
			return nil, err
		}
		fields[i] = pattern.MapFieldConstraint{Key: f.Key, Pattern: p}
	}
	return &pattern.MapPattern{Fields: fields}, nil
}

// compileListConstruct and compileMapConstruct compile the same surface
// forms in construct (RHS) position, where the literal builds a value
// rather than matching one; a `...$rest` tail has no construct-mode
// meaning and is rejected at compile time.
func (c *compileCtx) compileListConstruct(node *ListNode) (pattern.Expr, error) {
	if node.Rest != "" {
		return nil, compileErr("...$%s rest capture is only valid in matching position", node.Rest)
	}
	elems := make([]pattern.Expr, len(node.Elements))
	for i, el := range node.Elements {
		e, err := c.compileExpr(el)
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	return &pattern.ListConstruct{Elements: elems}, nil
}

func (c *compileCtx) compileMapConstruct(node *MapNode) (pattern.Expr, error) {
	keys := make([]string, len(node.Fields))
	values := make([]pattern.Expr, len(node.Fields))
	for i, f := range node.Fields {
		e, err := c.compileExpr(f.Value)
		if err != nil {
			return nil, err
		}
		keys[i] = f.Key
		values[i] = e
	}
	return &pattern.MapConstruct{Keys: keys, Values: values}, nil
}
