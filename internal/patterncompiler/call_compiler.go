package patterncompiler

import "github.com/oxhq/morphic/internal/pattern"

// builtinPatternCalls are function-call-shaped forms the grammar doesn't
// give their own syntax; recognizing them by name here keeps pattern.InsertAfter/
// InsertBefore reachable without inventing grammar the rest of the surface
// doesn't have.
var builtinPatternCalls = map[string]bool{
	"insert_after": true, "insert_before": true,
}

// compileCall compiles a CallNode in pattern (matching) position: a
// recognized built-in, a call to a named pattern/function definition, or
// (falling through) a node-kind constructor with field constraints.
func (c *compileCtx) compileCall(node *CallNode, isRHS bool) (pattern.Pattern, error) {
	if builtinPatternCalls[node.Name] {
		return c.compileBuiltinCall(node)
	}
	if id, ok := c.defIDs[node.Name]; ok {
		def, _ := c.defs.Get(id)
		if len(node.Fields) > 0 {
			return nil, compileErr("%q does not take named fields", node.Name)
		}
		args, err := c.compileCallArgs(node, def)
		if err != nil {
			return nil, err
		}
		if def.IsFunc {
			return pattern.ExprPattern{Expr: &pattern.FunctionCall{DefID: id, Args: args}}, nil
		}
		return &pattern.PatternCall{DefID: id, Args: args}, nil
	}
	return c.compileNodeKind(node)
}

func (c *compileCtx) compileBuiltinCall(node *CallNode) (pattern.Pattern, error) {
	if len(node.Args) != 1 {
		return nil, compileErr("%s takes exactly one argument", node.Name)
	}
	val, err := c.compileExpr(node.Args[0])
	if err != nil {
		return nil, err
	}
	switch node.Name {
	case "insert_after":
		return pattern.InsertAfter{Value: val}, nil
	case "insert_before":
		return pattern.InsertBefore{Value: val}, nil
	default:
		return nil, compileErr("unreachable builtin %q", node.Name)
	}
}

func (c *compileCtx) compileCallArgs(node *CallNode, def *pattern.Definition) ([]pattern.Expr, error) {
	if len(node.Args) != len(def.Params) {
		return nil, compileErr("%q takes %d argument(s), got %d", node.Name, len(def.Params), len(node.Args))
	}
	args := make([]pattern.Expr, len(node.Args))
	for i, a := range node.Args {
		e, err := c.compileExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return args, nil
}

// compileIdent compiles a bare identifier in pattern position: a call to a
// zero-argument definition, or a node-kind match with no field constraints.
func (c *compileCtx) compileIdent(node *Ident) (pattern.Pattern, error) {
	if id, ok := c.defIDs[node.Name]; ok {
		def, _ := c.defs.Get(id)
		if len(def.Params) != 0 {
			return nil, compileErr("%q takes %d argument(s), got 0", node.Name, len(def.Params))
		}
		if def.IsFunc {
			return pattern.ExprPattern{Expr: &pattern.FunctionCall{DefID: id}}, nil
		}
		return &pattern.PatternCall{DefID: id}, nil
	}
	if _, ok := c.lang.FieldSchema(node.Name); ok {
		return &pattern.NodePattern{Kind: node.Name}, nil
	}
	return nil, compileErr("%q is not a known pattern, function, or %s node kind", node.Name, c.lang.Name())
}

// compileCallExpr and compileIdentExpr compile the same call surface in
// expression (value-producing) position: only function definitions are
// valid here, since a `pattern` definition or node-kind match doesn't
// produce a value.
func (c *compileCtx) compileCallExpr(node *CallNode) (pattern.Expr, error) {
	id, ok := c.defIDs[node.Name]
	if !ok {
		return nil, compileErr("%q is not a known function", node.Name)
	}
	def, _ := c.defs.Get(id)
	if !def.IsFunc {
		return nil, compileErr("%q is a pattern, not a function, and cannot be used as a value", node.Name)
	}
	if len(node.Fields) > 0 {
		return nil, compileErr("%q does not take named fields", node.Name)
	}
	args, err := c.compileCallArgs(node, def)
	if err != nil {
		return nil, err
	}
	return &pattern.FunctionCall{DefID: id, Args: args}, nil
}

func (c *compileCtx) compileIdentExpr(node *Ident) (pattern.Expr, error) {
	id, ok := c.defIDs[node.Name]
	if !ok {
		return nil, compileErr("%q is not a known function", node.Name)
	}
	def, _ := c.defs.Get(id)
	if !def.IsFunc {
		return nil, compileErr("%q is a pattern, not a function, and cannot be used as a value", node.Name)
	}
	if len(def.Params) != 0 {
		return nil, compileErr("%q takes %d argument(s), got 0", node.Name, len(def.Params))
	}
	return &pattern.FunctionCall{DefID: id}, nil
}
