package patterncompiler

import "github.com/oxhq/morphic/internal/pattern"

// globalFields maps a reserved global variable name to the FileReference
// field it reads, since these describe the file being matched rather than
// anything bound during matching.
var globalFields = map[string]string{
	"filename":          "filename",
	"program":           "program",
	"absolute_filename": "absolute_filename",
}

// compileVarExpr compiles a `$name` reference in value position: a
// reserved global resolves to a FileReference, everything else to a
// VariableRead against its registered slot.
func (c *compileCtx) compileVarExpr(node *VarNode) (pattern.Expr, error) {
	if field, ok := globalFields[node.Name]; ok {
		return pattern.FileReference{Field: field}, nil
	}
	idx := c.registerVar(node.Name)
	return pattern.VariableRead{Index: idx}, nil
}

// compileVarPattern compiles a `$name` reference in matching position.
// `$_` is the anonymous wildcard: it matches any node without binding a
// slot. A reserved global name reads as a FileReference value tested for
// truthiness via ExprPattern, without consulting the subject, since
// $filename/$program describe the file rather than anything bindable.
// Every other name binds the subject structurally (VariableBind) rather
// than reading the variable's prior value — compiling it as a read would
// make every first occurrence of a pattern variable compare an
// always-Undefined value for truthiness and never match.
func (c *compileCtx) compileVarPattern(node *VarNode) (pattern.Pattern, error) {
	if node.Name == "_" {
		return pattern.AnyNodePattern{}, nil
	}
	if field, ok := globalFields[node.Name]; ok {
		return pattern.ExprPattern{Expr: pattern.FileReference{Field: field}}, nil
	}
	idx := c.registerVar(node.Name)
	return pattern.VariableBind{Index: idx}, nil
}

// compileAssign and compileAccumulate compile `$v = expr` and `$v += expr`.
// Both register the target variable (first occurrence allocates a slot,
// later ones resolve to the same one) and compile the right-hand side as an
// ordinary Expr in construct mode.
func (c *compileCtx) compileAssign(node *AssignNode) (pattern.Pattern, error) {
	idx := c.registerVar(node.Name)
	val, err := c.compileExpr(node.Value)
	if err != nil {
		return nil, err
	}
	return pattern.Assignment{Index: idx, Value: val}, nil
}

func (c *compileCtx) compileAccumulate(node *AccumulateNode) (pattern.Pattern, error) {
	idx := c.registerVar(node.Name)
	val, err := c.compileExpr(node.Value)
	if err != nil {
		return nil, err
	}
	return pattern.Accumulate{Index: idx, Value: val}, nil
}
