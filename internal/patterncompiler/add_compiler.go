package patterncompiler

import "github.com/oxhq/morphic/internal/pattern"

// arithOps maps the surface operator spellings to the checked-arithmetic/
// comparison IR tags (pattern.Arith).
var arithOps = map[string]pattern.ArithOp{
	"+": pattern.OpAdd, "-": pattern.OpSub, "*": pattern.OpMul,
	"/": pattern.OpDiv, "%": pattern.OpMod,
	"==": pattern.OpEq, "!=": pattern.OpNeq,
	"<": pattern.OpLt, "<=": pattern.OpLte, ">": pattern.OpGt, ">=": pattern.OpGte,
}

// compileArith compiles a binary arithmetic or comparison expression over
// the full checked-arithmetic operator set.
func (c *compileCtx) compileArith(node *ArithNode) (pattern.Expr, error) {
	op, ok := arithOps[node.Op]
	if !ok {
		return nil, compileErr("unknown operator %q", node.Op)
	}
	left, err := c.compileExpr(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.compileExpr(node.Right)
	if err != nil {
		return nil, err
	}
	return pattern.Arith{Op: op, Left: left, Right: right}, nil
}
