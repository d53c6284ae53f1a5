package patterncompiler

import "github.com/oxhq/morphic/internal/pattern"

// compileEvery and compileSome compile the `every`/`some` list quantifiers
// over a list value or a node's named children.
func (c *compileCtx) compileEvery(node *EveryNode, isRHS bool) (pattern.Pattern, error) {
	child, err := c.compilePattern(node.Child, isRHS)
	if err != nil {
		return nil, err
	}
	return &pattern.Every{Child: child}, nil
}

func (c *compileCtx) compileSome(node *SomeNode, isRHS bool) (pattern.Pattern, error) {
	child, err := c.compilePattern(node.Child, isRHS)
	if err != nil {
		return nil, err
	}
	return &pattern.Some{Child: child}, nil
}
