package patterncompiler

import "github.com/oxhq/morphic/internal/pattern"

// compileAfter and compileBefore compile the sibling-relative `after`/
// `before` forms. These only ever inspect immediate siblings — descendant
// search stays exclusive to `contains`.
func (c *compileCtx) compileAfter(node *AfterNode, isRHS bool) (pattern.Pattern, error) {
	child, err := c.compilePattern(node.Child, isRHS)
	if err != nil {
		return nil, err
	}
	return &pattern.After{Child: child}, nil
}

func (c *compileCtx) compileBefore(node *BeforeNode, isRHS bool) (pattern.Pattern, error) {
	child, err := c.compilePattern(node.Child, isRHS)
	if err != nil {
		return nil, err
	}
	return &pattern.Before{Child: child}, nil
}
