package patterncompiler

import "github.com/oxhq/morphic/internal/pattern"

// compileNodeKind compiles a CallNode/Ident whose name resolves to neither
// a definition nor a built-in as a structural node-kind match, validating
// each field argument against the target language's declared schema. An
// unknown field is a compile error naming both the kind and the field.
func (c *compileCtx) compileNodeKind(node *CallNode) (pattern.Pattern, error) {
	schema, ok := c.lang.FieldSchema(node.Name)
	if !ok {
		return nil, compileErr("%q is not a known pattern, function, or %s node kind", node.Name, c.lang.Name())
	}
	if len(node.Args) > 0 {
		return nil, compileErr("%q takes named fields, not positional arguments", node.Name)
	}
	fields := make([]pattern.FieldConstraint, len(node.Fields))
	for i, fa := range node.Fields {
		if !schema[fa.Name] {
			return nil, compileErr("%q has no field %q", node.Name, fa.Name)
		}
		p, err := c.compilePattern(fa.Value, false)
		if err != nil {
			return nil, err
		}
		fields[i] = pattern.FieldConstraint{Field: fa.Name, Pattern: p}
	}
	return &pattern.NodePattern{Kind: node.Name, Fields: fields}, nil
}
