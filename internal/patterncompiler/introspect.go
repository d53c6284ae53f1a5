package patterncompiler

// Definition describes one named pattern or function definition in a
// program's source, without compiling it against any language — the
// driver's `morphic list` needs names and arities only, not a validated
// IR, and field-schema validation requires a concrete syntax.LanguageSupport
// this entry point deliberately avoids depending on.
type Definition struct {
	Name   string
	IsFunc bool
	Params []string
	Line   int
}

// ListDefinitions parses src and returns every top-level `pattern`/
// `function` definition it declares, in source order.
func ListDefinitions(src string) ([]Definition, error) {
	prog, err := parseProgram(src)
	if err != nil {
		return nil, err
	}
	defs := make([]Definition, 0, len(prog.Definitions))
	for _, d := range prog.Definitions {
		defs = append(defs, Definition{
			Name:   d.Name,
			IsFunc: d.IsFunc,
			Params: d.Params,
			Line:   d.Line,
		})
	}
	return defs, nil
}
