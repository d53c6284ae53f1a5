// Package python is the Python collaborator for internal/syntax: grammar
// node kinds are named directly, validated against a FieldSchema the
// compiler checks `kind(field=...)` constraints against.
package python

import (
	"github.com/smacker/go-tree-sitter/python"

	"github.com/oxhq/morphic/internal/syntax"
)

// Language is the Python syntax.LanguageSupport collaborator.
type Language struct {
	syntax.TreeSitterParser
}

// New returns the Python language collaborator.
func New() *Language {
	return &Language{TreeSitterParser: syntax.TreeSitterParser{Lang: python.GetLanguage()}}
}

func (l *Language) Name() string { return "python" }

func (l *Language) Extensions() []string { return []string{".py", ".pyi"} }

// fieldSchema lists the named fields each relevant grammar.js node kind
// declares, per github.com/smacker/go-tree-sitter/python.
var fieldSchema = map[string]map[string]bool{
	"module":                    set(),
	"function_definition":       set("name", "parameters", "return_type", "body"),
	"async_function_definition": set("name", "parameters", "return_type", "body"),
	"class_definition":          set("name", "superclasses", "body"),
	"parameters":                set(),
	"parameter":                 set(),
	"default_parameter":         set("name", "value"),
	"typed_parameter":           set("type"),
	"assignment":                set("left", "right", "type"),
	"augmented_assignment":      set("left", "right", "operator"),
	"type_alias_statement":      set("left", "right"),
	"import_statement":          set("name"),
	"import_from_statement":     set("module_name", "name"),
	"aliased_import":            set("name", "alias"),
	"decorator":                 set(),
	"lambda":                    set("parameters", "body"),
	"if_statement":              set("condition", "consequence", "alternative"),
	"for_statement":              set("left", "right", "body"),
	"while_statement":           set("condition", "body"),
	"call":                      set("function", "arguments"),
	"argument_list":             set(),
	"attribute":                 set("object", "attribute"),
	"subscript":                 set("value", "subscript"),
	"binary_operator":           set("left", "right", "operator"),
	"unary_operator":            set("argument", "operator"),
	"tuple":                     set(),
	"list":                      set(),
	"pattern_list":              set(),
	"dictionary":                set(),
	"block":                     set(),
	"identifier":                set(),
	"comment":                   set(),
	"string":                    set(),
}

func set(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func (l *Language) FieldSchema(kind string) (map[string]bool, bool) {
	fields, ok := fieldSchema[kind]
	return fields, ok
}

var whitespaceKinds = set(
	":", ";", "(", ")", "[", "]", ",", "\\", "NEWLINE", "INDENT", "DEDENT",
)

func (l *Language) IsWhitespace(kind string) bool { return whitespaceKinds[kind] }

func (l *Language) IsComment(kind string) bool { return kind == "comment" }
