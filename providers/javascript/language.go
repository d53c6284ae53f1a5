// Package javascript is the JavaScript collaborator for internal/syntax.
package javascript

import (
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/oxhq/morphic/internal/syntax"
)

// Language is the JavaScript syntax.LanguageSupport collaborator.
type Language struct {
	syntax.TreeSitterParser
}

// New returns the JavaScript language collaborator.
func New() *Language {
	return &Language{TreeSitterParser: syntax.TreeSitterParser{Lang: javascript.GetLanguage()}}
}

func (l *Language) Name() string { return "javascript" }

func (l *Language) Extensions() []string { return []string{".js", ".jsx", ".mjs", ".cjs"} }

// fieldSchema lists the named fields each relevant grammar.js node kind
// declares (id, source, alias, name, key, value, left, property,...), per
// github.com/smacker/go-tree-sitter/javascript.
var fieldSchema = map[string]map[string]bool{
	"program": set(),
	"function_declaration": set("name", "parameters", "body"),
	"class_declaration": set("name", "superclass", "body"),
	"class_expression": set("name", "superclass", "body"),
	"method_definition": set("name", "key", "parameters", "body"),
	"field_definition": set("property", "value"),
	"variable_declarator": set("name", "value"),
	"lexical_declaration": set(),
	"variable_declaration": set(),
	"import_statement": set("source"),
	"export_statement": set("source", "declaration"),
	"import_specifier": set("name", "alias"),
	"namespace_import": set("name"),
	"arrow_function": set("parameters", "body"),
	"function_expression": set("name", "parameters", "body"),
	"call_expression": set("function", "arguments"),
	"arguments": set(),
	"assignment_expression": set("left", "right", "operator"),
	"binary_expression": set("left", "right", "operator"),
	"unary_expression": set("argument", "operator"),
	"member_expression": set("object", "property"),
	"subscript_expression": set("object", "index"),
	"array_pattern": set(),
	"object_pattern": set(),
	"pair": set("key", "value"),
	"shorthand_property_identifier": set(),
	"statement_block": set(),
	"identifier": set(),
	"property_identifier": set(),
	"comment": set(),
	"string": set(),
	"template_string": set(),
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
	";", "{", "}", "(", ")", "[", "]", ",",
)

func (l *Language) IsWhitespace(kind string) bool { return whitespaceKinds[kind] }

func (l *Language) IsComment(kind string) bool { return kind == "comment" }
