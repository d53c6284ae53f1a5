// Package typescript is the TypeScript collaborator for internal/syntax.
package typescript

import (
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/oxhq/morphic/internal/syntax"
)

// Language is the TypeScript syntax.LanguageSupport collaborator.
type Language struct {
	syntax.TreeSitterParser
}

// New returns the TypeScript language collaborator.
func New() *Language {
	return &Language{TreeSitterParser: syntax.TreeSitterParser{Lang: typescript.GetLanguage()}}
}

func (l *Language) Name() string { return "typescript" }

func (l *Language) Extensions() []string { return []string{".ts"} }

// fieldSchema shares most kinds with providers/javascript, plus
// TypeScript-specific kinds (property_signature, enum_member,
// method_signature, public/private_field_definition).
var fieldSchema = map[string]map[string]bool{
	"program": set(),
	"function_declaration": set("name", "parameters", "return_type", "body"),
	"class_declaration": set("name", "superclass", "body"),
	"class_expression": set("name", "superclass", "body"),
	"interface_declaration": set("name", "body"),
	"method_definition": set("name", "key", "parameters", "return_type", "body"),
	"method_signature": set("name", "key", "parameters", "return_type"),
	"public_field_definition": set("property", "value", "type"),
	"private_field_definition": set("property", "value", "type"),
	"field_definition": set("property", "value", "type"),
	"property_signature": set("name", "type"),
	"enum_declaration": set("name", "body"),
	"enum_member": set("name", "value"),
	"variable_declarator": set("name", "value", "type"),
	"lexical_declaration": set(),
	"variable_declaration": set(),
	"import_statement": set("source"),
	"export_statement": set("source", "declaration"),
	"import_specifier": set("name", "alias"),
	"namespace_import": set("name"),
	"arrow_function": set("parameters", "return_type", "body"),
	"function_expression": set("name", "parameters", "return_type", "body"),
	"call_expression": set("function", "arguments", "type_arguments"),
	"arguments": set(),
	"assignment_expression": set("left", "right", "operator"),
	"binary_expression": set("left", "right", "operator"),
	"member_expression": set("object", "property"),
	"subscript_expression": set("object", "index"),
	"array_pattern": set(),
	"object_pattern": set(),
	"pair": set("key", "value"),
	"shorthand_property_identifier": set(),
	"statement_block": set(),
	"identifier": set(),
	"property_identifier": set(),
	"type_identifier": set(),
	"comment": set(),
	"string": set(),
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
