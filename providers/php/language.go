// Package php is the PHP collaborator for internal/syntax.
package php

import (
	"github.com/smacker/go-tree-sitter/php"

	"github.com/oxhq/morphic/internal/syntax"
)

// Language is the PHP syntax.LanguageSupport collaborator.
type Language struct {
	syntax.TreeSitterParser
}

// New returns the PHP language collaborator.
func New() *Language {
	return &Language{TreeSitterParser: syntax.TreeSitterParser{Lang: php.GetLanguage()}}
}

func (l *Language) Name() string { return "php" }

func (l *Language) Extensions() []string { return []string{".php"} }

// fieldSchema lists the named fields each relevant grammar.js node kind
// declares (name on function_definition/class_declaration/
// method_declaration/namespace_definition), per
// github.com/smacker/go-tree-sitter/php.
var fieldSchema = map[string]map[string]bool{
	"program": set(),
	"function_definition": set("name", "parameters", "return_type", "body"),
	"method_declaration": set("name", "parameters", "return_type", "body"),
	"class_declaration": set("name", "base_clause", "body"),
	"interface_declaration": set("name", "body"),
	"trait_declaration": set("name", "body"),
	"property_declaration": set(),
	"property_element": set("name"),
	"variable_name": set(),
	"namespace_definition": set("name", "body"),
	"namespace_use_declaration": set(),
	"namespace_use_clause": set("name", "alias"),
	"assignment_expression": set("left", "right"),
	"binary_expression": set("left", "right", "operator"),
	"function_call_expression": set("function", "arguments"),
	"arguments": set(),
	"member_access_expression": set("object", "name"),
	"compound_statement": set(),
	"name": set(),
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
	";", "{", "}", "(", ")", "[", "]", ",", "$",
)

func (l *Language) IsWhitespace(kind string) bool { return whitespaceKinds[kind] }

func (l *Language) IsComment(kind string) bool { return kind == "comment" }
