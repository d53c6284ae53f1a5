// Package golang is the Go collaborator for internal/syntax: it supplies
// the tree-sitter grammar, the field schema the compiler validates
// `kind(field=...)` constraints against, and the whitespace/comment node
// kinds the snippet matcher and suppression pass need. The pattern-language
// compiler names grammar node kinds directly and expresses inserts as
// `insert_after`/`insert_before` pattern-language calls, so FieldSchema only
// needs to answer "does this kind have this field".
package golang

import (
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/oxhq/morphic/internal/syntax"
)

// Language is the Go syntax.LanguageSupport collaborator.
type Language struct {
	syntax.TreeSitterParser
}

// New returns the Go language collaborator.
func New() *Language {
	return &Language{TreeSitterParser: syntax.TreeSitterParser{Lang: golang.GetLanguage()}}
}

func (l *Language) Name() string { return "go" }

func (l *Language) Extensions() []string { return []string{".go"} }

// fieldSchema maps a grammar node kind to its declared field names, per
// github.com/smacker/go-tree-sitter/golang's grammar.js. It is not
// exhaustive over every production the grammar defines — only the kinds a
// pattern program can plausibly constrain by field are listed; the compiler
// rejects an unlisted kind as unknown, whether it is written bare or with
// field constraints.
var fieldSchema = map[string]map[string]bool{
	"source_file":            set(),
	"package_clause":         set("name"),
	"import_declaration":     set(),
	"import_spec":            set("name", "path"),
	"function_declaration":   set("name", "parameters", "result", "body", "type_parameters"),
	"method_declaration":     set("name", "receiver", "parameters", "result", "body"),
	"parameter_list":         set(),
	"parameter_declaration":  set("name", "type"),
	"type_declaration":       set(),
	"type_spec":              set("name", "type", "type_parameters"),
	"struct_type":            set("field"),
	"field_declaration":      set("name", "type", "tag"),
	"interface_type":         set("method", "type"),
	"var_declaration":        set(),
	"const_declaration":      set(),
	"var_spec":               set("name", "type", "value"),
	"const_spec":             set("name", "type", "value"),
	"short_var_declaration":  set("left", "right"),
	"assignment_statement":   set("left", "right"),
	"if_statement":           set("condition", "consequence", "alternative", "initializer"),
	"for_statement":          set("condition", "initializer", "update", "body"),
	"return_statement":       set(),
	"call_expression":        set("function", "arguments"),
	"argument_list":          set(),
	"binary_expression":      set("left", "right", "operator"),
	"unary_expression":       set("operand", "operator"),
	"selector_expression":    set("operand", "field"),
	"index_expression":       set("operand", "index"),
	"composite_literal":      set("type", "body"),
	"literal_value":          set(),
	"block":                  set(),
	"identifier":             set(),
	"field_identifier":       set(),
	"type_identifier":        set(),
	"comment":                set(),
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

// whitespaceKinds are anonymous/punctuation token kinds insignificant for
// snippet comparison. Go's grammar surfaces few standalone whitespace
// tokens (most is implicit between nodes), so this is mostly punctuation a
// snippet shouldn't have to match exactly.
var whitespaceKinds = set(
	"\n", ";", "{", "}", "(", ")", "[", "]", ",",
)

func (l *Language) IsWhitespace(kind string) bool { return whitespaceKinds[kind] }

func (l *Language) IsComment(kind string) bool { return kind == "comment" }
