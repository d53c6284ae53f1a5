package syntax

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// LanguageSupport is the collaborator a target language must supply. The
// pattern engine touches syntax trees only through this interface and Node;
// it never imports a concrete tree-sitter grammar package itself.
type LanguageSupport interface {
	// Name is the canonical language identifier, e.g. "go".
	Name() string

	// Extensions lists the file extensions this language claims.
	Extensions() []string

	// Parse parses source into a Tree.
	Parse(source []byte) (*Tree, error)

	// FieldSchema returns the declared field names for a node kind, used by
	// the compiler to reject `kind(unknownField=...)` at compile time.
	// ok is false for kinds the language doesn't know about.
	FieldSchema(kind string) (fields map[string]bool, ok bool)

	// IsWhitespace reports whether a node kind is insignificant for snippet
	// comparison (whitespace tokens, in languages whose grammar surfaces
	// them, and purely syntactic punctuation the language wants ignored).
	IsWhitespace(kind string) bool

	// IsComment reports whether a node kind is a comment, used by the
	// suppression pass to find directive comments.
	IsComment(kind string) bool
}

// metaVarPattern matches `$name` metavariable placeholders in snippet text.
// `$...` (rest) and bare `$` are intentionally excluded; those are list/map
// pattern constructs handled by the compiler, not the snippet parser.
var metaVarPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// SnippetPattern is a parsed backtick snippet: a small Tree plus the set of
// leaf byte-ranges (within that tree's own text) that stand for
// metavariables, and the name bound at each.
type SnippetPattern struct {
	Tree     *Tree
	Root     Node
	MetaVars map[[2]uint32]string
}

// MetaVarAt reports the metavariable name bound at a node's byte range, if
// the node is a metavariable placeholder leaf.
func (s *SnippetPattern) MetaVarAt(n Node) (string, bool) {
	start, end := n.ByteRange()
	name, ok := s.MetaVars[[2]uint32{start, end}]
	return name, ok
}

type snippetCacheEntry struct {
	pattern *SnippetPattern
	err     error
}

// snippetCache is the single legitimate process-wide structure in the
// engine: an append-only, (text, language)-keyed cache of parsed snippet
// patterns. Reads proceed lock-free via sync.Map; inserts are guarded by a
// mutex so two goroutines racing to compile the same snippet do the work
// only once.
var snippetCache sync.Map // key: string -> *snippetCacheEntry

var snippetCacheMu sync.Mutex

func snippetCacheKey(lang string, text string) string {
	return lang + "\x00" + text
}

// ParseSnippet parses a backtick snippet (possibly containing `$name`
// metavariables) into a SnippetPattern, caching the result by (text, lang).
//
// It implements the two-pass strategy: each `$name` occurrence is replaced
// by a canonical placeholder identifier the target grammar will accept as
// an ordinary identifier, the substituted text is parsed normally, and the
// resulting leaf nodes at the placeholder positions are then marked as
// metavariables.
func ParseSnippet(lang LanguageSupport, text string) (*SnippetPattern, error) {
	key := snippetCacheKey(lang.Name(), text)
	if v, ok := snippetCache.Load(key); ok {
		entry := v.(*snippetCacheEntry)
		return entry.pattern, entry.err
	}

	snippetCacheMu.Lock()
	defer snippetCacheMu.Unlock()

	// Re-check: another goroutine may have populated it while we waited.
	if v, ok := snippetCache.Load(key); ok {
		entry := v.(*snippetCacheEntry)
		return entry.pattern, entry.err
	}

	pattern, err := buildSnippetPattern(lang, text)
	snippetCache.Store(key, &snippetCacheEntry{pattern: pattern, err: err})
	return pattern, err
}

// TextFragment is one piece of a snippet's literal text split around its
// `$name` metavariable placeholders: either a pure-literal run (Name ==
// "") or a single placeholder occurrence.
type TextFragment struct {
	Literal string
	Name    string
}

// SplitMetaVars splits snippet text into literal/placeholder fragments,
// shared by ParseSnippet (LHS) and the pattern compiler's RHS construct
// builder so both use the exact same placeholder grammar.
func SplitMetaVars(text string) []TextFragment {
	var out []TextFragment
	last := 0
	for _, m := range metaVarPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			out = append(out, TextFragment{Literal: text[last:m[0]]})
		}
		out = append(out, TextFragment{Name: text[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(text) {
		out = append(out, TextFragment{Literal: text[last:]})
	}
	return out
}

func buildSnippetPattern(lang LanguageSupport, text string) (*SnippetPattern, error) {
	type placeholder struct {
		start int
		end   int
		name  string
	}

	var placeholders []placeholder
	var b strings.Builder
	last := 0
	for _, m := range metaVarPattern.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(text[last:m[0]])
		name := text[m[2]:m[3]]
		token := "mv_" + name
		placeholders = append(placeholders, placeholder{
			start: b.Len(),
			end:   b.Len() + len(token),
			name:  name,
		})
		b.WriteString(token)
		last = m[1]
	}
	b.WriteString(text[last:])
	substituted := b.String()

	tree, err := lang.Parse([]byte(substituted))
	if err != nil {
		return nil, fmt.Errorf("syntax: parse snippet: %w", err)
	}

	metaVars := make(map[[2]uint32]string, len(placeholders))
	for _, ph := range placeholders {
		leaf, ok := findLeafAt(tree.Root(), uint32(ph.start), uint32(ph.end))
		if !ok {
			tree.Close()
			return nil, fmt.Errorf("syntax: metavariable $%s did not parse as a leaf token", ph.name)
		}
		metaVars[[2]uint32{uint32(ph.start), uint32(ph.end)}] = ph.name
		_ = leaf
	}

	return &SnippetPattern{Tree: tree, Root: tree.Root(), MetaVars: metaVars}, nil
}

// findLeafAt locates the deepest node whose byte range exactly matches
// [start, end), descending through named children.
func findLeafAt(n Node, start, end uint32) (Node, bool) {
	s, e := n.ByteRange()
	if s == start && e == end {
		// Prefer descending further if a child has the identical range
		// (some grammars wrap identifiers in a single-child production).
		for _, c := range n.NamedChildren() {
			cs, ce := c.ByteRange()
			if cs == start && ce == end {
				if found, ok := findLeafAt(c, start, end); ok {
					return found, true
				}
			}
		}
		return n, true
	}
	if start < s || end > e {
		return Node{}, false
	}
	for _, c := range n.NamedChildren() {
		cs, ce := c.ByteRange()
		if cs <= start && end <= ce {
			return findLeafAt(c, start, end)
		}
	}
	return Node{}, false
}

// TreeSitterParser is a convenience embeddable base so per-language
// providers only need to supply the *sitter.Language and the field/kind
// tables; Parse is identical for all of them.
type TreeSitterParser struct {
	Lang *sitter.Language
}

func (p TreeSitterParser) Parse(source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.Lang)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, fmt.Errorf("syntax: parser returned no tree")
	}
	return NewTree(tree, source), nil
}
