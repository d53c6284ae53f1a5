// Package suppression implements the comment-directive preprocessing pass:
// scan a parsed file for comments matching a suppression directive and mark
// the next significant node's range as off-limits to the matcher, for one
// named pattern or for all of them.
//
// This has no prior precedent in file-level scanning (which governs which
// *files* a run visits via .gitignore, not which *nodes* within a file a
// compiled pattern may touch), so this package is new; it follows the same
// flat-pass, single-responsibility shape as the rest of the preprocessing
// helpers.
package suppression

import (
	"regexp"

	"github.com/oxhq/morphic/internal/syntax"
)

// directivePattern recognizes `morphic-ignore` and, optionally, a named
// target pattern after a colon: `morphic-ignore: patternName`. Anything
// else in the comment body is ignored.
var directivePattern = regexp.MustCompile(`morphic-ignore(?:\s*:\s*([A-Za-z_][A-Za-z0-9_]*))?`)

// entry records one suppressed range. Pattern is empty for "suppress
// every pattern here".
type entry struct {
	pattern string
	start, end uint32
}

// Set is the result of one suppression scan: every directive found in a
// file, ready to be consulted by the evaluator before trying a candidate
// node.
type Set struct {
	entries []entry
}

// Suppressed reports whether a [start, end) range should be treated as a
// non-match for the named pattern (empty patternName checks only the
// "suppress everything" directives). A node is suppressed if it falls
// entirely within a directive's target range, since a directive marks
// exactly the statement it precedes, not a containing block.
func (s *Set) Suppressed(patternName string, start, end uint32) bool {
	if s == nil {
		return false
	}
	for _, e := range s.entries {
		if e.pattern != "" && e.pattern != patternName {
			continue
		}
		if start >= e.start && end <= e.end {
			return true
		}
	}
	return false
}

// Scan walks root looking for comment nodes (per lang.IsComment) that
// match the directive syntax, and pairs each with the next non-comment
// named sibling under the same parent — the "next significant node" a
// directive targets. A directive with no following sibling (trailing
// comment at the end of a block) suppresses nothing.
func Scan(lang syntax.LanguageSupport, root syntax.Node) *Set {
	s := &Set{}
	var walk func(n syntax.Node)
	walk = func(n syntax.Node) {
		children := n.NamedChildren()
		for i, c := range children {
			if lang.IsComment(c.Kind()) {
				if name, ok := parseDirective(c.Text()); ok {
					if target, found := nextSignificant(lang, children, i+1); found {
						ts, te := target.ByteRange()
						s.entries = append(s.entries, entry{pattern: name, start: ts, end: te})
					}
				}
			}
			walk(c)
		}
	}
	walk(root)
	return s
}

func parseDirective(commentText string) (pattern string, ok bool) {
	m := directivePattern.FindStringSubmatch(commentText)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func nextSignificant(lang syntax.LanguageSupport, siblings []syntax.Node, from int) (syntax.Node, bool) {
	for i := from; i < len(siblings); i++ {
		if !lang.IsComment(siblings[i].Kind()) && !lang.IsWhitespace(siblings[i].Kind()) {
			return siblings[i], true
		}
	}
	return syntax.Node{}, false
}
