// Package patterncompiler parses the pattern-language surface
// into pattern.Pattern/pattern.Expr IR. It is a hand-written lexer plus a
// recursive-descent parser over a small textual grammar, rather than a
// tree-sitter grammar of its own — the core never needs to re-parse a
// compiled program, so a throwaway scanner/parser pair is the idiomatic
// choice here, the same way a Go DSL like PromQL or HCL is typically
// built without reaching for a generated parser.
package patterncompiler

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokVariable // $name
	tokInt
	tokFloat
	tokString
	tokSnippet // `...`
	tokRegex // r"..."
	tokPunct
	tokKeyword
)

type token struct {
	kind tokenKind
	text string
	start int
	end int
	line int
}

var keywords = map[string]bool{
	"engine": true, "language": true, "pattern": true, "function": true,
	"contains": true, "until": true, "within": true, "every": true,
	"some": true, "not": true, "or": true, "and": true, "any": true,
	"maybe": true, "after": true, "before": true, "bubble": true,
	"if": true, "else": true, "where": true, "return": true,
	"true": true, "false": true, "undefined": true,
}

type lexError struct {
	msg string
	line int
}

func (e *lexError) Error() string { return fmt.Sprintf("line %d: %s", e.line, e.msg) }

type lexer struct {
	src string
	pos int
	line int
}

func newLexer(src string) *lexer { return &lexer{src: src, line: 1} }

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) tokenize() ([]token, error) {
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			break
		}
	}
	return toks, nil
}

func isIdentStart(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r byte) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r byte) bool { return r >= '0' && r <= '9' }

func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '/' && l.peekByteAt(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.peekByteAt(1) == '*':
			l.pos += 2
			for l.pos < len(l.src) && !(l.src[l.pos] == '*' && l.peekByteAt(1) == '/') {
				if l.src[l.pos] == '\n' {
					l.line++
				}
				l.pos++
			}
			l.pos += 2
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipTrivia()
	start := l.pos
	line := l.line
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, start: start, end: start, line: line}, nil
	}
	c := l.src[l.pos]

	switch {
	case c == '$':
		l.pos++
		if l.peekByte() == '.' {
			// bare `$` is handled by the parser as a wildcard; `.` is a
			// separate punct token it consumes next.
			return token{kind: tokPunct, text: "$", start: start, end: l.pos, line: line}, nil
		}
		for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokVariable, text: l.src[start:l.pos], start: start, end: l.pos, line: line}, nil

	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
			l.pos++
		}
		text := l.src[start:l.pos]
		if text == "r" && l.peekByte() == '"' {
			return l.lexRegex(start, line)
		}
		if keywords[text] {
			return token{kind: tokKeyword, text: text, start: start, end: l.pos, line: line}, nil
		}
		return token{kind: tokIdent, text: text, start: start, end: l.pos, line: line}, nil

	case isDigit(c):
		return l.lexNumber(start, line)

	case c == '"':
		return l.lexString(start, line)

	case c == '`':
		return l.lexSnippet(start, line)

	case c == '.' && l.peekByteAt(1) == '.' && l.peekByteAt(2) == '.':
		l.pos += 3
		return token{kind: tokPunct, text: "...", start: start, end: l.pos, line: line}, nil

	default:
		return l.lexPunct(start, line)
	}
}

func (l *lexer) lexNumber(start, line int) (token, error) {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	isFloat := false
	if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		isFloat = true
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	kind := tokInt
	if isFloat {
		kind = tokFloat
	}
	return token{kind: kind, text: l.src[start:l.pos], start: start, end: l.pos, line: line}, nil
}

func (l *lexer) lexString(start, line int) (token, error) {
	l.pos++ // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, &lexError{msg: "unterminated string", line: line}
		}
		c := l.src[l.pos]
		if c == '"' {
			l.pos++
			break
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			b.WriteByte(unescape(l.src[l.pos]))
			l.pos++
			continue
		}
		if c == '\n' {
			l.line++
		}
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		b.WriteRune(r)
		l.pos += size
	}
	return token{kind: tokString, text: b.String(), start: start, end: l.pos, line: line}, nil
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

func (l *lexer) lexRegex(identStart, line int) (token, error) {
	// identStart..l.pos already covers "r"; l.peekByte() == '"'.
	quoteStart := l.pos
	l.pos++
	for {
		if l.pos >= len(l.src) {
			return token{}, &lexError{msg: "unterminated regex", line: line}
		}
		c := l.src[l.pos]
		if c == '"' {
			l.pos++
			break
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos += 2
			continue
		}
		if c == '\n' {
			l.line++
		}
		l.pos++
	}
	text := l.src[quoteStart+1: l.pos-1]
	return token{kind: tokRegex, text: text, start: identStart, end: l.pos, line: line}, nil
}

func (l *lexer) lexSnippet(start, line int) (token, error) {
	l.pos++ // opening backtick
	contentStart := l.pos
	for {
		if l.pos >= len(l.src) {
			return token{}, &lexError{msg: "unterminated snippet", line: line}
		}
		c := l.src[l.pos]
		if c == '`' {
			text := l.src[contentStart:l.pos]
			l.pos++
			return token{kind: tokSnippet, text: text, start: start, end: l.pos, line: line}, nil
		}
		if c == '\n' {
			l.line++
		}
		l.pos++
	}
}

var multiCharPuncts = []string{"<:", "=>", "+=", "==", "!=", "<=", ">="}

func (l *lexer) lexPunct(start, line int) (token, error) {
	for _, p := range multiCharPuncts {
		if strings.HasPrefix(l.src[l.pos:], p) {
			l.pos += len(p)
			return token{kind: tokPunct, text: p, start: start, end: l.pos, line: line}, nil
		}
	}
	switch l.src[l.pos] {
	case '(', ')', '{', '}', '[', ']', ',', ':', '=', '+', '-', '*', '/', '%', '<', '>', '.', '!':
		l.pos++
		return token{kind: tokPunct, text: l.src[start:l.pos], start: start, end: l.pos, line: line}, nil
	default:
		return token{}, &lexError{msg: fmt.Sprintf("unexpected character %q", l.src[l.pos]), line: line}
	}
}
