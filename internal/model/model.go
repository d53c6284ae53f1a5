// Package model defines the runtime value model shared by the evaluator and
// unparser: Binding (a handle on a source location), ResolvedPattern (the
// closed set of values a variable can hold), and Effect (a pending source
// mutation). These are plain data; the behavior that interprets them lives
// in internal/evaluator and internal/unparser.
package model

import (
	"fmt"

	"github.com/oxhq/morphic/internal/syntax"
)

// BindingKind discriminates what a Binding is anchored to.
type BindingKind int

const (
	// BindingNode anchors to a parsed syntax.Node.
	BindingNode BindingKind = iota
	// BindingRange anchors to an arbitrary byte range of a file's source,
	// not necessarily aligned to a single Node (e.g. a multi-statement
	// span built by `contains`/`bubble`).
	BindingRange
	// BindingInsertion is a zero-width position between two nodes, used
	// for $-variable "after"/"before" inserts.
	BindingInsertion
	// BindingLiteral is literal text produced by the engine itself (e.g.
	// the result of rendering a Snippet), not backed by any file.
	BindingLiteral
	// BindingValue wraps an arbitrary ResolvedPattern so that `subject <:
	// pattern` can thread non-node subjects (a List, a Map, Undefined, a
	// Constant) through the same Pattern.Execute(Binding,...) contract
	// structural matchers use for nodes — UndefinedPattern, ListPattern,
	// MapPattern all check for BindingValue before falling back to the
	// node-shaped cases.
	BindingValue
)

// Binding is a reference to a region of source. It is the thing a Node
// match actually produces: a handle that can report its text and, for
// rewrites, the exact span to replace.
type Binding struct {
	Kind BindingKind
	File string // file path this binding belongs to, empty for BindingLiteral/BindingValue
	Node syntax.Node
	Start uint32
	End uint32
	Literal string
	Value *ResolvedPattern // BindingValue only
}

// NodeBinding anchors a Binding to a parsed Node within the named file.
func NodeBinding(file string, n syntax.Node) Binding {
	s, e := n.ByteRange()
	return Binding{Kind: BindingNode, File: file, Node: n, Start: s, End: e}
}

// RangeBinding anchors a Binding to an arbitrary byte range.
func RangeBinding(file string, start, end uint32) Binding {
	return Binding{Kind: BindingRange, File: file, Start: start, End: end}
}

// InsertionBinding anchors a Binding to a zero-width position.
func InsertionBinding(file string, at uint32) Binding {
	return Binding{Kind: BindingInsertion, File: file, Start: at, End: at}
}

// LiteralBinding wraps engine-produced text with no backing file.
func LiteralBinding(text string) Binding {
	return Binding{Kind: BindingLiteral, Literal: text}
}

// ValueBinding wraps an arbitrary ResolvedPattern as a Binding, for
// matching a non-node subject (the result of evaluating an Expr) against
// a structural Pattern via `<:`.
func ValueBinding(v ResolvedPattern) Binding {
	return Binding{Kind: BindingValue, Value: &v}
}

// Text returns the source text the binding denotes. files maps a file path
// to its current source bytes; Text fails if the binding's file has been
// released (no longer present in files).
func (b Binding) Text(files map[string][]byte) (string, error) {
	if b.Kind == BindingLiteral {
		return b.Literal, nil
	}
	if b.Kind == BindingValue {
		if b.Value == nil {
			return "", nil
		}
		return b.Value.Text(files)
	}
	src, ok := files[b.File]
	if !ok {
		return "", fmt.Errorf("model: binding references destroyed file %q", b.File)
	}
	if b.End > uint32(len(src)) || b.Start > b.End {
		return "", fmt.Errorf("model: binding range [%d,%d) out of bounds for %q", b.Start, b.End, b.File)
	}
	return string(src[b.Start:b.End]), nil
}

// InsertionPoint reports the byte offset a zero-width insertion binding
// targets, plus whether the binding is in fact zero-width.
func (b Binding) InsertionPoint() (uint32, bool) {
	return b.Start, b.Start == b.End
}

// Kind of ResolvedPattern. The set is closed; do not add cases without
// updating every switch over it (Text, IsTruthy, MatchesUndefined).
type Kind int

const (
	KindBinding Kind = iota
	KindSnippet
	KindList
	KindMap
	KindFile
	KindFiles
	KindConstant
	KindAccumulator
)

// ConstantKind narrows a KindConstant ResolvedPattern.
type ConstantKind int

const (
	ConstNone ConstantKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstString
	ConstUndefined
)

// SnippetFragment is one element of a Snippet: either literal text or a
// nested ResolvedPattern to splice in (typically a variable's current
// value).
type SnippetFragment struct {
	Literal string
	Value *ResolvedPattern // nil for a pure-literal fragment
}

// File represents a parsed file value: its path, current body, and parse
// handle. Files are created by the evaluator on first use and released
// when the top-level match that touched them commits or fails.
type File struct {
	Path string
	Body string
	Tree *syntax.Tree
	Lang string
	IsNew bool
}

// ResolvedPattern is the universal runtime value every variable can hold.
// It is deliberately a closed sum type (a tag plus one populated field per
// variant), not a class hierarchy: each variant's semantics are small and
// distinct, and a switch on Kind is the whole interpreter.
type ResolvedPattern struct {
	Kind Kind

	// KindBinding
	Binding Binding

	// KindSnippet
	Fragments []SnippetFragment

	// KindList
	List []ResolvedPattern

	// KindMap (insertion-ordered)
	MapKeys []string
	MapValues map[string]ResolvedPattern

	// KindFile / KindFiles
	File *File
	Files []*File

	// KindConstant
	ConstKind ConstantKind
	Bool bool
	Int int64
	Float float64
	String string

	// KindAccumulator: text built incrementally by `+=`.
	Accumulated string
}

func FromBinding(b Binding) ResolvedPattern { return ResolvedPattern{Kind: KindBinding, Binding: b} }

func FromSnippet(frags []SnippetFragment) ResolvedPattern {
	return ResolvedPattern{Kind: KindSnippet, Fragments: frags}
}

func FromList(items []ResolvedPattern) ResolvedPattern {
	return ResolvedPattern{Kind: KindList, List: items}
}

func NewMap() ResolvedPattern {
	return ResolvedPattern{Kind: KindMap, MapValues: map[string]ResolvedPattern{}}
}

// Set inserts or overwrites key, preserving first-insertion order.
func (r *ResolvedPattern) Set(key string, v ResolvedPattern) {
	if r.MapValues == nil {
		r.MapValues = map[string]ResolvedPattern{}
	}
	if _, exists := r.MapValues[key]; !exists {
		r.MapKeys = append(r.MapKeys, key)
	}
	r.MapValues[key] = v
}

func FromFile(f *File) ResolvedPattern { return ResolvedPattern{Kind: KindFile, File: f} }

func FromFiles(fs []*File) ResolvedPattern { return ResolvedPattern{Kind: KindFiles, Files: fs} }

func Bool(b bool) ResolvedPattern {
	return ResolvedPattern{Kind: KindConstant, ConstKind: ConstBool, Bool: b}
}

func Int(i int64) ResolvedPattern {
	return ResolvedPattern{Kind: KindConstant, ConstKind: ConstInt, Int: i}
}

func Float(f float64) ResolvedPattern {
	return ResolvedPattern{Kind: KindConstant, ConstKind: ConstFloat, Float: f}
}

func Str(s string) ResolvedPattern {
	return ResolvedPattern{Kind: KindConstant, ConstKind: ConstString, String: s}
}

// Undefined is the single distinguished "absent" value. It is what an
// unassigned Variable reads as, and the only value for which
// MatchesUndefined is true.
func Undefined() ResolvedPattern {
	return ResolvedPattern{Kind: KindConstant, ConstKind: ConstUndefined}
}

func Accumulator(text string) ResolvedPattern {
	return ResolvedPattern{Kind: KindAccumulator, Accumulated: text}
}

// MatchesUndefined reports whether this value is the distinguished absent
// constant.
func (r ResolvedPattern) MatchesUndefined() bool {
	return r.Kind == KindConstant && r.ConstKind == ConstUndefined
}

// Text renders the value as it would appear spliced into output or compared
// against source text. files maps file path to current source bytes (see
// Binding.Text).
func (r ResolvedPattern) Text(files map[string][]byte) (string, error) {
	switch r.Kind {
	case KindBinding:
		return r.Binding.Text(files)
	case KindSnippet:
		var out []byte
		for _, f := range r.Fragments {
			if f.Value == nil {
				out = append(out, f.Literal...)
				continue
			}
			t, err := f.Value.Text(files)
			if err != nil {
				return "", err
			}
			out = append(out, t...)
		}
		return string(out), nil
	case KindList:
		var out []byte
		for i, item := range r.List {
			if i > 0 {
				out = append(out, ", "...)
			}
			t, err := item.Text(files)
			if err != nil {
				return "", err
			}
			out = append(out, t...)
		}
		return string(out), nil
	case KindMap:
		return "", fmt.Errorf("model: map values have no single text representation")
	case KindFile:
		if r.File == nil {
			return "", fmt.Errorf("model: nil file value")
		}
		return r.File.Body, nil
	case KindFiles:
		return "", fmt.Errorf("model: file-list values have no single text representation")
	case KindConstant:
		switch r.ConstKind {
		case ConstBool:
			if r.Bool {
				return "true", nil
			}
			return "false", nil
		case ConstInt:
			return fmt.Sprintf("%d", r.Int), nil
		case ConstFloat:
			return fmt.Sprintf("%g", r.Float), nil
		case ConstString:
			return r.String, nil
		case ConstUndefined:
			return "", nil
		}
	case KindAccumulator:
		return r.Accumulated, nil
	}
	return "", fmt.Errorf("model: unreachable ResolvedPattern kind %d", r.Kind)
}

// IsTruthy applies the per-variant truthiness rule: booleans by value,
// numbers by non-zero, strings, bindings, accumulators, lists and maps by
// non-empty, undefined is always false; snippets, files and file lists are
// always truthy.
func (r ResolvedPattern) IsTruthy(files map[string][]byte) (bool, error) {
	switch r.Kind {
	case KindConstant:
		switch r.ConstKind {
		case ConstBool:
			return r.Bool, nil
		case ConstInt:
			return r.Int != 0, nil
		case ConstFloat:
			return r.Float != 0, nil
		case ConstString:
			return r.String != "", nil
		case ConstUndefined:
			return false, nil
		}
		return false, nil
	case KindBinding:
		t, err := r.Binding.Text(files)
		if err != nil {
			return false, err
		}
		return t != "", nil
	case KindList:
		return len(r.List) > 0, nil
	case KindMap:
		return len(r.MapKeys) > 0, nil
	case KindAccumulator:
		return r.Accumulated != "", nil
	case KindFile, KindFiles, KindSnippet:
		return true, nil
	}
	return false, fmt.Errorf("model: unreachable ResolvedPattern kind %d", r.Kind)
}

// Equal reports structural equality, used by single-assignment checks
// ($v = P fails if the slot already holds a different value).
func (r ResolvedPattern) Equal(other ResolvedPattern, files map[string][]byte) bool {
	if r.Kind != other.Kind {
		// Constants and bindings compare by rendered text across kinds,
		// since a Binding and a literal string can represent "the same
		// value" to a pattern program.
		lt, lerr := r.Text(files)
		rt, rerr := other.Text(files)
		return lerr == nil && rerr == nil && lt == rt
	}
	switch r.Kind {
	case KindConstant:
		if r.ConstKind != other.ConstKind {
			return false
		}
		switch r.ConstKind {
		case ConstBool:
			return r.Bool == other.Bool
		case ConstInt:
			return r.Int == other.Int
		case ConstFloat:
			return r.Float == other.Float
		case ConstString:
			return r.String == other.String
		case ConstUndefined:
			return true
		}
	}
	lt, lerr := r.Text(files)
	rt, rerr := other.Text(files)
	return lerr == nil && rerr == nil && lt == rt
}

// EffectKind discriminates the two pending-mutation shapes.
type EffectKind int

const (
	EffectRewrite EffectKind = iota
	EffectInsert
)

// Effect is a pending source mutation recorded during evaluation and only
// applied once the top-level match commits (see internal/unparser).
type Effect struct {
	Binding Binding
	Replacement ResolvedPattern
	Kind EffectKind
	// Seq records registration order, used to break ties between
	// zero-width effects targeting the same position.
	Seq int
}

// ErrorKind is the closed taxonomy of error conditions the core
// distinguishes from ordinary non-match.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrCompile
	ErrMatch
	ErrEffectConflict
	ErrCancelled
	ErrInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrCompile:
		return "CompileError"
	case ErrMatch:
		return "MatchError"
	case ErrEffectConflict:
		return "EffectConflict"
	case ErrCancelled:
		return "Cancelled"
	case ErrInternal:
		return "Internal"
	default:
		return "None"
	}
}

// EngineError wraps an underlying error with its ErrorKind, the way the
// prior model.ErrorCode tagged Result errors for JSON output.
type EngineError struct {
	Kind ErrorKind
	Msg string
	Err error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *EngineError) Unwrap() error { return e.Err }

func NewError(kind ErrorKind, msg string, cause error) *EngineError {
	return &EngineError{Kind: kind, Msg: msg, Err: cause}
}

// LogLevel bands, 300-499 warning, 500+ debug.
type LogLevel uint16

const (
	LevelInfo LogLevel = 100
	LevelWarning LogLevel = 300
	LevelDebug LogLevel = 500
)

// LogRecord is a single diagnostic emitted during compilation or
// evaluation.
type LogRecord struct {
	Level LogLevel
	Message string
	File string
	Position *Position
	Range *[2]uint32
	SyntaxTree string
	Source string
}

// Position is a 1-based line/column location.
type Position struct {
	Line int
	Column int
}

// VariableResult is the (text, range) pair reported for each bound
// variable in a Match.
type VariableResult struct {
	Text string
	Start uint32
	End uint32
}

// Match is one successful top-level pattern application, the unit the core
// hands back to the driver for a file.
type Match struct {
	File string
	Start uint32
	End uint32
	Variables map[string]VariableResult
	RewrittenBody string
	HasRewrite bool
	Logs []LogRecord
}
