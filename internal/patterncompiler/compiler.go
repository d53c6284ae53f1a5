package patterncompiler

import (
	"fmt"
	"regexp"

	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/internal/pattern"
	"github.com/oxhq/morphic/internal/syntax"
	"github.com/oxhq/morphic/internal/variable"
)

// CompiledProgram is the output of Compile: everything internal/evaluator
// needs to run a compiled pattern program against a set of files.
type CompiledProgram struct {
	Registry *variable.Registry
	Defs *pattern.Definitions
	Root pattern.Pattern // nil for a definitions-only program
	Language string
	Engine string
	Logs []model.LogRecord
}

// compileCtx is the compiler's own per-compilation state, threaded by
// pointer through every sub-compiler — as distinct from pattern.Context,
// which is the runtime evaluation context.
type compileCtx struct {
	registry *variable.Registry
	defs *pattern.Definitions
	defIDs map[string]int
	lang syntax.LanguageSupport
	logs []model.LogRecord
}

func (c *compileCtx) log(level model.LogLevel, msg string) {
	c.logs = append(c.logs, model.LogRecord{Level: level, Message: msg})
}

// Compile parses and compiles a pattern-language program. lang supplies
// the field schema used to validate node-kind field constraints at compile
// time and the snippet parser used for backtick literals.
func Compile(src string, lang syntax.LanguageSupport) (*CompiledProgram, error) {
	prog, err := parseProgram(src)
	if err != nil {
		return nil, model.NewError(model.ErrCompile, "parse error", err)
	}

	cc := &compileCtx{
		registry: variable.NewRegistry(),
		defs:     pattern.NewDefinitions(),
		defIDs:   make(map[string]int),
		lang:     lang,
	}

	// Pass 1: register every definition's name, scope, and parameter slots
	// up front, so recursive and forward (mutually-recursive) calls
	// resolve against a stable id before any body is compiled.
	for _, def := range prog.Definitions {
		scopeID := cc.registry.PushScope()
		params := make([]variable.Index, len(def.Params))
		for i, name := range def.Params {
			params[i] = cc.registry.Register(name, [2]uint32{0, 0})
		}
		cc.registry.PopScope()
		id := cc.defs.Add(&pattern.Definition{
			Name:    def.Name,
			IsFunc:  def.IsFunc,
			ScopeID: scopeID,
			Params:  params,
		})
		if _, exists := cc.defIDs[def.Name]; exists {
			return nil, model.NewError(model.ErrCompile, fmt.Sprintf("duplicate definition %q", def.Name), nil)
		}
		cc.defIDs[def.Name] = id
	}

	// Pass 2: compile each body now that every name resolves.
	for i, def := range prog.Definitions {
		id := cc.defIDs[def.Name]
		entry, _ := cc.defs.Get(id)
		cc.registry.EnterExistingScope(entry.ScopeID)
		if def.IsFunc {
			expr, err := cc.compileExpr(def.Body)
			if err != nil {
				return nil, wrapCompileErr(err, prog.Definitions[i].Name)
			}
			entry.Expr = expr
		} else {
			body, err := cc.compilePattern(def.Body, false)
			if err != nil {
				return nil, wrapCompileErr(err, prog.Definitions[i].Name)
			}
			entry.Body = body
		}
		cc.registry.PopScope()
	}

	out := &CompiledProgram{
		Registry: cc.registry,
		Defs: cc.defs,
		Language: prog.Language,
		Engine: prog.Engine,
	}
	if prog.Root != nil {
		root, err := cc.compilePattern(prog.Root, false)
		if err != nil {
			return nil, wrapCompileErr(err, "")
		}
		out.Root = root
	}
	out.Logs = cc.logs
	return out, nil
}

func wrapCompileErr(err error, context string) error {
	if context == "" {
		return model.NewError(model.ErrCompile, "compile error", err)
	}
	return model.NewError(model.ErrCompile, fmt.Sprintf("compiling %q", context), err)
}

func compileErr(format string, args ...any) error {
	return model.NewError(model.ErrCompile, fmt.Sprintf(format, args...), nil)
}

// compilePattern dispatches by AST node kind: one Go type switch in place
// of a per-node-kind dispatch table.
func (c *compileCtx) compilePattern(n Node, isRHS bool) (pattern.Pattern, error) {
	switch node := n.(type) {
	case *Block:
		return c.compileBlock(node, isRHS)
	case *AndNode:
		children := make([]pattern.Pattern, len(node.Children))
		for i, ch := range node.Children {
			p, err := c.compilePattern(ch, isRHS)
			if err != nil {
				return nil, err
			}
			children[i] = p
		}
		return &pattern.And{Children: children}, nil
	case *OrNode:
		children := make([]pattern.Pattern, len(node.Children))
		for i, ch := range node.Children {
			p, err := c.compilePattern(ch, isRHS)
			if err != nil {
				return nil, err
			}
			children[i] = p
		}
		return &pattern.Or{Children: children}, nil
	case *NotNode:
		child, err := c.compilePattern(node.Child, isRHS)
		if err != nil {
			return nil, err
		}
		return &pattern.Not{Child: child}, nil
	case *MaybeNode:
		child, err := c.compilePattern(node.Child, isRHS)
		if err != nil {
			return nil, err
		}
		return &pattern.Maybe{Child: child}, nil
	case *ContainsNode:
		return c.compileContains(node, isRHS)
	case *WithinNode:
		outer, err := c.compilePattern(node.Outer, isRHS)
		if err != nil {
			return nil, err
		}
		return &pattern.Within{Outer: outer}, nil
	case *BubbleNode:
		scopeID := c.registry.PushScope()
		child, err := c.compilePattern(node.Child, isRHS)
		c.registry.PopScope()
		if err != nil {
			return nil, err
		}
		return &pattern.Bubble{ScopeID: scopeID, Child: child}, nil
	case *EveryNode:
		return c.compileEvery(node, isRHS)
	case *SomeNode:
		return c.compileSome(node, isRHS)
	case *AfterNode:
		return c.compileAfter(node, isRHS)
	case *BeforeNode:
		return c.compileBefore(node, isRHS)
	case *IfNode:
		cond, err := c.compilePattern(node.Cond, false)
		if err != nil {
			return nil, err
		}
		then, err := c.compilePattern(node.Then, isRHS)
		if err != nil {
			return nil, err
		}
		var els pattern.Pattern
		if node.Else != nil {
			els, err = c.compilePattern(node.Else, isRHS)
			if err != nil {
				return nil, err
			}
		}
		return &pattern.If{Cond: cond, Then: then, Else: els}, nil
	case *WhereNode:
		base, err := c.compilePattern(node.Base, isRHS)
		if err != nil {
			return nil, err
		}
		clause, err := c.compilePattern(node.Clause, false)
		if err != nil {
			return nil, err
		}
		return &pattern.Where{Base: base, Clause: clause}, nil
	case *AssignNode:
		return c.compileAssign(node)
	case *AccumulateNode:
		return c.compileAccumulate(node)
	case *MatchNode:
		subject, err := c.compileExpr(node.Subject)
		if err != nil {
			return nil, err
		}
		pat, err := c.compilePattern(node.Pattern, false)
		if err != nil {
			return nil, err
		}
		return pattern.MatchOp{Subject: subject, Pattern: pat}, nil
	case *RewriteNode:
		lhs, err := c.compilePattern(node.LHS, false)
		if err != nil {
			return nil, err
		}
		rhs, err := c.compileExpr(node.RHS)
		if err != nil {
			return nil, err
		}
		return pattern.Rewrite{Pattern: lhs, Replacement: rhs}, nil
	case *ReturnNode:
		val, err := c.compileExpr(node.Value)
		if err != nil {
			return nil, err
		}
		return pattern.Return{Value: val}, nil
	case *UndefinedLit:
		return pattern.UndefinedPattern{}, nil
	case *SnippetNode:
		if isRHS {
			expr, err := c.compileSnippetConstruct(node)
			if err != nil {
				return nil, err
			}
			return pattern.ExprPattern{Expr: expr}, nil
		}
		return c.compileSnippetPattern(node)
	case *RegexNode:
		if isRHS {
			return nil, compileErr("a regex literal is only valid in pattern (matching) position")
		}
		return c.compileRegex(node)
	case *ListNode:
		return c.compileList(node, isRHS)
	case *MapNode:
		return c.compileMap(node, isRHS)
	case *CallNode:
		return c.compileCall(node, isRHS)
	case *Ident:
		return c.compileIdent(node)
	case *VarNode:
		return c.compileVarPattern(node)
	case *StringLit:
		if isRHS {
			return pattern.ExprPattern{Expr: pattern.StringConstant{Value: node.Value}}, nil
		}
		// In matching position a string literal matches a subject whose
		// whole text equals it (`$n <: "2"`).
		return &pattern.RegexPattern{Re: regexp.MustCompile(regexp.QuoteMeta(node.Value))}, nil
	default:
		// Every remaining node kind is expression-shaped (literals,
		// arithmetic, accessor): wrap it as a truthiness predicate.
		expr, err := c.compileExpr(n)
		if err != nil {
			return nil, err
		}
		return pattern.ExprPattern{Expr: expr}, nil
	}
}

func (c *compileCtx) compileBlock(b *Block, isRHS bool) (pattern.Pattern, error) {
	children := make([]pattern.Pattern, len(b.Stmts))
	for i, s := range b.Stmts {
		p, err := c.compilePattern(s, isRHS)
		if err != nil {
			return nil, err
		}
		children[i] = p
	}
	return &pattern.And{Children: children}, nil
}

// compileContains compiles `contains inner [until bound]`. until is always
// compiled in matching position regardless of the enclosing isRHS, since it
// only ever bounds a traversal, never constructs a value.
func (c *compileCtx) compileContains(node *ContainsNode, isRHS bool) (pattern.Pattern, error) {
	inner, err := c.compilePattern(node.Inner, isRHS)
	if err != nil {
		return nil, err
	}
	var until pattern.Pattern
	if node.Until != nil {
		until, err = c.compilePattern(node.Until, false)
		if err != nil {
			return nil, err
		}
	}
	return &pattern.Contains{Inner: inner, Until: until}, nil
}

// compileSnippetPattern compiles a backtick snippet in matching (LHS)
// position: the snippet text is parsed once via syntax.ParseSnippet (itself
// cached by (text, language)) and each metavariable it contains is
// registered as a slot.
func (c *compileCtx) compileSnippetPattern(node *SnippetNode) (pattern.Pattern, error) {
	sp, err := syntax.ParseSnippet(c.lang, node.Text)
	if err != nil {
		return nil, compileErr("parsing snippet: %v", err)
	}
	vars := make(map[string]variable.Index, len(sp.MetaVars))
	for _, name := range sp.MetaVars {
		vars[name] = c.registerVar(name)
	}
	return &pattern.Snippet{Pattern: sp, Vars: vars}, nil
}

// compileSnippetConstruct compiles the same snippet text in construct (RHS)
// position: it is never reparsed structurally, only split around its
// `$name` placeholders (syntax.SplitMetaVars), since a construct only ever
// renders text.
func (c *compileCtx) compileSnippetConstruct(node *SnippetNode) (pattern.Expr, error) {
	fragments := syntax.SplitMetaVars(node.Text)
	out := make([]pattern.ConstructFragment, len(fragments))
	for i, f := range fragments {
		if f.Name == "" {
			out[i] = pattern.ConstructFragment{Literal: f.Literal}
			continue
		}
		idx := c.registerVar(f.Name)
		out[i] = pattern.ConstructFragment{Var: &idx}
	}
	return &pattern.SnippetConstruct{Fragments: out}, nil
}

// compileRegex compiles an `r"..."` literal: Go's regexp/syntax already
// gives us named capture groups, so each named group becomes a bound slot
// the same way a snippet's metavariables do.
func (c *compileCtx) compileRegex(node *RegexNode) (pattern.Pattern, error) {
	re, err := regexp.Compile(node.Text)
	if err != nil {
		return nil, compileErr("invalid regex %q: %v", node.Text, err)
	}
	captures := make(map[string]variable.Index)
	for _, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		captures[name] = c.registerVar(name)
	}
	return &pattern.RegexPattern{Re: re, Captures: captures}, nil
}

// compileExpr dispatches expression-shaped AST nodes to Expr IR. A node
// that is itself control-flow-shaped (if/return/where/...) falls through to
// the default case, which compiles it as a Pattern and reads back whatever
// Return set (pattern.PatternExpr) — the same contract FunctionCall uses for a
// definition's Body — so a function can branch before producing its value.
func (c *compileCtx) compileExpr(n Node) (pattern.Expr, error) {
	switch node := n.(type) {
	case *IntLit:
		return pattern.IntConstant{Value: node.Value}, nil
	case *FloatLit:
		return pattern.FloatConstant{Value: node.Value}, nil
	case *StringLit:
		return pattern.StringConstant{Value: node.Value}, nil
	case *BoolLit:
		return pattern.BoolConstant{Value: node.Value}, nil
	case *UndefinedLit:
		return pattern.UndefinedConstant{}, nil
	case *VarNode:
		return c.compileVarExpr(node)
	case *SnippetNode:
		return c.compileSnippetConstruct(node)
	case *RegexNode:
		return nil, compileErr("a regex literal is only valid in pattern (matching) position")
	case *AccessorNode:
		base, err := c.compileExpr(node.Base)
		if err != nil {
			return nil, err
		}
		return pattern.Accessor{Base: base, Field: node.Field}, nil
	case *ArithNode:
		return c.compileArith(node)
	case *BoolNotNode:
		child, err := c.compileExpr(node.Child)
		if err != nil {
			return nil, err
		}
		return pattern.BoolNot{Child: child}, nil
	case *ListNode:
		return c.compileListConstruct(node)
	case *MapNode:
		return c.compileMapConstruct(node)
	case *CallNode:
		return c.compileCallExpr(node)
	case *Ident:
		return c.compileIdentExpr(node)
	default:
		body, err := c.compilePattern(n, true)
		if err != nil {
			return nil, err
		}
		return &pattern.PatternExpr{Body: body}, nil
	}
}

func (c *compileCtx) registerVar(name string) variable.Index {
	if idx, ok := c.registry.Lookup(name); ok {
		return idx
	}
	return c.registry.Register(name, [2]uint32{0, 0})
}
