package access

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tliron/commonlog"
	"ladders/grammar"
	"ladders/internal/errors"
	"ladders/internal/program"
)

var log = commonlog.GetLogger("ladders.access")

// CallArguments selects how identifiers passed directly to a call are
// treated.
type CallArguments string

const (
	// IgnoreCallArguments leaves `f(x)` unclassified for x. Nested argument
	// expressions are still read.
	IgnoreCallArguments CallArguments = "ignore"
	// ReadCallArguments classifies direct arguments as reads.
	ReadCallArguments CallArguments = "read"
)

func (c CallArguments) Valid() bool {
	return c == IgnoreCallArguments || c == ReadCallArguments
}

type Options struct {
	CallArguments CallArguments
	// Macros are object-like #define names. They expand to constants, not
	// variables, and are never recorded.
	Macros []string
}

func DefaultOptions() Options {
	return Options{CallArguments: IgnoreCallArguments}
}

// Result is the classification of a whole entry body.
type Result struct {
	Sets     []*Set
	Warnings []errors.CompilerError
}

// ClassifyAll classifies every captured statement in order.
func ClassifyAll(stmts []*program.Statement, opts Options) (*Result, error) {
	res := &Result{Sets: make([]*Set, 0, len(stmts))}
	for _, stmt := range stmts {
		w, set, err := classifyStatement(stmt.Node, opts)
		if err != nil {
			return nil, err
		}
		log.Debugf("statement %d %s: %s", stmt.Index, stmt.Text, set)
		res.Warnings = append(res.Warnings, w.hoistWarnings(set)...)
		res.Sets = append(res.Sets, set)
	}
	return res, nil
}

// Classify returns the ordered access set of one top-level statement.
func Classify(stmt *grammar.Statement, opts Options) (*Set, error) {
	_, set, err := classifyStatement(stmt, opts)
	return set, err
}

func classifyStatement(stmt *grammar.Statement, opts Options) (*walker, *Set, error) {
	if opts.CallArguments == "" {
		opts.CallArguments = IgnoreCallArguments
	}
	w := &walker{
		opts:      opts,
		set:       NewSet(),
		declared:  make(map[string]bool),
		macros:    make(map[string]bool, len(opts.Macros)),
		sizeReads: make(map[string]bool),
		initReads: make(map[string]bool),
	}
	for _, m := range opts.Macros {
		w.macros[m] = true
	}
	if stmt.Decl != nil {
		for _, d := range stmt.Decl.Declarators {
			w.set.Add(d.Name, Declaration, d.Pos)
		}
	}
	w.statement(stmt)
	if w.err != nil {
		return nil, nil, w.err
	}
	return w, w.set.without(w.declared), nil
}

// hoistWarnings flags a declaration whose array size or initializer reads
// variables that other statements may write.
func (w *walker) hoistWarnings(set *Set) []errors.CompilerError {
	decl, ok := set.Declares()
	if !ok {
		return nil
	}
	var sizes, inits []string
	for _, a := range set.All() {
		if a.Kind == Declaration {
			continue
		}
		if w.sizeReads[a.Name] {
			sizes = append(sizes, a.Name)
		}
		if w.initReads[a.Name] {
			inits = append(inits, a.Name)
		}
	}

	var warnings []errors.CompilerError
	if len(sizes) > 0 {
		warnings = append(warnings, errors.HoistedSize(decl.Name, sizes, decl.Pos))
	}
	if len(inits) > 0 {
		warnings = append(warnings, errors.HoistedInitializer(decl.Name, inits, decl.Pos))
	}
	return warnings
}

// part is the piece of a declaration being walked.
type part int

const (
	partOther part = iota
	partSize
	partInit
)

type walker struct {
	opts      Options
	set       *Set
	declared  map[string]bool
	macros    map[string]bool
	part      part
	sizeReads map[string]bool
	initReads map[string]bool
	err       error
}

func (w *walker) add(name string, kind Kind, pos lexer.Position) {
	if w.macros[name] {
		return
	}
	switch w.part {
	case partSize:
		w.sizeReads[name] = true
	case partInit:
		w.initReads[name] = true
	}
	w.set.Add(name, kind, pos)
}

func (w *walker) fail(what string, pos lexer.Position) {
	if w.err == nil {
		w.err = errors.Unclassifiable(what, pos)
	}
}

func (w *walker) statement(s *grammar.Statement) {
	if s == nil {
		return
	}
	switch {
	case s.Block != nil:
		for _, inner := range s.Block.Statements {
			w.statement(inner)
		}
	case s.If != nil:
		w.expr(s.If.Cond)
		w.statement(s.If.Then)
		w.statement(s.If.Else)
	case s.While != nil:
		w.expr(s.While.Cond)
		w.statement(s.While.Body)
	case s.DoWhile != nil:
		w.statement(s.DoWhile.Body)
		w.expr(s.DoWhile.Cond)
	case s.For != nil:
		if s.For.InitDecl != nil {
			w.declaration(s.For.InitDecl)
		}
		w.expr(s.For.InitExpr)
		w.expr(s.For.Cond)
		w.expr(s.For.Post)
		w.statement(s.For.Body)
	case s.Return != nil:
		w.expr(s.Return.Value)
	case s.Decl != nil:
		w.declaration(s.Decl)
	case s.Expr != nil:
		w.expr(s.Expr.Expr)
	case s.Break, s.Continue, s.Empty:
	default:
		w.fail("statement", s.Pos)
	}
}

func (w *walker) declaration(d *grammar.Declaration) {
	for _, decl := range d.Declarators {
		w.declared[decl.Name] = true
		w.part = partSize
		for _, dim := range decl.Dims {
			w.expr(dim.Size)
		}
		w.part = partInit
		w.initializer(decl.Init)
		w.part = partOther
	}
}

func (w *walker) initializer(init *grammar.Initializer) {
	if init == nil {
		return
	}
	for _, item := range init.List {
		w.initializer(item)
	}
	if init.Expr != nil {
		w.assign(init.Expr)
	}
}

func (w *walker) expr(e *grammar.Expr) {
	if e == nil {
		return
	}
	for _, item := range e.Items {
		w.assign(item)
	}
}

// assign records the target before the value.
func (w *walker) assign(a *grammar.AssignExpr) {
	if a.Op == "" {
		w.cond(a.Target)
		return
	}
	kind := ReadWrite
	if a.Op == "=" {
		kind = Write
	}
	if u := simpleUnary(a.Target); u != nil {
		w.lvalue(u, kind)
	} else {
		w.cond(a.Target)
	}
	w.assign(a.Value)
}

// simpleUnary returns the operand of a conditional expression that is a
// single unary expression with no operators around it.
func simpleUnary(c *grammar.CondExpr) *grammar.UnaryExpr {
	if c == nil || c.Then != nil || c.Cond == nil || len(c.Cond.Ops) > 0 {
		return nil
	}
	return c.Cond.Left
}

// lvalue records the root identifier of an assignment or increment target
// with the given kind. The whole variable counts as written even for
// `a[i]`, `s.f`, `p->f` and `*p`; indices are reads.
func (w *walker) lvalue(u *grammar.UnaryExpr, kind Kind) {
	switch {
	case u.Op == "*" && u.Operand != nil:
		w.lvalue(u.Operand, kind)
	case u.Postfix != nil:
		p := u.Postfix
		if isCall(p) {
			w.postfix(p)
			return
		}
		switch {
		case p.Primary.Ident != "":
			w.add(p.Primary.Ident, kind, p.Primary.Pos)
		case p.Primary.Parens != nil && len(p.Primary.Parens.Items) == 1:
			if inner := simpleUnary(p.Primary.Parens.Items[0].Target); inner != nil && p.Primary.Parens.Items[0].Op == "" {
				w.lvalue(inner, kind)
			} else {
				w.expr(p.Primary.Parens)
			}
		default:
			w.primary(p.Primary)
		}
		w.suffixes(p.Suffix)
	default:
		w.unary(u)
	}
}

func (w *walker) cond(c *grammar.CondExpr) {
	if c == nil {
		return
	}
	w.binary(c.Cond)
	w.expr(c.Then)
	w.cond(c.Else)
}

func (w *walker) binary(b *grammar.BinaryExpr) {
	if b == nil {
		return
	}
	w.unary(b.Left)
	for _, op := range b.Ops {
		w.unary(op.Right)
	}
}

func (w *walker) unary(u *grammar.UnaryExpr) {
	if u == nil {
		return
	}
	switch {
	case u.Operand != nil:
		if u.Op == "++" || u.Op == "--" {
			w.lvalue(u.Operand, ReadWrite)
			return
		}
		w.unary(u.Operand)
	case u.Sizeof != nil:
		w.unary(u.Sizeof.Operand)
	case u.Cast != nil:
		w.unary(u.Cast.Operand)
	case u.Postfix != nil:
		w.postfix(u.Postfix)
	default:
		w.fail("expression", u.Pos)
	}
}

func (w *walker) postfix(p *grammar.PostfixExpr) {
	if !isCall(p) && hasIncrement(p) {
		w.lvalue(&grammar.UnaryExpr{Pos: p.Pos, Postfix: p}, ReadWrite)
		return
	}
	if !isCall(p) {
		w.primary(p.Primary)
	} else if p.Primary.Parens != nil {
		// (*fp)(x): the callee expression itself is evaluated.
		w.expr(p.Primary.Parens)
	}
	w.suffixes(p.Suffix)
}

func (w *walker) primary(p *grammar.PrimaryExpr) {
	switch {
	case p.Ident != "":
		w.add(p.Ident, Read, p.Pos)
	case p.Parens != nil:
		w.expr(p.Parens)
	}
}

func (w *walker) suffixes(suffixes []*grammar.Suffix) {
	for _, s := range suffixes {
		switch {
		case s.Call != nil:
			w.arguments(s.Call)
		case s.Index != nil:
			w.expr(s.Index)
		}
	}
}

func (w *walker) arguments(call *grammar.CallSuffix) {
	for _, arg := range call.Args {
		if w.opts.CallArguments == IgnoreCallArguments && isDirectIdent(arg) {
			continue
		}
		w.assign(arg)
	}
}

// isCall reports whether the primary is called directly, making it a callee
// rather than a variable.
func isCall(p *grammar.PostfixExpr) bool {
	return len(p.Suffix) > 0 && p.Suffix[0].Call != nil
}

func hasIncrement(p *grammar.PostfixExpr) bool {
	for _, s := range p.Suffix {
		if s.Incr != "" {
			return true
		}
	}
	return false
}

// isDirectIdent matches `x` and `(x)` but not `x + 1`, `x[i]` or `&x`.
func isDirectIdent(a *grammar.AssignExpr) bool {
	if a.Op != "" {
		return false
	}
	u := simpleUnary(a.Target)
	if u == nil || u.Postfix == nil || len(u.Postfix.Suffix) > 0 {
		return false
	}
	primary := u.Postfix.Primary
	if primary.Ident != "" {
		return true
	}
	if primary.Parens != nil && len(primary.Parens.Items) == 1 {
		return isDirectIdent(primary.Parens.Items[0])
	}
	return false
}

// Describe renders a set for diagnostics and the language server.
func Describe(set *Set) string {
	if set.Empty() {
		return "no variable accesses"
	}
	return fmt.Sprintf("accesses %s", set)
}
