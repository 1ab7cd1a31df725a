package grammar

import (
	"fmt"
	"strings"
)

func indent(level int) string {
	return strings.Repeat("    ", level)
}

func (p *Program) String() string {
	var b strings.Builder
	for i, e := range p.Externals {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.StringWithIndent(0))
	}
	return b.String()
}

func (e *External) StringWithIndent(level int) string {
	if e.Function != nil {
		return e.Function.StringWithIndent(e.Type, level)
	}
	if e.Decl != nil {
		return indent(level) + declString(e.Type, e.Decl.Declarators) + "\n"
	}
	return ""
}

func (t *TypeSpec) String() string {
	if t.Struct != "" {
		return "struct " + t.Struct
	}
	return strings.Join(t.Words, " ")
}

// Signature renders the function header without its body.
func (f *FunctionDef) Signature(t *TypeSpec) string {
	var params []string
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	return fmt.Sprintf("%s %s%s(%s)", t.String(), strings.Join(f.Pointer, ""), f.Name, strings.Join(params, ", "))
}

func (f *FunctionDef) StringWithIndent(t *TypeSpec, level int) string {
	if f.Body == nil {
		return indent(level) + f.Signature(t) + ";\n"
	}
	return indent(level) + f.Signature(t) + "\n" + indent(level) + f.Body.StringWithIndent(level)
}

func (p *Param) String() string {
	var b strings.Builder
	b.WriteString(p.Type.String())
	if len(p.Pointer) > 0 || p.Name != "" {
		b.WriteString(" ")
	}
	b.WriteString(strings.Join(p.Pointer, ""))
	b.WriteString(p.Name)
	for _, d := range p.Dims {
		b.WriteString(d.String())
	}
	return b.String()
}

func declString(t *TypeSpec, declarators []*Declarator) string {
	var parts []string
	for _, d := range declarators {
		parts = append(parts, d.String())
	}
	return fmt.Sprintf("%s %s;", t.String(), strings.Join(parts, ", "))
}

func (d *Declaration) String() string {
	return declString(d.Type, d.Declarators)
}

func (d *Declarator) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(d.Pointer, ""))
	b.WriteString(d.Name)
	for _, dim := range d.Dims {
		b.WriteString(dim.String())
	}
	if d.Init != nil {
		b.WriteString(" = ")
		b.WriteString(d.Init.String())
	}
	return b.String()
}

func (a *ArrayDim) String() string {
	if a.Size == nil {
		return "[]"
	}
	return "[" + a.Size.String() + "]"
}

func (i *Initializer) String() string {
	if i.Braced {
		var items []string
		for _, item := range i.List {
			items = append(items, item.String())
		}
		return "{" + strings.Join(items, ", ") + "}"
	}
	if i.Expr != nil {
		return i.Expr.String()
	}
	return ""
}

// StringWithIndent renders a block whose opening brace is already placed by
// the caller; the closing brace is indented to level.
func (b *Block) StringWithIndent(level int) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		sb.WriteString(s.StringWithIndent(level + 1))
	}
	sb.WriteString(indent(level) + "}\n")
	return sb.String()
}

// String renders the statement at indentation level 0 without the trailing
// newline.
func (s *Statement) String() string {
	return strings.TrimSuffix(s.StringWithIndent(0), "\n")
}

func (s *Statement) StringWithIndent(level int) string {
	switch {
	case s.Block != nil:
		return indent(level) + s.Block.StringWithIndent(level)
	case s.If != nil:
		return s.If.StringWithIndent(level)
	case s.While != nil:
		return indent(level) + "while (" + s.While.Cond.String() + ")" + body(s.While.Body, level)
	case s.DoWhile != nil:
		return s.DoWhile.StringWithIndent(level)
	case s.For != nil:
		return indent(level) + s.For.header() + body(s.For.Body, level)
	case s.Return != nil:
		return indent(level) + s.Return.String() + "\n"
	case s.Break:
		return indent(level) + "break;\n"
	case s.Continue:
		return indent(level) + "continue;\n"
	case s.Decl != nil:
		return indent(level) + s.Decl.String() + "\n"
	case s.Expr != nil:
		return indent(level) + s.Expr.String() + "\n"
	case s.Empty:
		return indent(level) + ";\n"
	}
	return ""
}

// body renders a nested statement: blocks stay on the header line, anything
// else goes on its own line one level deeper.
func body(s *Statement, level int) string {
	if s.Block != nil {
		return " " + s.Block.StringWithIndent(level)
	}
	return "\n" + s.StringWithIndent(level+1)
}

func (i *IfStmt) StringWithIndent(level int) string {
	head := indent(level) + "if (" + i.Cond.String() + ")" + body(i.Then, level)
	if i.Else == nil {
		return head
	}
	if i.Then.Block != nil {
		head = strings.TrimSuffix(head, "\n") + " else"
	} else {
		head += indent(level) + "else"
	}
	if i.Else.If != nil {
		return head + " " + strings.TrimPrefix(i.Else.If.StringWithIndent(level), indent(level))
	}
	return head + body(i.Else, level)
}

func (d *DoWhileStmt) StringWithIndent(level int) string {
	tail := "while (" + d.Cond.String() + ");\n"
	if d.Body.Block != nil {
		block := strings.TrimSuffix(d.Body.Block.StringWithIndent(level), "\n")
		return indent(level) + "do " + block + " " + tail
	}
	return indent(level) + "do\n" + d.Body.StringWithIndent(level+1) + indent(level) + tail
}

func (f *ForStmt) header() string {
	var init string
	switch {
	case f.InitDecl != nil:
		init = f.InitDecl.String()
	case f.InitExpr != nil:
		init = f.InitExpr.String() + ";"
	default:
		init = ";"
	}
	var b strings.Builder
	b.WriteString("for (" + init)
	if f.Cond != nil {
		b.WriteString(" " + f.Cond.String())
	}
	b.WriteString(";")
	if f.Post != nil {
		b.WriteString(" " + f.Post.String())
	}
	b.WriteString(")")
	return b.String()
}

func (r *ReturnStmt) String() string {
	if r.Value != nil {
		return fmt.Sprintf("return %s;", r.Value.String())
	}
	return "return;"
}

func (e *ExprStmt) String() string {
	return fmt.Sprintf("%s;", e.Expr.String())
}

func (e *Expr) String() string {
	var items []string
	for _, item := range e.Items {
		items = append(items, item.String())
	}
	return strings.Join(items, ", ")
}

func (a *AssignExpr) String() string {
	if a.Op == "" {
		return a.Target.String()
	}
	return fmt.Sprintf("%s %s %s", a.Target.String(), a.Op, a.Value.String())
}

func (c *CondExpr) String() string {
	if c.Then == nil {
		return c.Cond.String()
	}
	return fmt.Sprintf("%s ? %s : %s", c.Cond.String(), c.Then.String(), c.Else.String())
}

func (b *BinaryExpr) String() string {
	s := b.Left.String()
	for _, op := range b.Ops {
		s += " " + op.String()
	}
	return s
}

func (b *BinOp) String() string {
	return fmt.Sprintf("%s %s", b.Operator, b.Right.String())
}

func (u *UnaryExpr) String() string {
	switch {
	case u.Operand != nil:
		return u.Op + u.Operand.String()
	case u.Sizeof != nil:
		return u.Sizeof.String()
	case u.Cast != nil:
		return u.Cast.String()
	case u.Postfix != nil:
		return u.Postfix.String()
	}
	return ""
}

func (c *CastExpr) String() string {
	return fmt.Sprintf("(%s%s) %s", c.Type.String(), pointerSuffix(c.Pointer), c.Operand.String())
}

func (s *SizeofExpr) String() string {
	if s.Type != nil {
		return fmt.Sprintf("sizeof(%s%s)", s.Type.String(), pointerSuffix(s.Pointer))
	}
	return "sizeof " + s.Operand.String()
}

func pointerSuffix(stars []string) string {
	if len(stars) == 0 {
		return ""
	}
	return " " + strings.Join(stars, "")
}

func (p *PostfixExpr) String() string {
	s := p.Primary.String()
	for _, suffix := range p.Suffix {
		s += suffix.String()
	}
	return s
}

func (s *Suffix) String() string {
	switch {
	case s.Call != nil:
		return s.Call.String()
	case s.Index != nil:
		return "[" + s.Index.String() + "]"
	case s.Member != "":
		return "." + s.Member
	case s.Arrow != "":
		return "->" + s.Arrow
	}
	return s.Incr
}

func (c *CallSuffix) String() string {
	var args []string
	for _, arg := range c.Args {
		args = append(args, arg.String())
	}
	return "(" + strings.Join(args, ", ") + ")"
}

func (p *PrimaryExpr) String() string {
	switch {
	case p.Ident != "":
		return p.Ident
	case p.Float != "":
		return p.Float
	case p.Int != "":
		return p.Int
	case p.Char != "":
		return p.Char
	case len(p.Strings) > 0:
		return strings.Join(p.Strings, " ")
	case p.Parens != nil:
		return "(" + p.Parens.String() + ")"
	}
	return ""
}
