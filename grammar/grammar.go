package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type Program struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Externals []*External `@@*`
}

// External is one top-level item: a function definition or prototype, or a
// global declaration. Both start with a type, so the type is parsed once.
type External struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Type     *TypeSpec    `@@`
	Function *FunctionDef `( @@`
	Decl     *DeclTail    `| @@ )`
}

type TypeSpec struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Words  []string `(  @TypeKeyword+`
	Struct string   ` | "struct" @Ident )`
}

type FunctionDef struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Pointer []string `@"*"*`
	Name    string   `@Ident "("`
	Params  []*Param `[ @@ { "," @@ } ] ")"`
	Body    *Block   `( @@ | ";" )`
}

type Param struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Type    *TypeSpec   `@@`
	Pointer []string    `@"*"*`
	Name    string      `[ @Ident ]`
	Dims    []*ArrayDim `@@*`
}

type DeclTail struct {
	Pos         lexer.Position
	EndPos      lexer.Position
	Declarators []*Declarator `@@ { "," @@ } ";"`
}

type Declaration struct {
	Pos         lexer.Position
	EndPos      lexer.Position
	Type        *TypeSpec     `@@`
	Declarators []*Declarator `@@ { "," @@ } ";"`
}

type Declarator struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Pointer []string     `@"*"*`
	Name    string       `@Ident`
	Dims    []*ArrayDim  `@@*`
	Init    *Initializer `[ "=" @@ ]`
}

type ArrayDim struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Open   string `@"["`
	Size   *Expr  `@@? "]"`
}

type Initializer struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Braced bool           `(  @"{"`
	List   []*Initializer `   [ @@ { "," @@ } [ "," ] ] "}"`
	Expr   *AssignExpr    `| @@ )`
}

type Block struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Statements []*Statement `"{" @@* "}"`
}

type Statement struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Block    *Block       `  @@`
	If       *IfStmt      `| @@`
	While    *WhileStmt   `| @@`
	DoWhile  *DoWhileStmt `| @@`
	For      *ForStmt     `| @@`
	Return   *ReturnStmt  `| @@`
	Break    bool         `| @"break" ";"`
	Continue bool         `| @"continue" ";"`
	Decl     *Declaration `| @@`
	Expr     *ExprStmt    `| @@`
	Empty    bool         `| @";"`
}

type IfStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr      `"if" "(" @@ ")"`
	Then   *Statement `@@`
	Else   *Statement `[ "else" @@ ]`
}

type WhileStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr      `"while" "(" @@ ")"`
	Body   *Statement `@@`
}

type DoWhileStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Body   *Statement `"do" @@`
	Cond   *Expr      `"while" "(" @@ ")" ";"`
}

type ForStmt struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	InitDecl *Declaration `"for" "(" ( @@`
	InitExpr *Expr        `          | @@? ";" )`
	Cond     *Expr        `@@? ";"`
	Post     *Expr        `@@? ")"`
	Body     *Statement   `@@`
}

type ReturnStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  *Expr `"return" @@? ";"`
}

type ExprStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Expr   *Expr `@@ ";"`
}

// Expr is a comma expression.
type Expr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Items  []*AssignExpr `@@ { "," @@ }`
}

type AssignExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Target *CondExpr   `@@`
	Op     string      `[ @("=" | "+=" | "-=" | "*=" | "/=" | "%=" | "&=" | "|=" | "^=" | "<<=" | ">>=")`
	Value  *AssignExpr `  @@ ]`
}

type CondExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *BinaryExpr `@@`
	Then   *Expr       `[ "?" @@`
	Else   *CondExpr   `  ":" @@ ]`
}

// BinaryExpr keeps operators flat, in source order. Precedence does not
// matter for access classification and the printer reproduces the sequence.
type BinaryExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *UnaryExpr `@@`
	Ops    []*BinOp   `@@*`
}

type BinOp struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Operator string     `@("||" | "&&" | "|" | "^" | "&" | "==" | "!=" | "<=" | ">=" | "<" | ">" | "<<" | ">>" | "+" | "-" | "*" | "/" | "%")`
	Right    *UnaryExpr `@@`
}

type UnaryExpr struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Op      string       `(  @("++" | "--" | "-" | "+" | "!" | "~" | "*" | "&")`
	Operand *UnaryExpr   `   @@`
	Sizeof  *SizeofExpr  `| @@`
	Cast    *CastExpr    `| @@`
	Postfix *PostfixExpr `| @@ )`
}

type CastExpr struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Type    *TypeSpec  `"(" @@`
	Pointer []string   `@"*"* ")"`
	Operand *UnaryExpr `@@`
}

type SizeofExpr struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Type    *TypeSpec  `"sizeof" ( "(" @@`
	Pointer []string   `          @"*"* ")"`
	Operand *UnaryExpr `        | @@ )`
}

type PostfixExpr struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Primary *PrimaryExpr `@@`
	Suffix  []*Suffix    `@@*`
}

type Suffix struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Call   *CallSuffix `  @@`
	Index  *Expr       `| "[" @@ "]"`
	Member string      `| "." @Ident`
	Arrow  string      `| "->" @Ident`
	Incr   string      `| @("++" | "--")`
}

type CallSuffix struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Args   []*AssignExpr `"(" [ @@ { "," @@ } ] ")"`
}

type PrimaryExpr struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Ident   string   `  @Ident`
	Float   string   `| @Float`
	Int     string   `| @Int`
	Char    string   `| @Char`
	Strings []string `| @String+`
	Parens  *Expr    `| "(" @@ ")"`
}
