// Package program locates the entry function and captures its direct body
// statements as an indexed, immutable sequence.
package program

import (
	"github.com/alecthomas/participle/v2/lexer"
	"ladders/grammar"
	"ladders/internal/errors"
	"ladders/internal/source"
)

const DefaultEntry = "main"

// Statement is one schedulable unit of the entry body.
type Statement struct {
	Index int
	Text  string
	Node  *grammar.Statement
	Pos   lexer.Position
}

// Unit is a parsed program ready for scheduling.
type Unit struct {
	Source     *source.File
	Program    *grammar.Program
	Entry      *grammar.External
	Statements []*Statement
	// Epilogue is the trailing return of the entry function, emitted after
	// every batch. Nil when the body does not end in a return.
	Epilogue *grammar.Statement
}

// Capture finds the entry function in tree and indexes its statements.
func Capture(file *source.File, tree *grammar.Program, entry string) (*Unit, error) {
	if entry == "" {
		entry = DefaultEntry
	}

	ext, err := findEntry(file, tree, entry)
	if err != nil {
		return nil, err
	}

	unit := &Unit{Source: file, Program: tree, Entry: ext}
	body := ext.Function.Body.Statements
	for i, stmt := range body {
		if stmt.Return != nil {
			if i != len(body)-1 {
				return nil, errors.EarlyReturn(stmt.Pos)
			}
			unit.Epilogue = stmt
			break
		}
		if ret := nestedReturn(stmt); ret != nil {
			return nil, errors.EarlyReturn(ret.Pos)
		}
		for _, part := range splitDeclaration(stmt) {
			unit.Statements = append(unit.Statements, &Statement{
				Index: len(unit.Statements),
				Text:  part.String(),
				Node:  part,
				Pos:   part.Pos,
			})
		}
	}
	return unit, nil
}

func findEntry(file *source.File, tree *grammar.Program, entry string) (*grammar.External, error) {
	var defined []string
	var prototype *grammar.External
	for _, ext := range tree.Externals {
		if ext.Function == nil {
			continue
		}
		if ext.Function.Name == entry {
			if ext.Function.Body != nil {
				return ext, nil
			}
			prototype = ext
			continue
		}
		if ext.Function.Body != nil {
			defined = append(defined, ext.Function.Name)
		}
	}
	if prototype != nil {
		return nil, errors.EntryWithoutBody(entry, prototype.Function.Pos)
	}
	return nil, errors.EntryNotFound(entry, lexer.Position{Filename: file.Path, Line: 1, Column: 1}, defined)
}

// splitDeclaration turns `int a, b = 2;` into `int a;` and `int b = 2;`.
// Any other statement is returned unchanged.
func splitDeclaration(stmt *grammar.Statement) []*grammar.Statement {
	if stmt.Decl == nil || len(stmt.Decl.Declarators) < 2 {
		return []*grammar.Statement{stmt}
	}
	parts := make([]*grammar.Statement, 0, len(stmt.Decl.Declarators))
	for i, d := range stmt.Decl.Declarators {
		pos := d.Pos
		if i == 0 {
			pos = stmt.Pos
		}
		parts = append(parts, &grammar.Statement{
			Pos:    pos,
			EndPos: d.EndPos,
			Decl: &grammar.Declaration{
				Pos:         stmt.Decl.Pos,
				EndPos:      stmt.Decl.EndPos,
				Type:        stmt.Decl.Type,
				Declarators: []*grammar.Declarator{d},
			},
		})
	}
	return parts
}

// nestedReturn finds a return inside a compound statement. Such a return
// would leave a parallel section, which OpenMP forbids.
func nestedReturn(stmt *grammar.Statement) *grammar.Statement {
	if stmt == nil {
		return nil
	}
	switch {
	case stmt.Return != nil:
		return stmt
	case stmt.Block != nil:
		for _, s := range stmt.Block.Statements {
			if ret := nestedReturn(s); ret != nil {
				return ret
			}
		}
	case stmt.If != nil:
		if ret := nestedReturn(stmt.If.Then); ret != nil {
			return ret
		}
		return nestedReturn(stmt.If.Else)
	case stmt.While != nil:
		return nestedReturn(stmt.While.Body)
	case stmt.DoWhile != nil:
		return nestedReturn(stmt.DoWhile.Body)
	case stmt.For != nil:
		return nestedReturn(stmt.For.Body)
	}
	return nil
}

// StatementAt returns the captured statement starting on line, or nil.
func (u *Unit) StatementAt(line int) *Statement {
	var found *Statement
	for _, s := range u.Statements {
		if s.Pos.Line > line {
			break
		}
		if s.Pos.Line == line || (s.Pos.Line < line && line <= s.Node.EndPos.Line) {
			found = s
		}
	}
	return found
}

// EntryName returns the name of the scheduled function.
func (u *Unit) EntryName() string {
	return u.Entry.Function.Name
}

// Others returns every top-level item except the entry function, in source
// order.
func (u *Unit) Others() []*grammar.External {
	var out []*grammar.External
	for _, ext := range u.Program.Externals {
		if ext != u.Entry {
			out = append(out, ext)
		}
	}
	return out
}
