package grammar

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var ladParser = participle.MustBuild[Program](
	participle.Lexer(LadLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

// SyntaxError is a parse failure with the position participle reported.
type SyntaxError struct {
	Position lexer.Position
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Position.Filename, e.Position.Line, e.Position.Column, e.Message)
}

// ParseString parses the code part of a .lad file. Preprocessor and comment
// lines are expected to have been blanked out already.
func ParseString(path, source string) (*Program, error) {
	program, err := ladParser.ParseString(path, source)
	if err != nil {
		if pe, ok := err.(participle.Error); ok {
			return nil, &SyntaxError{Position: pe.Position(), Message: pe.Message()}
		}
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return program, nil
}

// ParseStatement parses a single statement. Used by tests and the language
// server to classify fragments.
func ParseStatement(source string) (*Statement, error) {
	stmt, err := statementParser.ParseString("", source)
	if err != nil {
		if pe, ok := err.(participle.Error); ok {
			return nil, &SyntaxError{Position: pe.Position(), Message: pe.Message()}
		}
		return nil, err
	}
	return stmt, nil
}

var statementParser = participle.MustBuild[Statement](
	participle.Lexer(LadLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)
