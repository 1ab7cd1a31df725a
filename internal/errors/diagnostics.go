package errors

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with suggestions
type DiagnosticBuilder struct {
	err CompilerError
}

// NewError creates a new error builder
func NewError(code, message string, pos lexer.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos lexer.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *DiagnosticBuilder) WithReplacement(message, replacement string, pos lexer.Position, length int) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

// WithNote adds a note to the error
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// Usage errors

func MissingArgument() CompilerError {
	return NewError(ErrorMissingArgument, "no input file given", lexer.Position{}).
		WithHelp("usage: ladders <file.lad>").
		Build()
}

func FileNotFound(path string) CompilerError {
	return NewError(ErrorFileNotFound, fmt.Sprintf("cannot read input file '%s'", path), lexer.Position{}).
		WithSuggestion("check that the path exists and is readable").
		Build()
}

func WrongExtension(path string) CompilerError {
	builder := NewError(ErrorWrongExtension, fmt.Sprintf("input file '%s' is not a .lad file", path), lexer.Position{})
	if ext := filepath.Ext(path); ext != "" {
		builder = builder.WithSuggestion(fmt.Sprintf("rename the file to '%s.lad'", strings.TrimSuffix(filepath.Base(path), ext)))
	}
	return builder.Build()
}

// Input errors

// Syntax wraps a parser message.
func Syntax(message string, pos lexer.Position) CompilerError {
	return NewError(ErrorSyntax, message, pos).
		WithNote("only a subset of C is accepted: declarations, expressions, if/for/while/do and blocks").
		Build()
}

// EntryNotFound reports a missing entry function, suggesting similarly named
// functions that are defined.
func EntryNotFound(entry string, pos lexer.Position, defined []string) CompilerError {
	builder := NewError(ErrorEntryNotFound, fmt.Sprintf("entry function '%s' is not defined", entry), pos)

	similar := findSimilarNames(entry, defined)
	switch {
	case len(similar) == 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	case len(similar) > 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	}
	if len(defined) > 0 {
		builder = builder.WithNote("defined functions: " + strings.Join(defined, ", "))
	}
	return builder.WithHelp("select another entry with --entry or the 'entry' config key").Build()
}

func EntryWithoutBody(entry string, pos lexer.Position) CompilerError {
	return NewError(ErrorEntryWithoutBody, fmt.Sprintf("entry function '%s' has no body", entry), pos).
		WithLength(len(entry)).
		WithNote("a prototype cannot be scheduled").
		Build()
}

func EarlyReturn(pos lexer.Position) CompilerError {
	return NewError(ErrorEarlyReturn, "return statement before the end of the entry function", pos).
		WithLength(len("return")).
		WithNote("statements after an early return would be reordered across it").
		WithSuggestion("move the return to the last statement of the function").
		Build()
}

func Unclassifiable(what string, pos lexer.Position) CompilerError {
	return NewError(ErrorUnclassifiable, fmt.Sprintf("cannot determine variable accesses of %s", what), pos).Build()
}

// HoistedInitializer warns that a declaration moved ahead of every batch reads
// variables other statements may write.
func HoistedInitializer(name string, reads []string, pos lexer.Position) CompilerError {
	return NewWarning(WarningHoistedInitializer,
		fmt.Sprintf("initializer of '%s' reads %s but the declaration is hoisted before all batches", name, quoteList(reads)), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("split the declaration: declare '%s' first and assign it in a separate statement", name)).
		Build()
}

// HoistedSize warns that a hoisted array declaration takes its size from
// variables other statements may write.
func HoistedSize(name string, reads []string, pos lexer.Position) CompilerError {
	return NewWarning(WarningHoistedSize,
		fmt.Sprintf("size of '%s' reads %s but the declaration is hoisted before all batches", name, quoteList(reads)), pos).
		WithLength(len(name)).
		WithNote("the size is evaluated before any batch runs").
		Build()
}

// Output errors

func OutputWrite(path string, cause error) CompilerError {
	return NewError(ErrorOutputWrite, fmt.Sprintf("cannot write '%s': %v", path, cause), lexer.Position{}).
		WithNote("no output file was left behind").
		Build()
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return strings.Join(quoted, ", ")
}

// findSimilarNames finds names similar to the target using simple string distance
func findSimilarNames(target string, candidates []string) []string {
	var similar []string
	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && candidate != target {
			similar = append(similar, candidate)
		}
	}
	return similar
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(matrix[i-1][j]+1, matrix[i][j-1]+1, matrix[i-1][j-1]+cost)
		}
	}

	return matrix[len(a)][len(b)]
}
