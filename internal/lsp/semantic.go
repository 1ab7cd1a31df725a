package lsp

import (
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"ladders/internal/access"
	"ladders/internal/pipeline"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the semanticTokenTypes array
// TokenModifiers is a bitmask based on semanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into semanticTokenTypes
	TokenModifiers int // bitmask
}

// collectSemanticTokens highlights preserved lines, function names and the
// first access of every variable in each scheduled statement. Tokens come
// back sorted by position.
func collectSemanticTokens(out *pipeline.Output) []SemanticToken {
	var tokens []SemanticToken

	if out == nil {
		return tokens
	}

	for _, line := range out.Unit.Source.Preserved {
		tokens = append(tokens, walkPreserved(line.Number, line.Text)...)
	}

	for _, ext := range out.Unit.Program.Externals {
		f := ext.Function
		if f == nil || len(f.Pointer) > 0 {
			continue
		}
		modifier := "declaration"
		if f.Body != nil {
			modifier = "definition"
		}
		tokens = append(tokens, makeToken(f.Pos, f.Name, "function", modifier)...)
	}

	for _, set := range out.Sets {
		tokens = append(tokens, walkAccesses(set)...)
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})
	return tokens
}

func walkPreserved(number int, text string) []SemanticToken {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	tokenType := "comment"
	if strings.HasPrefix(trimmed, "#") {
		tokenType = "macro"
	}
	pos := lexer.Position{Line: number, Column: strings.Index(text, trimmed) + 1}
	return makeToken(pos, trimmed, tokenType, "")
}

func walkAccesses(set *access.Set) []SemanticToken {
	var tokens []SemanticToken

	if set == nil {
		return tokens
	}

	for _, a := range set.All() {
		var modifier string
		switch {
		case a.Kind == access.Declaration:
			modifier = "declaration"
		case a.Kind.Writes():
			modifier = "modification"
		}
		tokens = append(tokens, makeToken(a.Pos, a.Name, "variable", modifier)...)
	}

	return tokens
}

func makeToken(pos lexer.Position, value, tokenType, modifier string) []SemanticToken {
	if value == "" || pos.Line == 0 {
		return nil
	}

	var mask int
	if modifier != "" {
		mask = 1 << indexOf(modifier, SemanticTokenModifiers)
	}

	return []SemanticToken{{
		Line:           uint32(pos.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(pos.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(len(value)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: mask,
	}}
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0 // Default to first token type if not found
}
