package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var LadLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Block and line comments left inside code
		{"Comment", `/\*(?:[^*]|\*+[^*/])*\*+/|//[^\n]*`, nil},

		// Keywords (order matters: before Ident)
		{"TypeKeyword", `(?:const|static|unsigned|signed|volatile|extern|register|int|char|float|double|void|long|short|_Bool)\b`, nil},
		{"Keyword", `(?:if|else|for|while|do|return|break|continue|struct|sizeof)\b`, nil},

		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Numeric literals (Float before Int)
		{"Float", `(?:[0-9]+\.[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?[fFlL]?|[0-9]+[eE][+-]?[0-9]+[fFlL]?`, nil},
		{"Int", `0[xX][0-9a-fA-F]+[uUlL]*|[0-9]+[uUlL]*`, nil},

		{"String", `"(?:\\.|[^"\\])*"`, nil},
		{"Char", `'(?:\\.|[^'\\])'`, nil},

		// Operators, longest first
		{"Operator", `<<=|>>=|->|\+\+|--|<<|>>|<=|>=|==|!=|&&|\|\||\+=|-=|\*=|/=|%=|&=|\|=|\^=|[-+*/%=<>!~&|^?:]`, nil},

		// Punctuation (must come after operators)
		{"Punctuation", `[{}\[\]();,.]`, nil},

		{"Whitespace", `[ \t\r\n\f\v]+`, nil},
	},
})
