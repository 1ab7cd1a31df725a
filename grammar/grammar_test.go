package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ladders/grammar"
)

const sumSource = `int scale(int v)
{
    return v * 2;
}

int main()
{
    int a, b = 2;
    a = scale(b);
    b += a;
    printf("%d\n", a + b);
    return 0;
}
`

func TestParseProgram(t *testing.T) {
	program, err := grammar.ParseString("sum.lad", sumSource)
	require.NoError(t, err)
	require.Len(t, program.Externals, 2)

	scale := program.Externals[0]
	require.NotNil(t, scale.Function)
	assert.Equal(t, "scale", scale.Function.Name)
	assert.Equal(t, "int", scale.Type.String())
	require.Len(t, scale.Function.Params, 1)
	assert.Equal(t, "int v", scale.Function.Params[0].String())

	main := program.Externals[1].Function
	require.NotNil(t, main)
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, "int main()", main.Signature(program.Externals[1].Type))
	require.NotNil(t, main.Body)

	stmts := main.Body.Statements
	require.Len(t, stmts, 5)
	require.NotNil(t, stmts[0].Decl)
	assert.Len(t, stmts[0].Decl.Declarators, 2)
	assert.NotNil(t, stmts[1].Expr)
	assert.NotNil(t, stmts[2].Expr)
	assert.NotNil(t, stmts[3].Expr)
	assert.NotNil(t, stmts[4].Return)

	assert.Equal(t, 8, stmts[0].Pos.Line)
	assert.Equal(t, 12, stmts[4].Pos.Line)
}

func TestParseGlobalsAndPrototypes(t *testing.T) {
	program, err := grammar.ParseString("g.lad", "int counter = 0;\nvoid tick(void);\nint main() { counter++; }\n")
	require.NoError(t, err)
	require.Len(t, program.Externals, 3)

	assert.NotNil(t, program.Externals[0].Decl)
	assert.Equal(t, "int counter = 0;\n", program.Externals[0].StringWithIndent(0))

	tick := program.Externals[1].Function
	require.NotNil(t, tick)
	assert.Nil(t, tick.Body)
	assert.Equal(t, "void tick(void);\n", program.Externals[1].StringWithIndent(0))
}

func TestStatementRoundTrip(t *testing.T) {
	tests := []string{
		"x = 1;",
		"y = x + 1;",
		"a[i] = b[i] * c;",
		"i++;",
		"--j;",
		`printf("%d\n", x);`,
		"p->next = q.prev;",
		"int x = 5;",
		"int *p, arr[10];",
		"float m[2][2] = {{1.0, 0.0}, {0.0, 1.0}};",
		"unsigned long n = 10UL;",
		"x += (int) y;",
		"z = sizeof(int) + sizeof x;",
		"r = c ? a : b;",
		"x = -y * (a - b) / 2.5e3;",
		"flag = !done && (k >= 0 || k != limit);",
		"if (x > 0) {\n    y = 1;\n} else {\n    y = 2;\n}",
		"if (a)\n    x = 1;\nelse if (b)\n    x = 2;\nelse\n    x = 3;",
		"for (int i = 0; i < n; i++) {\n    s += i;\n}",
		"for (i = 0, j = n; i < j; i++, j--)\n    swap(i, j);",
		"while (k < 10)\n    k++;",
		"do {\n    k--;\n} while (k > 0);",
		"{\n    int t = a;\n    a = b;\n    b = t;\n}",
		"return 0;",
		"return;",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			stmt, err := grammar.ParseStatement(src)
			require.NoError(t, err)
			assert.Equal(t, src, stmt.String())
		})
	}
}

func TestStatementIndentation(t *testing.T) {
	stmt, err := grammar.ParseStatement("while (k) { if (k > 1) k--; }")
	require.NoError(t, err)

	expected := "    while (k) {\n        if (k > 1)\n            k--;\n    }\n"
	assert.Equal(t, expected, stmt.StringWithIndent(1))
}

func TestCommentsAreElided(t *testing.T) {
	stmt, err := grammar.ParseStatement("x = /* inline */ 1; // trailing")
	require.NoError(t, err)
	assert.Equal(t, "x = 1;", stmt.String())
}

func TestParseSyntaxError(t *testing.T) {
	_, err := grammar.ParseString("bad.lad", "int main()\n{\n    x = ;\n}\n")
	require.Error(t, err)

	var syntaxErr *grammar.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 3, syntaxErr.Position.Line)
	assert.Equal(t, "bad.lad", syntaxErr.Position.Filename)
	assert.NotEmpty(t, syntaxErr.Message)
}
