package emit

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ladders/grammar"
	"ladders/internal/access"
	"ladders/internal/program"
	"ladders/internal/schedule"
	"ladders/internal/source"
)

const chainSource = `#include <stdio.h>
// demo
int scale(int v)
{
    return v * 2;
}

int main()
{
    int x;
    x = 1;
    y = x + 1;
    print(y);
    return 0;
}
`

const loopSource = `int main()
{
    int i, sum = 0;
    int n = 4;
    for (i = 0; i < n; i++) {
        sum += i;
    }
    total = 10;
    if (total > 5)
        flag = 1;
}
`

func build(t *testing.T, src string) (*program.Unit, *schedule.Result) {
	t.Helper()
	file := source.Split("test.lad", src)
	tree, err := grammar.ParseString(file.Path, file.Code)
	require.NoError(t, err)
	unit, err := program.Capture(file, tree, program.DefaultEntry)
	require.NoError(t, err)
	classified, err := access.ClassifyAll(unit.Statements, access.DefaultOptions())
	require.NoError(t, err)
	return unit, schedule.Run(classified.Sets, schedule.DefaultOptions())
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestAnnotatedGolden(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"chain", chainSource},
		{"loop", loopSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, result := build(t, tt.src)
			g := newGoldie(t)
			g.Assert(t, tt.name+".annotated", []byte(Annotated(unit, result, DefaultOptions())))
			g.Assert(t, tt.name+".sched", []byte(Report(result)))
		})
	}
}

func TestReportFormat(t *testing.T) {
	result := &schedule.Result{
		Declarations: []int{0, 4},
		Batches:      map[int][]int{2: {5}, 0: {1, 2}, 1: {3}},
	}
	expected := "Declarations:\n0, 4\n\nSchedule:\nbatch 0 : 1, 2\nbatch 1 : 3\nbatch 2 : 5\n"
	assert.Equal(t, expected, Report(result))
}

func TestReportWithoutDeclarations(t *testing.T) {
	result := &schedule.Result{Batches: map[int][]int{0: {0, 1}}}
	assert.Equal(t, "Declarations:\n\n\nSchedule:\nbatch 0 : 0, 1\n", Report(result))
}

func TestAnnotatedIncludes(t *testing.T) {
	unit, result := build(t, "#include <omp.h>\nint main() { a = 1; }\n")
	out := Annotated(unit, result, DefaultOptions())
	assert.Equal(t, 1, countLines(out, "#include <omp.h>"))

	out = Annotated(unit, result, Options{Includes: []string{"<omp.h>", `"timing.h"`}})
	assert.Contains(t, out, "#include \"timing.h\"\n#include <omp.h>\n")

	out = Annotated(unit, result, Options{})
	assert.Equal(t, 1, countLines(out, "#include <omp.h>"))
}

func TestAnnotatedBatchesAscending(t *testing.T) {
	unit, result := build(t, "int main() { a = 1; a++; b = a; c = 2; }")
	out := Annotated(unit, result, DefaultOptions())

	b0 := indexOf(out, "// batch 0")
	b1 := indexOf(out, "// batch 1")
	b2 := indexOf(out, "// batch 2")
	require.True(t, b0 >= 0 && b1 >= 0 && b2 >= 0)
	assert.Less(t, b0, b1)
	assert.Less(t, b1, b2)
}

func TestSummary(t *testing.T) {
	unit, result := build(t, chainSource)
	out := Summary(unit, result)

	assert.Contains(t, out, "main: 4 statements, 2 batches")
	assert.Contains(t, out, "hoisted")
	assert.Contains(t, out, "batch 0")
	assert.Contains(t, out, "batch 1")
	assert.Contains(t, out, "y = x + 1;")
	assert.Contains(t, out, "print(y);")
}

func TestSummaryTruncatesMultilineStatements(t *testing.T) {
	unit, result := build(t, loopSource)
	out := Summary(unit, result)
	assert.Contains(t, out, "for (i = 0; i < n; i++) { ...")
	assert.NotContains(t, out, "sum += i;")
}
