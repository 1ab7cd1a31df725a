package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainProgram = `#include <stdio.h>
int main()
{
    int x;
    x = 1;
    y = x + 1;
    print(y);
    return 0;
}
`

func init() {
	color.NoColor = true
}

func writeProgram(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "ladders", cmd.Name())
	assert.Contains(t, cmd.Long, "parallel sections")
}

func TestFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "0", verboseFlag.DefValue)

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"config", "c", ""},
		{"output-dir", "o", ""},
		{"entry", "e", ""},
		{"share-reads", "", "true"},
		{"call-arguments", "", ""},
		{"stdout", "", "false"},
		{"summary", "", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	input := writeProgram(t, dir, "chain.lad", chainProgram)

	code, stdout, stderr := execute(input)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Scheduled")
	assert.Contains(t, stdout, "4 statements, 1 hoisted, 2 batches")

	report, err := os.ReadFile(filepath.Join(dir, "chain.sched"))
	require.NoError(t, err)
	assert.Equal(t, "Declarations:\n0\n\nSchedule:\nbatch 0 : 1\nbatch 1 : 2, 3\n", string(report))

	annotated, err := os.ReadFile(filepath.Join(dir, "chain.c"))
	require.NoError(t, err)
	assert.Contains(t, string(annotated), "#pragma omp parallel sections")
}

func TestStdoutWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := writeProgram(t, dir, "chain.lad", chainProgram)

	code, stdout, _ := execute("--stdout", input)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "#include <omp.h>\n#include <stdio.h>\n")

	_, err := os.Stat(filepath.Join(dir, "chain.c"))
	assert.True(t, os.IsNotExist(err))
}

func TestSummaryFlag(t *testing.T) {
	input := writeProgram(t, t.TempDir(), "chain.lad", chainProgram)

	code, stdout, _ := execute("--summary", "--stdout", input)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "batch 1")
	assert.Contains(t, stdout, "hoisted")
}

func TestOutputDirFlag(t *testing.T) {
	dir := t.TempDir()
	input := writeProgram(t, dir, "chain.lad", chainProgram)
	outDir := filepath.Join(dir, "out")

	code, _, _ := execute("-o", outDir, input)
	require.Equal(t, ExitSuccess, code)
	assert.FileExists(t, filepath.Join(outDir, "chain.c"))
	assert.FileExists(t, filepath.Join(outDir, "chain.sched"))
}

func TestUsageErrors(t *testing.T) {
	dir := t.TempDir()
	wrong := writeProgram(t, dir, "prog.c", chainProgram)
	input := writeProgram(t, dir, "chain.lad", chainProgram)

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"missing argument", nil, "L0001"},
		{"file not found", []string{filepath.Join(dir, "missing.lad")}, "L0002"},
		{"wrong extension", []string{wrong}, "L0003"},
		{"too many arguments", []string{input, input}, "accepts at most 1 arg"},
		{"unknown flag", []string{"--nope", input}, "unknown flag"},
		{"bad call arguments", []string{"--call-arguments", "maybe", input}, "--call-arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(tt.args...)
			assert.Equal(t, ExitCommandError, code)
			assert.Contains(t, stderr, tt.msg)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "usage errors must not write outputs")
}

func TestInputErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeProgram(t, dir, "bad.lad", "int main()\n{\n    x = ;\n}\n")

	code, _, stderr := execute(input)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "error[L0100]")
	assert.Contains(t, stderr, "bad.lad:3:")

	_, err := os.Stat(filepath.Join(dir, "bad.sched"))
	assert.True(t, os.IsNotExist(err))
}

func TestWarningsArePrinted(t *testing.T) {
	input := writeProgram(t, t.TempDir(), "warn.lad", "int main()\n{\n    n = 2;\n    int m = n;\n}\n")

	code, _, stderr := execute("--stdout", input)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr, "warning[L0800]")
}

func TestConfigLayering(t *testing.T) {
	dir := t.TempDir()
	input := writeProgram(t, dir, "kern.lad", "void kernel() { a = 1; b = a; }\nint main() { c = 1; }\n")
	writeProgram(t, dir, "ladders.yaml", "entry: kernel\n")

	code, stdout, stderr := execute("--stdout", input)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "void kernel()\n{\n")
	assert.Contains(t, stdout, "int main()\n{\n    c = 1;\n}\n")

	t.Setenv("LADDERS_ENTRY", "main")
	code, stdout, _ = execute("--stdout", input)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "void kernel()\n{\n    a = 1;\n    b = a;\n}\n")

	code, stdout, _ = execute("--stdout", "--entry", "kernel", input)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "#pragma omp section")
	assert.Contains(t, stdout, "int main()\n{\n    c = 1;\n}\n")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(assert.AnError))

	wrapped := WrapExitError(ExitFailure, "outer", assert.AnError)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Equal(t, "outer: "+assert.AnError.Error(), wrapped.Error())
}

func TestLogVerbosity(t *testing.T) {
	assert.Equal(t, 0, logVerbosity(0))
	assert.Equal(t, 3, logVerbosity(1))
	assert.Equal(t, 4, logVerbosity(2))
}
