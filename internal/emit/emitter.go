// Package emit renders a scheduled program: the annotated OpenMP source, the
// schedule report and a terminal summary.
package emit

import (
	"fmt"
	"strings"

	"ladders/internal/program"
	"ladders/internal/schedule"
)

type Options struct {
	// Includes are emitted as `#include <...>` lines ahead of the preserved
	// preprocessor lines.
	Includes []string
}

func DefaultOptions() Options {
	return Options{Includes: []string{"<omp.h>"}}
}

func indent(level int) string {
	return strings.Repeat("    ", level)
}

// Annotated renders the program with the entry body replaced by its hoisted
// declarations and one `parallel sections` construct per batch.
func Annotated(unit *program.Unit, result *schedule.Result, opts Options) string {
	var b strings.Builder

	for _, inc := range opts.Includes {
		line := "#include " + inc
		if !hasPreserved(unit, line) {
			b.WriteString(line + "\n")
		}
	}
	b.WriteString(unit.Source.PreservedText())
	b.WriteString("\n")

	for _, ext := range unit.Others() {
		b.WriteString(ext.StringWithIndent(0))
		b.WriteString("\n")
	}

	b.WriteString(unit.Entry.Function.Signature(unit.Entry.Type))
	b.WriteString("\n{\n")
	for _, i := range result.Declarations {
		b.WriteString(unit.Statements[i].Node.StringWithIndent(1))
	}
	for _, n := range result.BatchNumbers() {
		writeBatch(&b, unit, n, result.Batches[n])
	}
	if unit.Epilogue != nil {
		b.WriteString(unit.Epilogue.StringWithIndent(1))
	}
	b.WriteString("}\n")
	return b.String()
}

func writeBatch(b *strings.Builder, unit *program.Unit, n int, indices []int) {
	fmt.Fprintf(b, "%s// batch %d\n", indent(1), n)
	b.WriteString(indent(1) + "#pragma omp parallel sections\n")
	b.WriteString(indent(1) + "{\n")
	for _, i := range indices {
		b.WriteString(indent(2) + "#pragma omp section\n")
		b.WriteString(indent(2) + "{\n")
		b.WriteString(unit.Statements[i].Node.StringWithIndent(3))
		b.WriteString(indent(2) + "}\n")
	}
	b.WriteString(indent(1) + "}\n")
}

func hasPreserved(unit *program.Unit, line string) bool {
	for _, l := range unit.Source.Preserved {
		if strings.TrimSpace(l.Text) == line {
			return true
		}
	}
	return false
}
