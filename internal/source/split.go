// Package source separates preprocessor and comment lines from the code the
// parser sees.
package source

import (
	"strings"
	"unicode"
)

// Line is a preserved preprocessor or comment line.
type Line struct {
	Number int // 1-based line number in the input
	Text   string
}

// File is an input split into the preserved lines and the code to parse.
type File struct {
	Path      string
	Preserved []Line
	// Code has every preserved line replaced by an empty line so that
	// parser positions match the input.
	Code string
	// Macros lists object-like macro names from #define lines, in order.
	Macros []string
}

// IsPreserved reports whether a line is carried over verbatim instead of
// being parsed.
func IsPreserved(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//")
}

// Split partitions src line by line.
func Split(path, src string) *File {
	f := &File{Path: path}
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if IsPreserved(line) {
			f.Preserved = append(f.Preserved, Line{Number: i + 1, Text: strings.TrimRight(line, "\r")})
			lines[i] = ""
			if name, ok := macroName(line); ok {
				f.Macros = append(f.Macros, name)
			}
		}
	}
	f.Code = strings.Join(lines, "\n")
	return f
}

// macroName returns NAME for `#define NAME ...`. Function-like macros are
// skipped: their names only appear as callees.
func macroName(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "#")
	if !ok {
		return "", false
	}
	rest, ok = strings.CutPrefix(strings.TrimSpace(rest), "define")
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	rest = strings.TrimLeft(rest, " \t")
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	if end == -1 {
		end = len(rest)
	}
	name := rest[:end]
	if name == "" || unicode.IsDigit(rune(name[0])) || strings.HasPrefix(rest[end:], "(") {
		return "", false
	}
	return name, true
}

// PreservedText returns the preserved lines joined by newlines, each line
// terminated.
func (f *File) PreservedText() string {
	var b strings.Builder
	for _, l := range f.Preserved {
		b.WriteString(l.Text)
		b.WriteString("\n")
	}
	return b.String()
}
