package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"
)

// ErrorLevel is the severity of a diagnostic.
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError is a diagnostic tied to a place in a .lad file.
type CompilerError struct {
	Level       ErrorLevel
	Code        string         // L0xxx, see codes.go
	Message     string         // one-line summary
	Position    lexer.Position // zero Line for diagnostics without a location
	Length      int            // columns to underline, at least one
	Suggestions []Suggestion
	Notes       []string
	HelpText    string
}

// Error renders the one-line form used when no source is at hand.
func (e CompilerError) Error() string {
	head := e.title()
	if e.Position.Line == 0 {
		return head
	}
	file := e.Position.Filename
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Position.Line, e.Position.Column, head)
}

// title is "level[CODE]: message".
func (e CompilerError) title() string {
	head := string(e.Level)
	if e.Code != "" {
		head += "[" + e.Code + "]"
	}
	return head + ": " + e.Message
}

// Suggestion is a proposed fix, optionally with replacement text.
type Suggestion struct {
	Message     string
	Replacement string
	Position    lexer.Position
	Length      int
}

// ErrorReporter renders diagnostics against the source they point into.
type ErrorReporter struct {
	filename string
	lines    []string
}

func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

var (
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	blue   = color.New(color.FgBlue).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	levels = map[ErrorLevel]*color.Color{
		Error:   color.New(color.FgRed, color.Bold),
		Warning: color.New(color.FgYellow, color.Bold),
		Note:    color.New(color.FgBlue, color.Bold),
		Help:    color.New(color.FgGreen, color.Bold),
	}
)

func levelColor(level ErrorLevel) *color.Color {
	if c, ok := levels[level]; ok {
		return c
	}
	return levels[Error]
}

// FormatError renders err with a source excerpt, a caret marker under the
// offending columns, and any suggestions, notes and help.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var b strings.Builder

	head := string(err.Level)
	if err.Code != "" {
		head = levelColor(err.Level).Sprint(head) + "[" + err.Code + "]"
	} else {
		head = levelColor(err.Level).Sprint(head)
	}
	fmt.Fprintf(&b, "%s: %s\n", head, err.Message)

	if err.Position.Line == 0 {
		for _, note := range err.Notes {
			fmt.Fprintf(&b, "  %s %s\n", blue("note:"), note)
		}
		if err.HelpText != "" {
			fmt.Fprintf(&b, "  %s %s\n", green("help:"), err.HelpText)
		}
		return b.String()
	}

	line := err.Position.Line
	width := max(len(strconv.Itoa(line+1)), 3)
	pad := strings.Repeat(" ", width)
	bar := dim("│")
	source := func(n int, numberStyle func(...any) string) {
		fmt.Fprintf(&b, "%s %s %s\n", numberStyle(fmt.Sprintf("%*d", width, n)), bar, er.lines[n-1])
	}

	fmt.Fprintf(&b, "%s %s %s:%d:%d\n", pad, dim("-->"), er.filename, line, err.Position.Column)
	fmt.Fprintf(&b, "%s %s\n", pad, bar)

	if line-1 >= 1 && line-1 <= len(er.lines) {
		source(line-1, dim)
	}
	if line <= len(er.lines) {
		source(line, bold)
		fmt.Fprintf(&b, "%s %s %s\n", pad, bar, er.createMarker(err.Position.Column, err.Length, err.Level))
	}
	if line+1 <= len(er.lines) {
		source(line+1, dim)
	}

	if len(err.Suggestions) > 0 {
		fmt.Fprintf(&b, "%s %s\n", pad, bar)
	}
	for i, s := range err.Suggestions {
		lead := cyan("    ")
		if i == 0 {
			lead = cyan("help") + " " + cyan("try") + ":"
		}
		fmt.Fprintf(&b, "%s %s %s\n", pad, lead, s.Message)
		if s.Replacement != "" {
			fmt.Fprintf(&b, "%s %s\n", pad, bar)
			text := strings.ReplaceAll(s.Replacement, "\n", "\n"+pad+" "+bar+" ")
			fmt.Fprintf(&b, "%s %s %s\n", pad, cyan("│"), cyan(text))
		}
	}

	for _, note := range err.Notes {
		fmt.Fprintf(&b, "%s %s %s %s\n", pad, bar, blue("note:"), note)
	}
	if err.HelpText != "" {
		fmt.Fprintf(&b, "%s %s %s %s\n", pad, bar, green("help:"), err.HelpText)
	}

	b.WriteString("\n")
	return b.String()
}

// createMarker underlines length columns starting at column.
func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	length = max(length, 1)
	return strings.Repeat(" ", max(0, column-1)) + levelColor(level).Sprint(strings.Repeat("^", length))
}
