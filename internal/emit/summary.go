package emit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"ladders/internal/program"
	"ladders/internal/schedule"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	headingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	indexStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	statementText = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	batchBox      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4CAF50")).
			Padding(0, 1)
)

// Summary renders the schedule for a terminal: hoisted declarations first,
// then one bordered box per batch listing its statements.
func Summary(unit *program.Unit, result *schedule.Result) string {
	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s: %d statements, %d batches",
		unit.EntryName(), len(unit.Statements), len(result.Batches))))

	if len(result.Declarations) > 0 {
		sections = append(sections, batchBox.Render(
			headingStyle.Render("hoisted")+"\n"+statementLines(unit, result.Declarations)))
	}
	for _, n := range result.BatchNumbers() {
		sections = append(sections, batchBox.Render(
			headingStyle.Render(fmt.Sprintf("batch %d", n))+"\n"+statementLines(unit, result.Batches[n])))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func statementLines(unit *program.Unit, indices []int) string {
	lines := make([]string, 0, len(indices))
	for _, i := range indices {
		text := unit.Statements[i].Text
		if first, _, found := strings.Cut(text, "\n"); found {
			text = first + " ..."
		}
		lines = append(lines, indexStyle.Render(fmt.Sprintf("%3d", i))+" "+statementText.Render(text))
	}
	return strings.Join(lines, "\n")
}
