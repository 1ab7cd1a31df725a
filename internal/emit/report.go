package emit

import (
	"fmt"
	"strconv"
	"strings"

	"ladders/internal/schedule"
)

// Report renders the plain-text schedule written to the .sched file.
func Report(result *schedule.Result) string {
	var b strings.Builder
	b.WriteString("Declarations:\n")
	b.WriteString(joinIndices(result.Declarations))
	b.WriteString("\n\nSchedule:\n")
	for _, n := range result.BatchNumbers() {
		fmt.Fprintf(&b, "batch %d : %s\n", n, joinIndices(result.Batches[n]))
	}
	return b.String()
}

func joinIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ", ")
}
