package emit

import "strings"

func countLines(s, line string) int {
	n := 0
	for _, l := range strings.Split(s, "\n") {
		if l == line {
			n++
		}
	}
	return n
}

func indexOf(s, sub string) int {
	return strings.Index(s, sub)
}
