package schedule

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"ladders/internal/access"
)

// Unseen is the clock of a variable no statement has touched yet.
const Unseen = -1.0

// ClockTable tracks one logical clock per variable. Values are always
// multiples of 0.5: an integer clock means the variable was last settled at
// that batch, a half value marks a read pending at the batch below.
type ClockTable struct {
	clocks map[string]float64
}

func NewClockTable() *ClockTable {
	return &ClockTable{clocks: make(map[string]float64)}
}

// Declare seeds name at Unseen unless it already has a clock.
func (t *ClockTable) Declare(name string) {
	if _, ok := t.clocks[name]; !ok {
		t.clocks[name] = Unseen
	}
}

// Get returns the clock of name, Unseen for unknown names.
func (t *ClockTable) Get(name string) float64 {
	if c, ok := t.clocks[name]; ok {
		return c
	}
	return Unseen
}

func (t *ClockTable) Len() int {
	return len(t.clocks)
}

// Update advances the clock of name for one access and returns the earliest
// batch the access allows. A Declaration leaves the table untouched and
// reports declared so the caller can stop scanning.
func (t *ClockTable) Update(name string, kind access.Kind) (contribution int, declared bool) {
	if kind == access.Declaration {
		return 0, true
	}
	c := t.Get(name)
	if kind.Writes() {
		c = math.Ceil(c + 1)
		t.clocks[name] = c
		return int(math.Floor(c)), false
	}
	c = math.Floor(c)
	contribution = int(c) + 1
	t.clocks[name] = c + 0.5
	return contribution, false
}

// Settle overwrites the clock of name.
func (t *ClockTable) Settle(name string, value float64) {
	t.clocks[name] = value
}

// Ceiling returns ceil of the largest clock, or false when the table is
// empty.
func (t *ClockTable) Ceiling() (int, bool) {
	if len(t.clocks) == 0 {
		return 0, false
	}
	highest := math.Inf(-1)
	for _, c := range t.clocks {
		highest = math.Max(highest, c)
	}
	return int(math.Ceil(highest)), true
}

// String lists the clocks sorted by name.
func (t *ClockTable) String() string {
	names := make([]string, 0, len(t.clocks))
	for name := range t.clocks {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, t.clocks[name])
	}
	return "{" + strings.Join(parts, " ") + "}"
}
