// Package schedule assigns captured statements to numbered batches so that no
// two statements in a batch have a data dependency through a variable.
package schedule

import (
	"slices"

	"github.com/tliron/commonlog"
	"ladders/internal/access"
)

var log = commonlog.GetLogger("ladders.schedule")

// Options selects how clocks settle after a statement is placed. Strict
// settling (ShareReads false) is the plain rule: every clock the statement
// touched becomes its batch number, so clocks stay integral and readers of
// one variable run in successive batches.
type Options struct {
	// ShareReads settles variables a statement only read half a step below
	// its batch, so a later reader joins the same batch while a later writer
	// still lands after it. When false every touched variable settles to the
	// batch itself.
	ShareReads bool
}

func DefaultOptions() Options {
	return Options{ShareReads: true}
}

// Placement is the outcome of scheduling one statement.
type Placement struct {
	Index   int
	Hoisted bool // declaration moved before every batch
	Batch   int  // valid when !Hoisted
	// Fallback is set when the statement touched no variable and was placed
	// by the highest clock instead.
	Fallback bool
}

// Result collects the placements of a whole entry body.
type Result struct {
	Declarations []int
	Batches      map[int][]int
	Placements   []Placement
}

func newResult() *Result {
	return &Result{Batches: make(map[int][]int)}
}

// BatchNumbers returns the batch numbers in ascending order.
func (r *Result) BatchNumbers() []int {
	numbers := make([]int, 0, len(r.Batches))
	for n := range r.Batches {
		numbers = append(numbers, n)
	}
	slices.Sort(numbers)
	return numbers
}

// PlacementOf returns the placement of the statement with the given index.
func (r *Result) PlacementOf(index int) (Placement, bool) {
	for _, p := range r.Placements {
		if p.Index == index {
			return p, true
		}
	}
	return Placement{}, false
}

// Scheduler owns the clock table for one program.
type Scheduler struct {
	opts   Options
	clocks *ClockTable
	result *Result
}

func New(opts Options) *Scheduler {
	return &Scheduler{
		opts:   opts,
		clocks: NewClockTable(),
		result: newResult(),
	}
}

// Declare seeds the clocks of top-level declared variables.
func (s *Scheduler) Declare(names ...string) {
	for _, name := range names {
		s.clocks.Declare(name)
	}
}

func (s *Scheduler) Clocks() *ClockTable {
	return s.clocks
}

func (s *Scheduler) Result() *Result {
	return s.result
}

// Schedule places one statement. Statements must arrive in program order.
func (s *Scheduler) Schedule(index int, set *access.Set) Placement {
	var p Placement
	switch {
	case set.Empty():
		p = s.fallback(index)
	default:
		if _, ok := set.Declares(); ok {
			s.result.Declarations = append(s.result.Declarations, index)
			p = Placement{Index: index, Hoisted: true}
		} else {
			p = s.place(index, set)
		}
	}
	s.result.Placements = append(s.result.Placements, p)

	if p.Hoisted {
		log.Debugf("statement %d hoisted, clocks %s", index, s.clocks)
	} else {
		log.Debugf("statement %d -> batch %d, clocks %s", index, p.Batch, s.clocks)
	}
	return p
}

func (s *Scheduler) fallback(index int) Placement {
	batch, ok := s.clocks.Ceiling()
	if !ok || batch < 0 {
		batch = 0
	}
	s.result.Batches[batch] = append(s.result.Batches[batch], index)
	return Placement{Index: index, Batch: batch, Fallback: true}
}

func (s *Scheduler) place(index int, set *access.Set) Placement {
	maxn := 0
	for _, a := range set.All() {
		contribution, _ := s.clocks.Update(a.Name, a.Kind)
		maxn = max(maxn, contribution)
	}
	for _, a := range set.All() {
		value := float64(maxn)
		if s.opts.ShareReads && !a.Kind.Writes() {
			value -= 0.5
		}
		s.clocks.Settle(a.Name, value)
	}
	s.result.Batches[maxn] = append(s.result.Batches[maxn], index)
	return Placement{Index: index, Batch: maxn}
}

// Run schedules a whole program. Variables with a top-level declaration are
// seeded before the first statement.
func Run(sets []*access.Set, opts Options) *Result {
	s := New(opts)
	for _, set := range sets {
		if decl, ok := set.Declares(); ok {
			s.Declare(decl.Name)
		}
	}
	for i, set := range sets {
		s.Schedule(i, set)
	}
	return s.Result()
}
