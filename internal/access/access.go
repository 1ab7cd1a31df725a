// Package access classifies how each captured statement touches variables.
package access

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Kind is the way a statement touches a variable.
type Kind int

const (
	Declaration Kind = iota
	Read
	Write
	ReadWrite
)

func (k Kind) String() string {
	switch k {
	case Declaration:
		return "decl"
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "readwrite"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Writes reports whether the access takes the write path in the clock table.
func (k Kind) Writes() bool {
	return k == Write || k == ReadWrite
}

// merge combines two accesses to the same name within one statement.
// Declaration absorbs everything and any write dominates a read.
func merge(a, b Kind) Kind {
	switch {
	case a == Declaration || b == Declaration:
		return Declaration
	case a == b:
		return a
	default:
		return ReadWrite
	}
}

// Access is one variable touched by a statement.
type Access struct {
	Name string
	Kind Kind
	Pos  lexer.Position // first occurrence
}

func (a Access) String() string {
	return a.Name + ":" + a.Kind.String()
}

// Set holds one Access per distinct name, ordered by first occurrence.
type Set struct {
	accesses []Access
	index    map[string]int
}

func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Add records an occurrence. A repeated name keeps its first position and
// merges the kind.
func (s *Set) Add(name string, kind Kind, pos lexer.Position) {
	if i, ok := s.index[name]; ok {
		s.accesses[i].Kind = merge(s.accesses[i].Kind, kind)
		return
	}
	s.index[name] = len(s.accesses)
	s.accesses = append(s.accesses, Access{Name: name, Kind: kind, Pos: pos})
}

func (s *Set) Len() int {
	return len(s.accesses)
}

func (s *Set) Empty() bool {
	return len(s.accesses) == 0
}

// All returns the accesses in insertion order.
func (s *Set) All() []Access {
	return s.accesses
}

func (s *Set) Get(name string) (Access, bool) {
	i, ok := s.index[name]
	if !ok {
		return Access{}, false
	}
	return s.accesses[i], true
}

func (s *Set) Names() []string {
	names := make([]string, len(s.accesses))
	for i, a := range s.accesses {
		names[i] = a.Name
	}
	return names
}

// Declares returns the first Declaration access, if any.
func (s *Set) Declares() (Access, bool) {
	for _, a := range s.accesses {
		if a.Kind == Declaration {
			return a, true
		}
	}
	return Access{}, false
}

func (s *Set) String() string {
	parts := make([]string, len(s.accesses))
	for i, a := range s.accesses {
		parts[i] = a.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// without returns a copy of s minus the names in drop, keeping Declaration
// entries.
func (s *Set) without(drop map[string]bool) *Set {
	out := NewSet()
	for _, a := range s.accesses {
		if a.Kind != Declaration && drop[a.Name] {
			continue
		}
		out.Add(a.Name, a.Kind, a.Pos)
	}
	return out
}
