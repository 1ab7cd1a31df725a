package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"ladders/internal/access"
)

func TestClockTableUpdate(t *testing.T) {
	tests := []struct {
		name         string
		start        float64
		kind         access.Kind
		contribution int
		after        float64
	}{
		{"write unseen", Unseen, access.Write, 0, 0},
		{"write settled", 2, access.Write, 3, 3},
		{"write after pending read", 0.5, access.Write, 2, 2},
		{"readwrite takes write path", 1, access.ReadWrite, 2, 2},
		{"read unseen", Unseen, access.Read, 0, -0.5},
		{"read settled", 0, access.Read, 1, 0.5},
		{"read after pending read", 0.5, access.Read, 1, 0.5},
		{"read after shared read marker", 1.5, access.Read, 2, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewClockTable()
			table.Settle("x", tt.start)

			contribution, declared := table.Update("x", tt.kind)
			assert.False(t, declared)
			assert.Equal(t, tt.contribution, contribution)
			assert.Equal(t, tt.after, table.Get("x"))
		})
	}
}

func TestClockTableDeclaration(t *testing.T) {
	table := NewClockTable()
	table.Settle("x", 3)

	_, declared := table.Update("x", access.Declaration)
	assert.True(t, declared)
	assert.Equal(t, 3.0, table.Get("x"))

	_, declared = table.Update("fresh", access.Declaration)
	assert.True(t, declared)
	assert.Equal(t, 1, table.Len())
}

func TestClockTableDeclareKeepsExisting(t *testing.T) {
	table := NewClockTable()
	table.Declare("x")
	assert.Equal(t, Unseen, table.Get("x"))

	table.Settle("x", 2)
	table.Declare("x")
	assert.Equal(t, 2.0, table.Get("x"))
}

func TestClockTableCeiling(t *testing.T) {
	table := NewClockTable()
	_, ok := table.Ceiling()
	assert.False(t, ok)

	table.Declare("a")
	c, ok := table.Ceiling()
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	table.Settle("b", 1.5)
	table.Settle("c", 1)
	c, _ = table.Ceiling()
	assert.Equal(t, 2, c)
}

func TestClockTableString(t *testing.T) {
	table := NewClockTable()
	table.Settle("y", 1)
	table.Settle("x", 0.5)
	assert.Equal(t, "{x=0.5 y=1}", table.String())
}
