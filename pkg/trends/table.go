package trends

import (
	"fmt"
	"time"
)

// Table is a time-indexed set of named value columns
type Table struct {
	index   []time.Time
	columns map[string][]float64
	order   []string
}

// NewTable creates an empty table over the given time index
func NewTable(index []time.Time) *Table {
	idx := make([]time.Time, len(index))
	copy(idx, index)
	return &Table{
		index:   idx,
		columns: make(map[string][]float64),
	}
}

// AddColumn attaches a column. The first column registered under a name wins.
func (t *Table) AddColumn(name string, values []float64) error {
	if len(values) != len(t.index) {
		return fmt.Errorf("column %q has %d values, index has %d rows", name, len(values), len(t.index))
	}
	if _, exists := t.columns[name]; exists {
		return nil
	}
	col := make([]float64, len(values))
	copy(col, values)
	t.columns[name] = col
	t.order = append(t.order, name)
	return nil
}

// HasColumn reports whether the table holds a column for name
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.columns[name]
	return ok
}

// Column returns the column's points in row order, or nil if absent
func (t *Table) Column(name string) []Point {
	if !t.HasColumn(name) {
		return nil
	}
	values := t.columns[name]
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{Time: t.index[i], Value: v}
	}
	return points
}

// Columns returns column names in registration order
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.index)
}
