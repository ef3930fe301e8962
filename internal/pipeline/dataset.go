package pipeline

import (
	"github.com/go-gota/gota/dataframe"
)

// Dataset is the handle passed between stages. The frame is owned by the
// dataframe engine; stages only call its operations and wrap the result in a
// new handle with With, never mutating the handle they were given.
type Dataset struct {
	frame  dataframe.DataFrame
	tables []namedTable
	counts map[string]float64
}

type namedTable struct {
	name  string
	frame dataframe.DataFrame
}

// NewDataset wraps a frame in a fresh handle.
func NewDataset(df dataframe.DataFrame) *Dataset {
	return &Dataset{
		frame:  df,
		counts: make(map[string]float64),
	}
}

// Frame returns the primary table.
func (d *Dataset) Frame() dataframe.DataFrame {
	return d.frame
}

// Rows returns the number of rows in the primary table.
func (d *Dataset) Rows() int {
	return d.frame.Nrow()
}

// Columns returns the column names of the primary table.
func (d *Dataset) Columns() []string {
	return d.frame.Names()
}

// HasColumn reports whether the primary table has the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.frame.Names() {
		if c == name {
			return true
		}
	}
	return false
}

// With returns a new handle over df carrying copies of the side tables and
// counts gathered so far.
func (d *Dataset) With(df dataframe.DataFrame) *Dataset {
	next := &Dataset{
		frame:  df,
		tables: make([]namedTable, len(d.tables)),
		counts: make(map[string]float64, len(d.counts)),
	}
	copy(next.tables, d.tables)
	for k, v := range d.counts {
		next.counts[k] = v
	}
	return next
}

// SetTable stores a named side table, replacing any table with the same name.
func (d *Dataset) SetTable(name string, df dataframe.DataFrame) {
	for i := range d.tables {
		if d.tables[i].name == name {
			d.tables[i].frame = df
			return
		}
	}
	d.tables = append(d.tables, namedTable{name: name, frame: df})
}

// Table returns a side table by name.
func (d *Dataset) Table(name string) (dataframe.DataFrame, bool) {
	for _, t := range d.tables {
		if t.name == name {
			return t.frame, true
		}
	}
	return dataframe.DataFrame{}, false
}

// TableNames lists side tables in insertion order.
func (d *Dataset) TableNames() []string {
	names := make([]string, len(d.tables))
	for i, t := range d.tables {
		names[i] = t.name
	}
	return names
}

// SetCount records a derived scalar produced by a stage.
func (d *Dataset) SetCount(name string, v float64) {
	d.counts[name] = v
}

// Counts returns a copy of the derived scalars.
func (d *Dataset) Counts() map[string]float64 {
	out := make(map[string]float64, len(d.counts))
	for k, v := range d.counts {
		out[k] = v
	}
	return out
}
