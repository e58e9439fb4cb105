package dataset

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
)

// View is an ordered selection of records from a Table. It holds row
// indices only; the underlying table is shared and never copied.
type View struct {
	table *Table
	idx   []int
}

// Select builds a view from row indices into t. The slice is copied.
func (t *Table) Select(idx []int) View {
	cp := make([]int, len(idx))
	copy(cp, idx)
	return View{table: t, idx: cp}
}

// Where returns the records of t matching keep, in source order.
func (t *Table) Where(keep func(Record) bool) View {
	idx := make([]int, 0)
	for i, r := range t.records {
		if keep(r) {
			idx = append(idx, i)
		}
	}
	return View{table: t, idx: idx}
}

// Table returns the table the view selects from.
func (v View) Table() *Table { return v.table }

// Len returns the number of selected records.
func (v View) Len() int { return len(v.idx) }

// Empty reports whether the view selects nothing.
func (v View) Empty() bool { return len(v.idx) == 0 }

// At returns the i-th selected record.
func (v View) At(i int) Record { return v.table.records[v.idx[i]] }

// Records copies the selected records out in view order.
func (v View) Records() []Record {
	out := make([]Record, len(v.idx))
	for i, j := range v.idx {
		out[i] = v.table.records[j]
	}
	return out
}

// Indices returns a copy of the selected row indices.
func (v View) Indices() []int {
	cp := make([]int, len(v.idx))
	copy(cp, v.idx)
	return cp
}

// Head returns the first n records of the view (fewer if the view is shorter).
func (v View) Head(n int) View {
	if n > len(v.idx) {
		n = len(v.idx)
	}
	if n < 0 {
		n = 0
	}
	return View{table: v.table, idx: v.idx[:n:n]}
}

// SortStable returns a new view ordered by less; ties keep their current order.
func (v View) SortStable(less func(a, b Record) bool) View {
	idx := v.Indices()
	recs := v.table.records
	sort.SliceStable(idx, func(i, j int) bool { return less(recs[idx[i]], recs[idx[j]]) })
	return View{table: v.table, idx: idx}
}

// Frame materializes the view as a dataframe in view order. With no columns
// every enriched column is included.
func (v View) Frame(cols ...string) (dataframe.DataFrame, error) {
	if v.table == nil {
		return dataframe.DataFrame{}, fmt.Errorf("view has no table")
	}
	df := v.table.frame.Subset(v.Indices())
	if len(cols) > 0 {
		df = df.Select(cols)
	}
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("materialize view: %w", df.Err)
	}
	return df, nil
}
