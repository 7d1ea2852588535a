// Package table provides the tabular record every data adapter and the
// financials aggregator traffic in: a wide record with string-keyed
// columns, an optional row-label index, and cells that are missing-aware.
package table

import (
	"fmt"
	"sort"

	"equitydash/internal/errors"
)

// Record is a column-major table. Columns keep insertion order; rows are
// addressed by position, optionally labeled by an index. Appending a row
// with unseen columns widens the record (column-union semantics), and
// cells absent from a row are missing, never zero.
type Record struct {
	indexName string
	index     []string
	columns   []string
	cells     map[string][]Value
	rows      int
	key       []string
}

// New creates an empty record with the given columns.
func New(columns ...string) *Record {
	r := &Record{
		columns: append([]string(nil), columns...),
		cells:   make(map[string][]Value, len(columns)),
	}
	for _, c := range r.columns {
		r.cells[c] = nil
	}
	return r
}

// NumRows returns the number of rows.
func (r *Record) NumRows() int {
	return r.rows
}

// Columns returns the column names in order.
func (r *Record) Columns() []string {
	return append([]string(nil), r.columns...)
}

// HasColumn reports whether the record has the named column.
func (r *Record) HasColumn(name string) bool {
	_, ok := r.cells[name]
	return ok
}

// Column returns the named column's cells, one per row. A missing column
// is a MissingColumnError, the absence convention consumers test for.
func (r *Record) Column(name string) ([]Value, error) {
	col, ok := r.cells[name]
	if !ok {
		return nil, errors.NewMissingColumnError(name)
	}
	out := make([]Value, r.rows)
	copy(out, col)
	return out, nil
}

// Cell returns the cell at (row, column). Out-of-range rows and unknown
// columns are missing.
func (r *Record) Cell(row int, column string) Value {
	if row < 0 || row >= r.rows {
		return Missing()
	}
	col, ok := r.cells[column]
	if !ok || row >= len(col) {
		return Missing()
	}
	return col[row]
}

// Row returns the cells of one row keyed by column name. Missing cells
// are omitted.
func (r *Record) Row(row int) map[string]Value {
	out := make(map[string]Value, len(r.columns))
	for _, c := range r.columns {
		if v := r.Cell(row, c); !v.IsMissing() {
			out[c] = v
		}
	}
	return out
}

// AppendRow appends one row. Columns not yet present are added (sorted
// among themselves so output is deterministic) and back-filled missing;
// existing columns absent from the row get a missing cell.
func (r *Record) AppendRow(row map[string]Value) {
	var fresh []string
	for c := range row {
		if _, ok := r.cells[c]; !ok {
			fresh = append(fresh, c)
		}
	}
	sort.Strings(fresh)
	for _, c := range fresh {
		r.columns = append(r.columns, c)
		r.cells[c] = makeMissing(r.rows)
	}
	for _, c := range r.columns {
		r.cells[c] = append(r.cells[c], row[c])
	}
	if r.index != nil {
		r.index = append(r.index, "")
	}
	r.rows++
}

// AppendColumn adds a full column. The value count must match the row
// count exactly.
func (r *Record) AppendColumn(name string, values []Value) error {
	if len(values) != r.rows {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), r.rows)
	}
	if _, ok := r.cells[name]; !ok {
		r.columns = append(r.columns, name)
	}
	r.cells[name] = append([]Value(nil), values...)
	return nil
}

// SetIndex labels the rows. The label count must match the row count.
func (r *Record) SetIndex(name string, labels []string) error {
	if len(labels) != r.rows {
		return fmt.Errorf("index %q has %d labels for %d rows", name, len(labels), r.rows)
	}
	r.indexName = name
	r.index = append(make([]string, 0, len(labels)), labels...)
	return nil
}

// Index returns the row labels, or nil when the record is unlabeled.
func (r *Record) Index() []string {
	return append([]string(nil), r.index...)
}

// IndexName returns the name of the row index.
func (r *Record) IndexName() string {
	return r.indexName
}

// SetKey marks the named columns as the record's composite key. The key
// is descriptive: it is carried on the record for consumers, not
// enforced as a uniqueness constraint.
func (r *Record) SetKey(columns ...string) {
	r.key = append([]string(nil), columns...)
}

// Key returns the record's key columns, if any.
func (r *Record) Key() []string {
	return append([]string(nil), r.key...)
}

// Transpose swaps rows and columns: row labels become column names and
// column names become row labels. The record must be indexed.
func (r *Record) Transpose() (*Record, error) {
	if r.index == nil {
		return nil, errors.ErrNoIndex
	}
	out := New(r.index...)
	labels := make([]string, 0, len(r.columns))
	for _, c := range r.columns {
		row := make(map[string]Value, r.rows)
		for i, label := range r.index {
			if v := r.Cell(i, c); !v.IsMissing() {
				row[label] = v
			}
		}
		out.AppendRow(row)
		labels = append(labels, c)
	}
	_ = out.SetIndex(r.indexName, labels)
	return out, nil
}

// ResetIndex demotes the row index into a leading data column with the
// given name and leaves the record unlabeled, mirroring the promotion of
// a date index into an explicit Date column.
func (r *Record) ResetIndex(name string) (*Record, error) {
	if r.index == nil {
		return nil, errors.ErrNoIndex
	}
	out := New(append([]string{name}, r.columns...)...)
	for i := range r.index {
		row := map[string]Value{name: String(r.index[i])}
		for _, c := range r.columns {
			if v := r.Cell(i, c); !v.IsMissing() {
				row[c] = v
			}
		}
		out.AppendRow(row)
	}
	return out, nil
}

// SortBy reorders rows ascending by the named column's display value
// (ISO dates sort correctly under this ordering). The sort is stable, so
// rows sharing a value keep their relative order. Missing cells sort
// last.
func (r *Record) SortBy(column string) (*Record, error) {
	col, err := r.Column(column)
	if err != nil {
		return nil, err
	}
	order := make([]int, r.rows)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := col[order[a]], col[order[b]]
		if va.IsMissing() != vb.IsMissing() {
			return vb.IsMissing()
		}
		return va.String() < vb.String()
	})
	out := New(r.columns...)
	for _, i := range order {
		out.AppendRow(r.Row(i))
	}
	out.key = append([]string(nil), r.key...)
	return out, nil
}

// Concat concatenates records row-wise with column-union semantics and a
// reset row index. When every input is indexed the labels are carried
// through; otherwise the result is unlabeled.
func Concat(records ...*Record) *Record {
	out := New()
	keepIndex := len(records) > 0
	indexName := ""
	var labels []string
	for _, rec := range records {
		if rec.index == nil {
			keepIndex = false
		}
	}
	for _, rec := range records {
		for i := 0; i < rec.rows; i++ {
			out.AppendRow(rec.Row(i))
		}
		if keepIndex {
			labels = append(labels, rec.index...)
			if indexName == "" {
				indexName = rec.indexName
			}
		}
	}
	if keepIndex && len(labels) == out.rows {
		_ = out.SetIndex(indexName, labels)
	}
	return out
}

func makeMissing(n int) []Value {
	col := make([]Value, n)
	return col
}
