// Package table projects records onto the visible, sorted stats table.
package table

import (
	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
	"github.com/komsit37/stockdash/pkg/stockdash/visibility"
)

// ActionKey is the trailing column that removes a record.
const (
	ActionKey    = "action"
	ActionHeader = "Action"
	ActionText   = "delete"
)

type Column struct {
	Key    string
	Header string
}

type Cell struct {
	Key   string
	Value types.Value
	Text  string
}

type Row struct {
	ID    int64
	Code  string
	Cells []Cell
}

// Table is the rendered projection: visible columns in fixed order followed
// by the action column.
type Table struct {
	Columns []Column
	Rows    []Row
}

// Project sorts records by spec and keeps only the keys of order that are
// visible in state. Every key of order and the sort column must have an entry
// in state.
func Project(records []types.Record, state visibility.State, spec types.SortSpec, order []string) (Table, error) {
	cols := make([]string, 0, len(order))
	for _, k := range order {
		v, ok := state.Lookup(k)
		if !ok {
			return Table{}, &metrics.ConfigurationError{Op: "project", Kind: "metric", Key: k}
		}
		if v {
			cols = append(cols, k)
		}
	}
	if spec.Column != "" {
		if _, ok := state.Lookup(spec.Column); !ok {
			return Table{}, &metrics.ConfigurationError{Op: "project sort", Kind: "metric", Key: spec.Column}
		}
	}

	t := Table{Columns: make([]Column, 0, len(cols)+1)}
	for _, k := range cols {
		t.Columns = append(t.Columns, Column{Key: k, Header: metrics.Header(k)})
	}
	t.Columns = append(t.Columns, Column{Key: ActionKey, Header: ActionHeader})

	sorted := SortRecords(records, spec)
	t.Rows = make([]Row, 0, len(sorted))
	for _, rec := range sorted {
		row := Row{ID: rec.ID, Code: rec.Code(), Cells: make([]Cell, 0, len(cols)+1)}
		for _, k := range cols {
			v := rec.Get(k)
			row.Cells = append(row.Cells, Cell{Key: k, Value: v, Text: metrics.Format(k, v)})
		}
		row.Cells = append(row.Cells, Cell{Key: ActionKey, Value: types.String(ActionText), Text: ActionText})
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Keys returns the column keys of t, action column included.
func (t Table) Keys() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Key
	}
	return out
}
