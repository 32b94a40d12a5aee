package table

import (
	"sort"
	"strings"

	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
	"github.com/komsit37/stockdash/pkg/stockdash/types"
)

// Sorter holds the sort state driven by header clicks.
type Sorter struct {
	spec types.SortSpec
}

func NewSorter() *Sorter { return &Sorter{} }

// Click applies a header click: the same column flips direction, a different
// column becomes the sort column in ascending order.
func (s *Sorter) Click(column string) error {
	if !metrics.Known(column) {
		return &metrics.ConfigurationError{Op: "sort", Kind: "metric", Key: column}
	}
	if s.spec.Column == column {
		s.spec.Direction = s.spec.Direction.Toggle()
		return nil
	}
	s.spec = types.SortSpec{Column: column, Direction: types.Ascending}
	return nil
}

func (s *Sorter) Spec() types.SortSpec { return s.spec }

// Reset clears the sort column so records keep their fetched order.
func (s *Sorter) Reset() { s.spec = types.SortSpec{} }

// SortRecords returns a stably sorted copy of records.
// Nulls sort last in either direction. Numbers order before strings; numbers
// compare numerically and strings lexically.
func SortRecords(records []types.Record, spec types.SortSpec) []types.Record {
	out := append([]types.Record(nil), records...)
	if spec.Column == "" {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Get(spec.Column), out[j].Get(spec.Column)
		switch {
		case a.IsNull():
			return false
		case b.IsNull():
			return true
		}
		c := compareValues(a, b)
		if spec.Direction == types.Descending {
			c = -c
		}
		return c < 0
	})
	return out
}

func compareValues(a, b types.Value) int {
	af, aNum := a.Float()
	bf, bNum := b.Float()
	switch {
	case aNum && bNum:
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	as, _ := a.Text()
	bs, _ := b.Text()
	return strings.Compare(as, bs)
}
