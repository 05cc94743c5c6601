package frame

import (
	"fmt"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
)

// Sort orders the rows by the given columns, honoring each column's
// ascending flag. Only string, integer and float columns form a total
// order; sorting on a list or mapping column is rejected. Applying the
// same sort twice yields the same order as once.
func (f *Frame) Sort(columns []string, ascending []bool) (*Frame, error) {
	if len(columns) != len(ascending) {
		return nil, errors.SchemaMismatchError{
			Message: fmt.Sprintf("%d sort columns but %d direction flags", len(columns), len(ascending)),
		}
	}
	idxs := make([]int, len(columns))
	types := f.schema.ColumnTypes()
	for i, name := range columns {
		idx, err := f.schema.IndexOf(name)
		if err != nil {
			return nil, err
		}
		if !types[idx].IsSortable() {
			return nil, errors.SchemaMismatchError{
				Message: fmt.Sprintf("cannot sort on %s column %s", types[idx], name),
			}
		}
		idxs[i] = idx
	}
	cmp, err := xframe.NewRowComparator(idxs, ascending)
	if err != nil {
		return nil, err
	}
	sorted := f.rows.SortBy(func(a, b interface{}) bool {
		return cmp.Less(a.(xframe.Row), b.(xframe.Row))
	})
	return f.derive(sorted, f.schema.Clone()), nil
}
