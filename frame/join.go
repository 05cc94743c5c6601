package frame

import (
	"sort"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
	"github.com/cchayden/xpatterns-xframe/rdd"
	"github.com/cchayden/xpatterns-xframe/schema"
)

// JoinMode selects how unmatched rows are treated by Join
type JoinMode int

const (
	// InnerJoin keeps only rows with a match on both sides
	InnerJoin JoinMode = iota
	// LeftJoin keeps every left row, null-filling the right side of
	// unmatched rows
	LeftJoin
	// RightJoin keeps every right row, null-filling the left side of
	// unmatched rows
	RightJoin
	// OuterJoin keeps every row from both sides: the union of the left
	// join rows and the unmatched right rows
	OuterJoin
)

// Join merges this (left) Frame with another (right) Frame by equality
// on the given key columns, given as a left-name to right-name mapping.
// The right side's key columns are dropped from its payload so the
// result holds each key once; remaining right column names that collide
// with left names are suffixed. A row with no match on the other side
// has that side's payload replaced with nulls. An empty key mapping
// fails with InvalidJoinError.
func (f *Frame) Join(right *Frame, mode JoinMode, joinKeys map[string]string) (*Frame, error) {
	if len(joinKeys) == 0 {
		return nil, errors.InvalidJoinError{Message: "empty join key set"}
	}

	// fix the key order by sorting the left-side names
	leftKeyNames := make([]string, 0, len(joinKeys))
	for name := range joinKeys {
		leftKeyNames = append(leftKeyNames, name)
	}
	sort.Strings(leftKeyNames)

	leftKeyIdxs := make([]int, len(leftKeyNames))
	rightKeyIdxs := make([]int, len(leftKeyNames))
	for i, name := range leftKeyNames {
		li, err := f.schema.IndexOf(name)
		if err != nil {
			return nil, err
		}
		ri, err := right.schema.IndexOf(joinKeys[name])
		if err != nil {
			return nil, err
		}
		leftKeyIdxs[i] = li
		rightKeyIdxs[i] = ri
	}

	// right payload drops the consumed key columns, popping from the
	// highest index down
	dropIdxs := append([]int(nil), rightKeyIdxs...)
	sort.Sort(sort.Reverse(sort.IntSlice(dropIdxs)))
	rightNames := right.schema.ColumnNames()
	rightTypes := right.schema.ColumnTypes()
	for _, idx := range dropIdxs {
		rightNames = append(rightNames[:idx], rightNames[idx+1:]...)
		rightTypes = append(rightTypes[:idx], rightTypes[idx+1:]...)
	}

	outNames := f.schema.ColumnNames()
	outTypes := f.schema.ColumnTypes()
	for i, name := range rightNames {
		outNames = append(outNames, schema.UniqueName(outNames, name))
		outTypes = append(outTypes, rightTypes[i])
	}
	sch, err := schema.CreateSchema(outNames, outTypes)
	if err != nil {
		return nil, err
	}
	leftWidth := f.schema.NumColumns()
	rightWidth := len(rightNames)

	keyedLeft := f.rows.KeyBy(encodeKeyAt(leftKeyIdxs))
	keyedRight := right.rows.KeyBy(encodeKeyAt(rightKeyIdxs))

	var joined *rdd.Dataset
	switch mode {
	case InnerJoin:
		joined = keyedLeft.Join(keyedRight)
	case LeftJoin:
		joined = keyedLeft.LeftOuterJoin(keyedRight)
	case RightJoin:
		joined = keyedLeft.RightOuterJoin(keyedRight)
	case OuterJoin:
		joined = keyedLeft.FullOuterJoin(keyedRight)
	default:
		return nil, errors.InvalidJoinError{Message: "unknown join mode"}
	}

	rows := joined.Map(func(el interface{}) (interface{}, error) {
		j := el.(*rdd.Joined)
		var rightKeys, rightPayload xframe.Row
		if j.HasRight {
			rrow := j.Right.(xframe.Row)
			rightKeys = make(xframe.Row, len(rightKeyIdxs))
			for i, idx := range rightKeyIdxs {
				rightKeys[i] = rrow[idx]
			}
			rightPayload = rrow.Clone()
			for _, idx := range dropIdxs {
				rightPayload = append(rightPayload[:idx], rightPayload[idx+1:]...)
			}
		}
		out := make(xframe.Row, 0, leftWidth+rightWidth)
		if j.HasLeft {
			out = append(out, j.Left.(xframe.Row)...)
		} else {
			// a right-only row still carries the key values, in the
			// left side's key positions
			left := nullRow(leftWidth)
			for i, idx := range leftKeyIdxs {
				left[idx] = rightKeys[i]
			}
			out = append(out, left...)
		}
		if j.HasRight {
			out = append(out, rightPayload...)
		} else {
			out = append(out, nullRow(rightWidth)...)
		}
		return out, nil
	})
	return f.derive(rows, sch), nil
}

func encodeKeyAt(idxs []int) func(interface{}) (string, error) {
	return func(el interface{}) (string, error) {
		row := el.(xframe.Row)
		key := make(xframe.Key, len(idxs))
		for i, idx := range idxs {
			key[i] = row[idx]
		}
		return key.Encode()
	}
}

func nullRow(width int) xframe.Row {
	return make(xframe.Row, width)
}
