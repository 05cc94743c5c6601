// Package aggregate defines the closed set of group aggregation
// operators. Each operator carries a pure function from a group's rows
// and resolved source column indexes to one output value, a default
// output column name, and an output-type rule (a fixed type, or the
// type of a designated input column). The operator set is a static
// enum; there is no runtime registration.
package aggregate

import (
	"fmt"
	"math"
	"math/rand"

	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/errors"
)

// Op identifies one aggregation operator
type Op int

const (
	// Sum adds the values of the source column
	Sum Op = iota
	// Min takes the smallest value of the source column
	Min
	// Max takes the largest value of the source column
	Max
	// Argmin takes the value of the second source column on the row
	// where the first source column is smallest
	Argmin
	// Argmax takes the value of the second source column on the row
	// where the first source column is largest
	Argmax
	// Count counts the rows of the group
	Count
	// Avg averages the values of the source column
	Avg
	// Mean is Avg under its other name
	Mean
	// Var computes the population variance of the source column
	Var
	// Variance is Var under its other name
	Variance
	// Std computes the population standard deviation of the source column
	Std
	// Stdv is Std under its other name
	Stdv
	// SelectOne picks one value of the source column using a seeded draw
	SelectOne
	// ConcatList collects the values of the source column into a list
	ConcatList
	// ConcatDict collects (first column, second column) pairs into a mapping
	ConcatDict
	// Quantile is a known gap: it is declared but unimplemented and
	// fails loudly when applied
	Quantile
)

type typeRule struct {
	fromInput int // source column position to copy the type from, or -1
	fixed     xframe.ColumnType
}

type descriptor struct {
	name       string
	defaultCol string
	srcCols    int
	rule       typeRule
	apply      func(rows []xframe.Row, cols []int, seed int64) (xframe.Value, error)
}

var descriptors = map[Op]descriptor{
	Sum:        {"sum", "sum", 1, typeRule{-1, xframe.IntType}, applySum},
	Min:        {"min", "min", 1, typeRule{0, 0}, applyMin},
	Max:        {"max", "max", 1, typeRule{0, 0}, applyMax},
	Argmin:     {"argmin", "argmin", 2, typeRule{1, 0}, applyArgmin},
	Argmax:     {"argmax", "argmax", 2, typeRule{1, 0}, applyArgmax},
	Count:      {"count", "count", 0, typeRule{-1, xframe.IntType}, applyCount},
	Avg:        {"avg", "avg", 1, typeRule{-1, xframe.FloatType}, applyAvg},
	Mean:       {"mean", "mean", 1, typeRule{-1, xframe.FloatType}, applyAvg},
	Var:        {"var", "var", 1, typeRule{-1, xframe.FloatType}, applyVar},
	Variance:   {"variance", "variance", 1, typeRule{-1, xframe.FloatType}, applyVar},
	Std:        {"std", "std", 1, typeRule{-1, xframe.FloatType}, applyStd},
	Stdv:       {"stdv", "stdv", 1, typeRule{-1, xframe.FloatType}, applyStd},
	SelectOne:  {"select_one", "select_one", 1, typeRule{0, 0}, applySelectOne},
	ConcatList: {"concat_list", "concat", 1, typeRule{-1, xframe.ListType}, applyConcatList},
	ConcatDict: {"concat_dict", "concat", 2, typeRule{-1, xframe.MapType}, applyConcatDict},
	Quantile:   {"quantile", "quantile", 1, typeRule{-1, xframe.FloatType}, applyQuantile},
}

// OpFromName resolves an operator name, failing with
// UnsupportedOperatorError for anything outside the closed set
func OpFromName(name string) (Op, error) {
	for op, d := range descriptors {
		if d.name == name {
			return op, nil
		}
	}
	return 0, errors.UnsupportedOperatorError{Op: name}
}

// Name returns the operator's name
func (op Op) Name() string {
	return descriptors[op].name
}

// DefaultColumnName returns the output column name used when the caller
// does not supply one
func (op Op) DefaultColumnName() string {
	return descriptors[op].defaultCol
}

// NumSourceColumns returns how many source columns the operator reads
func (op Op) NumSourceColumns() int {
	return descriptors[op].srcCols
}

// OutputType resolves the operator's output column type given the
// current types of its source columns
func (op Op) OutputType(inputTypes []xframe.ColumnType) (xframe.ColumnType, error) {
	rule := descriptors[op].rule
	if rule.fromInput < 0 {
		return rule.fixed, nil
	}
	if rule.fromInput >= len(inputTypes) {
		return 0, fmt.Errorf("operator %s copies the type of source column %d but only %d source columns were given",
			op.Name(), rule.fromInput, len(inputTypes))
	}
	return inputTypes[rule.fromInput], nil
}

// Apply runs the operator's function over one group's rows. cols holds
// the resolved source column indexes; seed is consulted only by
// SelectOne. Missing values are skipped by the numeric reductions and
// ordered before everything by the comparisons.
func (op Op) Apply(rows []xframe.Row, cols []int, seed int64) (xframe.Value, error) {
	d, ok := descriptors[op]
	if !ok {
		return nil, errors.UnsupportedOperatorError{Op: fmt.Sprintf("%d", op)}
	}
	if len(cols) != d.srcCols {
		return nil, fmt.Errorf("operator %s takes %d source columns, got %d", d.name, d.srcCols, len(cols))
	}
	return d.apply(rows, cols, seed)
}

func applySum(rows []xframe.Row, cols []int, _ int64) (xframe.Value, error) {
	var isum int64
	var fsum float64
	sawFloat := false
	for _, row := range rows {
		v := row[cols[0]]
		if xframe.IsMissing(v) {
			continue
		}
		switch t := v.(type) {
		case int64:
			isum += t
			fsum += float64(t)
		case float64:
			sawFloat = true
			fsum += t
		default:
			return nil, fmt.Errorf("sum over non-numeric value %v", v)
		}
	}
	if sawFloat {
		return fsum, nil
	}
	return isum, nil
}

func applyMin(rows []xframe.Row, cols []int, _ int64) (xframe.Value, error) {
	return extreme(rows, cols[0], cols[0], true)
}

func applyMax(rows []xframe.Row, cols []int, _ int64) (xframe.Value, error) {
	return extreme(rows, cols[0], cols[0], false)
}

func applyArgmin(rows []xframe.Row, cols []int, _ int64) (xframe.Value, error) {
	return extreme(rows, cols[0], cols[1], true)
}

func applyArgmax(rows []xframe.Row, cols []int, _ int64) (xframe.Value, error) {
	return extreme(rows, cols[0], cols[1], false)
}

// extreme finds the row minimizing or maximizing aggCol and returns
// that row's outCol value
func extreme(rows []xframe.Row, aggCol int, outCol int, wantMin bool) (xframe.Value, error) {
	if len(rows) == 0 {
		return nil, errors.EmptyDatasetError{}
	}
	best := 0
	for i := 1; i < len(rows); i++ {
		cmp := xframe.CompareValues(rows[i][aggCol], rows[best][aggCol])
		if (wantMin && cmp < 0) || (!wantMin && cmp > 0) {
			best = i
		}
	}
	return rows[best][outCol], nil
}

func applyCount(rows []xframe.Row, _ []int, _ int64) (xframe.Value, error) {
	return int64(len(rows)), nil
}

func numericValues(rows []xframe.Row, col int) ([]float64, error) {
	vals := make([]float64, 0, len(rows))
	for _, row := range rows {
		v := row[col]
		if xframe.IsMissing(v) {
			continue
		}
		switch t := v.(type) {
		case int64:
			vals = append(vals, float64(t))
		case float64:
			vals = append(vals, t)
		default:
			return nil, fmt.Errorf("numeric aggregation over non-numeric value %v", v)
		}
	}
	return vals, nil
}

func applyAvg(rows []xframe.Row, cols []int, _ int64) (xframe.Value, error) {
	vals, err := numericValues(rows, cols[0])
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), nil
}

func variance(rows []xframe.Row, col int) (float64, bool, error) {
	vals, err := numericValues(rows, col)
	if err != nil {
		return 0, false, err
	}
	if len(vals) == 0 {
		return 0, false, nil
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var acc float64
	for _, v := range vals {
		acc += (v - mean) * (v - mean)
	}
	return acc / float64(len(vals)), true, nil
}

func applyVar(rows []xframe.Row, cols []int, _ int64) (xframe.Value, error) {
	v, ok, err := variance(rows, cols[0])
	if err != nil || !ok {
		return nil, err
	}
	return v, nil
}

func applyStd(rows []xframe.Row, cols []int, _ int64) (xframe.Value, error) {
	v, ok, err := variance(rows, cols[0])
	if err != nil || !ok {
		return nil, err
	}
	return math.Sqrt(v), nil
}

func applySelectOne(rows []xframe.Row, cols []int, seed int64) (xframe.Value, error) {
	if len(rows) == 0 {
		return nil, errors.EmptyDatasetError{}
	}
	rng := rand.New(rand.NewSource(seed))
	return rows[rng.Intn(len(rows))][cols[0]], nil
}

func applyConcatList(rows []xframe.Row, cols []int, _ int64) (xframe.Value, error) {
	out := make([]xframe.Value, len(rows))
	for i, row := range rows {
		out[i] = row[cols[0]]
	}
	return out, nil
}

func applyConcatDict(rows []xframe.Row, cols []int, _ int64) (xframe.Value, error) {
	out := make(map[string]xframe.Value, len(rows))
	for _, row := range rows {
		out[mapKey(row[cols[0]])] = row[cols[1]]
	}
	return out, nil
}

func applyQuantile(_ []xframe.Row, _ []int, _ int64) (xframe.Value, error) {
	return nil, errors.NotImplementedError{Op: "quantile aggregation"}
}

func mapKey(v xframe.Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
