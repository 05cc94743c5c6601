package frame

import (
	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/aggregate"
	"github.com/cchayden/xpatterns-xframe/rdd"
	"github.com/cchayden/xpatterns-xframe/schema"
)

// Aggregation requests one aggregate per group: an operator, its source
// columns, an optional output column name (the operator's default when
// empty), and a seed for the operators that draw randomly.
type Aggregation struct {
	Op         aggregate.Op
	SrcColumns []string
	OutputName string
	Seed       int64
}

// GroupByAggregate groups rows by a composite key built from the key
// columns and applies each requested aggregation to every group. The
// output rows hold the decoded key values followed by the aggregate
// results; output names are deduplicated with the usual suffix rule and
// output types follow each operator's type rule.
func (f *Frame) GroupByAggregate(keyColumns []string, aggs []Aggregation) (*Frame, error) {
	keyIdxs := make([]int, len(keyColumns))
	allTypes := f.schema.ColumnTypes()
	keyTypes := make([]xframe.ColumnType, len(keyColumns))
	for i, name := range keyColumns {
		idx, err := f.schema.IndexOf(name)
		if err != nil {
			return nil, err
		}
		keyIdxs[i] = idx
		keyTypes[i] = allTypes[idx]
	}

	// resolve each aggregation's source columns and output type up front
	srcIdxs := make([][]int, len(aggs))
	outTypes := make([]xframe.ColumnType, len(aggs))
	for i, agg := range aggs {
		idxs := make([]int, len(agg.SrcColumns))
		srcTypes := make([]xframe.ColumnType, len(agg.SrcColumns))
		for j, name := range agg.SrcColumns {
			idx, err := f.schema.IndexOf(name)
			if err != nil {
				return nil, err
			}
			idxs[j] = idx
			srcTypes[j] = allTypes[idx]
		}
		srcIdxs[i] = idxs
		outType, err := agg.Op.OutputType(srcTypes)
		if err != nil {
			return nil, err
		}
		outTypes[i] = outType
	}

	// output names: key columns first, then each aggregate's name,
	// deduplicated in order
	outNames := make([]string, 0, len(keyColumns)+len(aggs))
	for _, name := range keyColumns {
		outNames = append(outNames, schema.UniqueName(outNames, name))
	}
	for _, agg := range aggs {
		name := agg.OutputName
		if name == "" {
			name = agg.Op.DefaultColumnName()
		}
		outNames = append(outNames, schema.UniqueName(outNames, name))
	}
	sch, err := schema.CreateSchema(outNames, append(keyTypes, outTypes...))
	if err != nil {
		return nil, err
	}

	keyed := f.rows.KeyBy(func(el interface{}) (string, error) {
		row := el.(xframe.Row)
		key := make(xframe.Key, len(keyIdxs))
		for i, idx := range keyIdxs {
			key[i] = row[idx]
		}
		return key.Encode()
	})
	rows := keyed.GroupByKey().Map(func(el interface{}) (interface{}, error) {
		group := el.(*rdd.Group)
		key, err := xframe.DecodeKey(group.Key, keyTypes)
		if err != nil {
			return nil, err
		}
		groupRows := make([]xframe.Row, len(group.Values))
		for i, v := range group.Values {
			groupRows[i] = v.(xframe.Row)
		}
		out := make(xframe.Row, 0, len(key)+len(aggs))
		out = append(out, key...)
		for i, agg := range aggs {
			v, err := agg.Op.Apply(groupRows, srcIdxs[i], agg.Seed)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	})
	return f.derive(rows, sch), nil
}
