package rdd

import (
	"sort"
	"strconv"

	"github.com/cchayden/xpatterns-xframe/errors"
)

// Zipped pairs the i-th elements of two Datasets
type Zipped struct {
	Left  interface{}
	Right interface{}
}

// SafeZip combines two Datasets element-by-element by position, even
// when their partition layouts are unrelated. Both Datasets must have
// the same logical length. Each side is tagged with a positional index
// and the two are joined on index equality, making the combine
// independent of partition structure.
func SafeZip(left *Dataset, right *Dataset) *Dataset {
	return createDataset(left.ctx, func() ([][]interface{}, error) {
		li := left.ZipWithIndex()
		ri := right.ZipWithIndex()
		// each indexed side is evaluated twice: once for the length
		// check and once for the join
		var parts [][]interface{}
		err := li.Cached(func() error {
			return ri.Cached(func() error {
				ln, err := li.Count()
				if err != nil {
					return err
				}
				rn, err := ri.Count()
				if err != nil {
					return err
				}
				if ln != rn {
					return errors.SchemaMismatchError{Message: "cannot zip sequences of unequal length"}
				}
				lk := li.KeyBy(indexKey)
				rk := ri.KeyBy(indexKey)
				joined, err := lk.Join(rk).Collect()
				if err != nil {
					return err
				}
				pairs := make([]interface{}, len(joined))
				positions := make([]int64, len(joined))
				for i, el := range joined {
					j := el.(*Joined)
					lidx := j.Left.(*Indexed)
					ridx := j.Right.(*Indexed)
					pairs[i] = &Zipped{Left: lidx.Value, Right: ridx.Value}
					positions[i] = lidx.Pos
				}
				sort.Sort(&byPosition{pairs: pairs, positions: positions})
				parts = redistribute(pairs, left.ctx.parallelism)
				return nil
			})
		})
		if err != nil {
			return nil, err
		}
		return parts, nil
	})
}

func indexKey(el interface{}) (string, error) {
	return strconv.FormatInt(el.(*Indexed).Pos, 10), nil
}

type byPosition struct {
	pairs     []interface{}
	positions []int64
}

func (s *byPosition) Len() int           { return len(s.pairs) }
func (s *byPosition) Less(i, j int) bool { return s.positions[i] < s.positions[j] }
func (s *byPosition) Swap(i, j int) {
	s.pairs[i], s.pairs[j] = s.pairs[j], s.pairs[i]
	s.positions[i], s.positions[j] = s.positions[j], s.positions[i]
}

var _ sort.Interface = (*byPosition)(nil)
