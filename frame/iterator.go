package frame

import (
	xframe "github.com/cchayden/xpatterns-xframe"
	"github.com/cchayden/xpatterns-xframe/rdd"
)

// Iterator is an owned cursor for pulling bounded windows of rows out
// of a Frame in positional order. Each call to Iterate returns a fresh
// Iterator, so multiple iterations over one Frame can run
// independently. An Iterator is not safe for concurrent use.
type Iterator struct {
	frame *Frame
	pos   int64
}

// Iterate returns a new Iterator positioned before the first row
func (f *Frame) Iterate() *Iterator {
	return &Iterator{frame: f}
}

// Next returns up to n rows starting at the cursor and advances the
// cursor by n. It returns an empty slice once the rows are exhausted.
// Each call derives a bounded window from the whole sequence with a
// positional-index filter; this is not a streaming cursor.
func (it *Iterator) Next(n int) ([]xframe.Row, error) {
	low := it.pos
	high := it.pos + int64(n)
	window := it.frame.rows.ZipWithIndex().Filter(func(el interface{}) (bool, error) {
		pos := el.(*rdd.Indexed).Pos
		return pos >= low && pos < high, nil
	})
	els, err := window.Collect()
	if err != nil {
		return nil, err
	}
	rows := make([]xframe.Row, len(els))
	for i, el := range els {
		rows[i] = el.(*rdd.Indexed).Value.(xframe.Row)
	}
	it.pos += int64(n)
	return rows, nil
}
