package rdd

import (
	xxhash "github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
)

// Pair is an element of a keyed Dataset: an opaque value tagged with an
// encoded string key. Composite keys are encoded by the caller; the
// substrate groups and joins on key equality only.
type Pair struct {
	Key   string
	Value interface{}
}

// Group is the result of grouping a keyed Dataset: every value sharing
// one key, in encounter order
type Group struct {
	Key    string
	Values []interface{}
}

// Joined is one element of a join result. A side a key had no match on
// has its Has flag false and its value nil.
type Joined struct {
	Key      string
	Left     interface{}
	Right    interface{}
	HasLeft  bool
	HasRight bool
}

// PairDataset is a Dataset of Pair elements, supporting key-based
// grouping and equality joins
type PairDataset struct {
	inner *Dataset
}

// KeyBy derives a PairDataset by computing an encoded key for every
// element
func (d *Dataset) KeyBy(fn func(interface{}) (string, error)) *PairDataset {
	keyed := d.Map(func(el interface{}) (interface{}, error) {
		key, err := fn(el)
		if err != nil {
			return nil, err
		}
		return &Pair{Key: key, Value: el}, nil
	})
	return &PairDataset{inner: keyed}
}

// MapValues derives a new PairDataset by transforming every value,
// leaving keys untouched
func (p *PairDataset) MapValues(fn func(interface{}) (interface{}, error)) *PairDataset {
	mapped := p.inner.Map(func(el interface{}) (interface{}, error) {
		pair := el.(*Pair)
		v, err := fn(pair.Value)
		if err != nil {
			return nil, err
		}
		return &Pair{Key: pair.Key, Value: v}, nil
	})
	return &PairDataset{inner: mapped}
}

// Values drops the keys, yielding the underlying values
func (p *PairDataset) Values() *Dataset {
	return p.inner.Map(func(el interface{}) (interface{}, error) {
		return el.(*Pair).Value, nil
	})
}

// shuffle hashes every pair's key and buckets pairs into one of n
// slices, one per target partition. Within a bucket pairs stay in
// encounter order.
func (p *PairDataset) shuffle(n int) ([][]*Pair, error) {
	parts, err := p.inner.partitions()
	if err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}
	buckets := make([][]*Pair, n)
	for _, part := range parts {
		for _, el := range part {
			pair := el.(*Pair)
			b := int(xxhash.Sum64String(pair.Key) % uint64(n))
			buckets[b] = append(buckets[b], pair)
		}
	}
	return buckets, nil
}

// GroupByKey shuffles pairs so that all values sharing a key land in
// one Group. Group order follows first key appearance per partition.
func (p *PairDataset) GroupByKey() *Dataset {
	return createDataset(p.inner.ctx, func() ([][]interface{}, error) {
		buckets, err := p.shuffle(p.inner.ctx.parallelism)
		if err != nil {
			return nil, err
		}
		out := make([][]interface{}, len(buckets))
		var g errgroup.Group
		for i := range buckets {
			i := i
			g.Go(func() error {
				order := make([]string, 0)
				grouped := make(map[string][]interface{})
				for _, pair := range buckets[i] {
					if _, seen := grouped[pair.Key]; !seen {
						order = append(order, pair.Key)
					}
					grouped[pair.Key] = append(grouped[pair.Key], pair.Value)
				}
				groups := make([]interface{}, len(order))
				for j, key := range order {
					groups[j] = &Group{Key: key, Values: grouped[key]}
				}
				out[i] = groups
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	})
}

type joinMode int

const (
	innerJoin joinMode = iota
	leftOuterJoin
	rightOuterJoin
	fullOuterJoin
)

// Join computes the inner equality join of two keyed Datasets,
// producing one Joined element per matching pair of values
func (p *PairDataset) Join(other *PairDataset) *Dataset {
	return p.join(other, innerJoin)
}

// LeftOuterJoin computes the left outer equality join: every left value
// appears at least once, with HasRight false when its key is unmatched
func (p *PairDataset) LeftOuterJoin(other *PairDataset) *Dataset {
	return p.join(other, leftOuterJoin)
}

// RightOuterJoin computes the right outer equality join: every right
// value appears at least once, with HasLeft false when its key is
// unmatched
func (p *PairDataset) RightOuterJoin(other *PairDataset) *Dataset {
	return p.join(other, rightOuterJoin)
}

// FullOuterJoin computes the full outer equality join: the union of the
// left outer join rows and the unmatched right values
func (p *PairDataset) FullOuterJoin(other *PairDataset) *Dataset {
	return p.join(other, fullOuterJoin)
}

func (p *PairDataset) join(other *PairDataset, mode joinMode) *Dataset {
	return createDataset(p.inner.ctx, func() ([][]interface{}, error) {
		// both sides must hash into one agreed bucket count so that equal
		// keys always co-locate, even when the two Datasets belong to
		// Contexts with different parallelism
		n := p.inner.ctx.parallelism
		if other.inner.ctx.parallelism > n {
			n = other.inner.ctx.parallelism
		}
		if n < 1 {
			n = 1
		}
		leftBuckets, err := p.shuffle(n)
		if err != nil {
			return nil, err
		}
		rightBuckets, err := other.shuffle(n)
		if err != nil {
			return nil, err
		}
		out := make([][]interface{}, n)
		var g errgroup.Group
		for i := 0; i < n; i++ {
			i := i
			g.Go(func() error {
				out[i] = joinBucket(leftBuckets[i], rightBuckets[i], mode)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	})
}

func joinBucket(lefts []*Pair, rights []*Pair, mode joinMode) []interface{} {
	order := make([]string, 0)
	lvals := make(map[string][]interface{})
	rvals := make(map[string][]interface{})
	for _, pair := range lefts {
		if _, seen := lvals[pair.Key]; !seen {
			order = append(order, pair.Key)
		}
		lvals[pair.Key] = append(lvals[pair.Key], pair.Value)
	}
	for _, pair := range rights {
		if _, seenL := lvals[pair.Key]; !seenL {
			if _, seenR := rvals[pair.Key]; !seenR {
				order = append(order, pair.Key)
			}
		}
		rvals[pair.Key] = append(rvals[pair.Key], pair.Value)
	}
	out := make([]interface{}, 0)
	for _, key := range order {
		ls, rs := lvals[key], rvals[key]
		switch {
		case len(ls) > 0 && len(rs) > 0:
			for _, lv := range ls {
				for _, rv := range rs {
					out = append(out, &Joined{Key: key, Left: lv, Right: rv, HasLeft: true, HasRight: true})
				}
			}
		case len(ls) > 0:
			if mode == leftOuterJoin || mode == fullOuterJoin {
				for _, lv := range ls {
					out = append(out, &Joined{Key: key, Left: lv, HasLeft: true})
				}
			}
		case len(rs) > 0:
			if mode == rightOuterJoin || mode == fullOuterJoin {
				for _, rv := range rs {
					out = append(out, &Joined{Key: key, Right: rv, HasRight: true})
				}
			}
		}
	}
	return out
}
