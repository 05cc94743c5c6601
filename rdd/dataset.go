package rdd

import (
	"log"
	"math/rand"
	"sort"
	"sync"

	uuid "github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cchayden/xpatterns-xframe/errors"
)

// Dataset is an immutable, partitioned, lazily-evaluated sequence of
// opaque elements. Transformations return new Datasets without
// evaluating anything; actions force a full evaluation pass.
//
// An intermediate Dataset reused more than once should be wrapped in
// Cached so the pass is not recomputed.
type Dataset struct {
	ctx     *Context
	id      string
	mu      sync.Mutex
	caching bool
	cached  [][]interface{}
	compute func() ([][]interface{}, error)
}

// Indexed is an element tagged with its zero-based position in the
// Dataset, produced by ZipWithIndex
type Indexed struct {
	Pos   int64
	Value interface{}
}

func createDataset(ctx *Context, compute func() ([][]interface{}, error)) *Dataset {
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for Dataset: %v", err)
	}
	return &Dataset{ctx: ctx, id: id.String(), compute: compute}
}

// Parallelize distributes a slice of elements across the Context's
// partitions, producing a materialized Dataset
func Parallelize(ctx *Context, elements []interface{}) *Dataset {
	parts := redistribute(elements, ctx.parallelism)
	return createDataset(ctx, func() ([][]interface{}, error) {
		return parts, nil
	})
}

// Context returns the execution context this Dataset is bound to
func (d *Dataset) Context() *Context {
	return d.ctx
}

// ID returns the unique identifier of this Dataset
func (d *Dataset) ID() string {
	return d.id
}

// partitions evaluates this Dataset, or returns the cached result of a
// previous evaluation if Cache was called before it ran
func (d *Dataset) partitions() ([][]interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cached != nil {
		return d.cached, nil
	}
	parts, err := d.compute()
	if err != nil {
		return nil, err
	}
	if d.caching {
		d.cached = parts
	}
	return parts, nil
}

// Cache marks this Dataset so its next evaluation is retained. Must be
// paired with Uncache to avoid unbounded memory growth.
func (d *Dataset) Cache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.caching = true
}

// Uncache releases any retained evaluation of this Dataset
func (d *Dataset) Uncache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.caching = false
	d.cached = nil
}

// Cached runs fn with this Dataset cached, guaranteeing the cache is
// released when fn returns. Use it around any sub-computation that
// evaluates the Dataset more than once.
func (d *Dataset) Cached(fn func() error) error {
	d.Cache()
	defer d.Uncache()
	return fn()
}

// mapPartitions derives a new Dataset by transforming each partition
// independently. Partitions are evaluated in parallel at action time.
func (d *Dataset) mapPartitions(fn func(pIdx int, part []interface{}) ([]interface{}, error)) *Dataset {
	return createDataset(d.ctx, func() ([][]interface{}, error) {
		parts, err := d.partitions()
		if err != nil {
			return nil, err
		}
		out := make([][]interface{}, len(parts))
		var g errgroup.Group
		for i := range parts {
			i := i
			g.Go(func() error {
				res, err := fn(i, parts[i])
				if err != nil {
					return err
				}
				out[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Map derives a new Dataset by transforming every element
func (d *Dataset) Map(fn func(interface{}) (interface{}, error)) *Dataset {
	return d.mapPartitions(func(_ int, part []interface{}) ([]interface{}, error) {
		out := make([]interface{}, len(part))
		for i, el := range part {
			res, err := fn(el)
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil
	})
}

// Filter derives a new Dataset keeping only elements fn accepts
func (d *Dataset) Filter(fn func(interface{}) (bool, error)) *Dataset {
	return d.mapPartitions(func(_ int, part []interface{}) ([]interface{}, error) {
		out := make([]interface{}, 0, len(part))
		for _, el := range part {
			keep, err := fn(el)
			if err != nil {
				return nil, err
			}
			if keep {
				out = append(out, el)
			}
		}
		return out, nil
	})
}

// FlatMap derives a new Dataset by expanding every element into zero or
// more elements
func (d *Dataset) FlatMap(fn func(interface{}) ([]interface{}, error)) *Dataset {
	return d.mapPartitions(func(_ int, part []interface{}) ([]interface{}, error) {
		out := make([]interface{}, 0, len(part))
		for _, el := range part {
			res, err := fn(el)
			if err != nil {
				return nil, err
			}
			out = append(out, res...)
		}
		return out, nil
	})
}

// Union concatenates the partitions of two Datasets. Elements are not
// deduplicated.
func (d *Dataset) Union(other *Dataset) *Dataset {
	return createDataset(d.ctx, func() ([][]interface{}, error) {
		left, err := d.partitions()
		if err != nil {
			return nil, err
		}
		right, err := other.partitions()
		if err != nil {
			return nil, err
		}
		parts := make([][]interface{}, 0, len(left)+len(right))
		parts = append(parts, left...)
		parts = append(parts, right...)
		return parts, nil
	})
}

// Distinct derives a new Dataset containing each distinct string
// element once. Elements must be strings; callers encode richer
// elements before deduplicating. Element order is not preserved.
func (d *Dataset) Distinct() *Dataset {
	return createDataset(d.ctx, func() ([][]interface{}, error) {
		parts, err := d.partitions()
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		uniq := make([]interface{}, 0)
		for _, part := range parts {
			for _, el := range part {
				s, ok := el.(string)
				if !ok {
					return nil, errors.SchemaMismatchError{Message: "distinct requires string elements"}
				}
				if !seen[s] {
					seen[s] = true
					uniq = append(uniq, el)
				}
			}
		}
		return redistribute(uniq, len(parts)), nil
	})
}

// Sample derives a new Dataset keeping each element with probability
// fraction. Sampling is seeded per partition (seed + partition index),
// so a fixed seed gives per-partition determinism, not a single global
// draw order.
func (d *Dataset) Sample(fraction float64, seed int64) *Dataset {
	return d.mapPartitions(func(pIdx int, part []interface{}) ([]interface{}, error) {
		rng := rand.New(rand.NewSource(seed + int64(pIdx)))
		out := make([]interface{}, 0, len(part))
		for _, el := range part {
			if rng.Float64() < fraction {
				out = append(out, el)
			}
		}
		return out, nil
	})
}

// SortBy derives a new Dataset with elements in the total order imposed
// by less. The sort is not guaranteed stable beyond what the underlying
// sort provides.
func (d *Dataset) SortBy(less func(a, b interface{}) bool) *Dataset {
	return createDataset(d.ctx, func() ([][]interface{}, error) {
		parts, err := d.partitions()
		if err != nil {
			return nil, err
		}
		all := flatten(parts)
		sort.SliceStable(all, func(i, j int) bool { return less(all[i], all[j]) })
		return redistribute(all, numPartitions(parts)), nil
	})
}

// ZipWithIndex tags every element with its zero-based position. This
// requires a full index pass over the sequence.
func (d *Dataset) ZipWithIndex() *Dataset {
	return createDataset(d.ctx, func() ([][]interface{}, error) {
		parts, err := d.partitions()
		if err != nil {
			return nil, err
		}
		offsets := make([]int64, len(parts))
		var total int64
		for i, part := range parts {
			offsets[i] = total
			total += int64(len(part))
		}
		out := make([][]interface{}, len(parts))
		var g errgroup.Group
		for i := range parts {
			i := i
			g.Go(func() error {
				tagged := make([]interface{}, len(parts[i]))
				for j, el := range parts[i] {
					tagged[j] = &Indexed{Pos: offsets[i] + int64(j), Value: el}
				}
				out[i] = tagged
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Partitions evaluates the Dataset and returns its partitions. This is
// an action; the returned slices must not be mutated.
func (d *Dataset) Partitions() ([][]interface{}, error) {
	return d.partitions()
}

// Count returns the number of elements. This is an action.
func (d *Dataset) Count() (int64, error) {
	d.ctx.log.Debug().Str("dataset", d.id).Msg("materializing dataset for count")
	parts, err := d.partitions()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, part := range parts {
		total += int64(len(part))
	}
	return total, nil
}

// Take returns up to n elements in positional order. This is an action.
func (d *Dataset) Take(n int) ([]interface{}, error) {
	parts, err := d.partitions()
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, n)
	for _, part := range parts {
		for _, el := range part {
			if len(out) == n {
				return out, nil
			}
			out = append(out, el)
		}
	}
	return out, nil
}

// First returns the first element, or EmptyDatasetError if there is
// none. This is an action.
func (d *Dataset) First() (interface{}, error) {
	els, err := d.Take(1)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, errors.EmptyDatasetError{}
	}
	return els[0], nil
}

// Collect returns all elements in positional order. This is an action.
func (d *Dataset) Collect() ([]interface{}, error) {
	d.ctx.log.Debug().Str("dataset", d.id).Msg("materializing dataset for collect")
	parts, err := d.partitions()
	if err != nil {
		return nil, err
	}
	return flatten(parts), nil
}

func flatten(parts [][]interface{}) []interface{} {
	var total int
	for _, part := range parts {
		total += len(part)
	}
	out := make([]interface{}, 0, total)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}

func numPartitions(parts [][]interface{}) int {
	if len(parts) == 0 {
		return 1
	}
	return len(parts)
}

// redistribute splits elements into n roughly equal contiguous
// partitions, preserving order
func redistribute(elements []interface{}, n int) [][]interface{} {
	if n < 1 {
		n = 1
	}
	parts := make([][]interface{}, n)
	size := (len(elements) + n - 1) / n
	if size == 0 {
		size = 1
	}
	for i := 0; i < n; i++ {
		lo := i * size
		hi := lo + size
		if lo > len(elements) {
			lo = len(elements)
		}
		if hi > len(elements) {
			hi = len(elements)
		}
		parts[i] = elements[lo:hi]
	}
	return parts
}
