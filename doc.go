// Package xframe implements a named, typed column layer and a set of
// tabular transformations (projection, join, group-aggregate, multi-key
// sort, stacking and packing) over a partitioned, lazily-evaluated row
// sequence. Execution is delegated to the rdd package; this root package
// holds the shared value, column-type, key and comparator primitives.
package xframe
