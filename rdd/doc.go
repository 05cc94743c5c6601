// Package rdd implements the partitioned, lazily-evaluated sequence
// substrate the frame layer is built on. A Dataset is an immutable,
// partitioned sequence of opaque elements; transformations build a lazy
// graph and nothing executes until an action (Count, Take, Collect) or
// an operation requiring a full pass forces evaluation. Partitions are
// evaluated in parallel, one goroutine per partition.
package rdd
