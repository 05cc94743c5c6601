package rdd

import (
	"os"
	"runtime"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/cchayden/xpatterns-xframe/logging"
)

// Context is an explicitly constructed execution-context handle. It owns
// the parallelism setting and the logger for every Dataset derived from
// it. Lifecycle is owned by the caller; there is no process-wide
// singleton context.
type Context struct {
	parallelism int
	log         zerolog.Logger
}

// ContextOption configures a Context during creation
type ContextOption func(*Context)

// WithParallelism overrides the number of partitions Datasets are
// divided into for parallel evaluation
func WithParallelism(n int) ContextOption {
	return func(c *Context) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithLogger overrides the Context logger
func WithLogger(log zerolog.Logger) ContextOption {
	return func(c *Context) {
		c.log = log
	}
}

// CreateContext builds a Context. Parallelism defaults to the
// XFRAME_PARALLELISM environment variable, falling back to the number
// of CPUs.
func CreateContext(opts ...ContextOption) *Context {
	ctx := &Context{
		parallelism: defaultParallelism(),
		log:         logging.NewLogger(),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// Parallelism returns the number of partitions used by this Context
func (c *Context) Parallelism() int {
	return c.parallelism
}

// Logger returns the Context logger
func (c *Context) Logger() zerolog.Logger {
	return c.log
}

func defaultParallelism() int {
	if v := os.Getenv("XFRAME_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}
