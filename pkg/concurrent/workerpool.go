// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// WorkerPool bounds the number of functions running at the same time.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{
		workerCount: workerCount,
	}
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int {
	return wp.workerCount
}

// Run executes all functions and returns the first error encountered,
// cancelling the functions that have not started yet.
func (wp *WorkerPool) Run(ctx context.Context, functions ...func() error) error {
	if len(functions) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workerCount)

	for _, fn := range functions {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}

	return g.Wait()
}

// RunAll executes every function regardless of failures and returns the
// non-nil errors in submission order. Functions that have not started when
// ctx is cancelled report the context error instead of running.
func (wp *WorkerPool) RunAll(ctx context.Context, functions ...func() error) []error {
	if len(functions) == 0 {
		return nil
	}

	results := make([]error, len(functions))

	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for i, fn := range functions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = err
				return nil
			}
			results[i] = fn()
			// Never fail the group, so that every function gets to run.
			return nil
		})
	}

	_ = g.Wait()

	return slices.DeleteFunc(results, func(err error) bool { return err == nil })
}

// ForEach calls fn for every item through the pool and returns the
// non-nil errors in item order.
func ForEach[T any](ctx context.Context, wp *WorkerPool, items []T, fn func(context.Context, T) error) []error {
	functions := make([]func() error, 0, len(items))
	for _, item := range items {
		functions = append(functions, func() error {
			return fn(ctx, item)
		})
	}
	return wp.RunAll(ctx, functions...)
}
