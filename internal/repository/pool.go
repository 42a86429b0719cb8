package repository

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// defaultConcurrency bounds how many artifacts are downloaded at once,
// keeping a resolve of a large dependency graph from opening hundreds
// of simultaneous connections to the same repository.
const defaultConcurrency = 8

// FetchAll runs fetch once per item in parallel, bounded to
// defaultConcurrency concurrent calls, and returns their results in
// the same order as items. The first fetch error cancels the
// remaining in-flight calls and is returned.
func FetchAll[T any, R any](ctx context.Context, items []T, fetch func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	sem := semaphore.NewWeighted(defaultConcurrency)
	g, gctx := errgroup.WithContext(ctx)

	for i, item := range items {
		i, item := i, item
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			r, err := fetch(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
