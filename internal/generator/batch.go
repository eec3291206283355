package generator

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// GenerateBatch builds one randomized ship per class on up to workers goroutines and
// returns them in input order. ctx is checked before each ship starts; a ship already
// being built always runs to completion. On cancellation the ships finished so far are
// returned (nil entries for the rest) along with ctx's error.
func (g *Generator) GenerateBatch(ctx context.Context, classes []string, randomize bool, workers int) ([]*ShipResult, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]*ShipResult, len(classes))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, class := range classes {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = g.GenerateByClass(class, randomize)
			return nil
		})
	}
	return results, eg.Wait()
}
