package analysis

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/configtower/pkg/graph"
	"github.com/matzehuels/configtower/pkg/rules"
)

// AnalyzeGraphConcurrent computes the same report as [AnalyzeGraph] with a
// bounded pool of workers. Node analyses share no mutable state, so the
// result does not depend on scheduling. workers <= 0 selects GOMAXPROCS.
//
// The only error is ctx's, when it is cancelled before every node is done.
func AnalyzeGraphConcurrent(ctx context.Context, g *graph.Graph, table *rules.Table, workers int) (Report, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	x := NewIndex(g)
	nodes := g.Nodes()
	results := make([]NodeAnalysis, len(nodes))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, n := range nodes {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = x.AnalyzeNode(n.ID, table)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	return aggregate(results), nil
}
