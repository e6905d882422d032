package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/spinbottle/internal/engine"
	"github.com/san-kum/spinbottle/internal/script"
)

// Ensemble runs independent scripts concurrently, each against its own
// engine built from the same parameters.
type Ensemble struct {
	params  engine.Params
	workers int
	metrics func() []Metric
}

// NewEnsemble limits concurrency to workers; metrics, if non-nil, supplies a
// fresh metric set per run.
func NewEnsemble(p engine.Params, workers int, metrics func() []Metric) *Ensemble {
	if workers < 1 {
		workers = 1
	}
	return &Ensemble{params: p, workers: workers, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, scripts []*script.Script, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(scripts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, sc := range scripts {
		g.Go(func() error {
			s := FromParams(e.params)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, sc, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
