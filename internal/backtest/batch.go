package backtest

import (
	"context"

	"SwingSentinel/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Job is one independent pipeline run.
type Job struct {
	ID     string
	Symbol string
	Bars   []model.OHLCV
	VIX    float64
	Config Config
}

// JobResult pairs a job with its outcome.
type JobResult struct {
	ID     string
	Symbol string
	Result *Result
	Err    error
}

// RunBatch runs jobs concurrently, at most workers at a time. A failing
// job reports through its JobResult and does not stop the others.
// Jobs not started before ctx is cancelled carry ctx.Err().
func RunBatch(ctx context.Context, jobs []Job, workers int) ([]JobResult, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]JobResult, len(jobs))
	for i, j := range jobs {
		results[i] = JobResult{ID: j.ID, Symbol: j.Symbol}
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			for k := i; k < len(jobs); k++ {
				results[k].Err = err
			}
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			res, err := Run(job.Bars, job.VIX, job.Config)
			if err != nil {
				log.Warn().Err(err).Str("job", job.ID).Str("symbol", job.Symbol).Msg("backtest job failed")
			}
			results[i].Result, results[i].Err = res, err
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}
