// Package sweep assesses one set of asteroid parameters against many target
// sites on a shared worker pool.
package sweep

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mr1hm/go-impact-risk/internal/impact"
	"github.com/mr1hm/go-impact-risk/internal/models"
	"github.com/mr1hm/go-impact-risk/internal/worker"
)

type job struct {
	index  int
	params models.AsteroidParameters
	site   models.TargetSite
	reply  chan<- result
}

type result struct {
	index      int
	assessment models.ImpactAssessment
	err        error
}

type Sweeper struct {
	calc *impact.Calculator
	pool *worker.WorkerPool[job]
}

func NewSweeper(calc *impact.Calculator, workers, bufferSize int) *Sweeper {
	s := &Sweeper{calc: calc}
	s.pool = worker.NewWorkerPool(workers, bufferSize, s.process)
	return s
}

func (s *Sweeper) Start(ctx context.Context) {
	s.pool.Start(ctx)
}

func (s *Sweeper) Stop() {
	s.pool.Stop()
	slog.Info("sweeper stopped")
}

func (s *Sweeper) process(ctx context.Context, j job) error {
	a, err := s.calc.Assess(j.params, j.site)
	j.reply <- result{index: j.index, assessment: a, err: err}
	return err
}

// Sweep returns one assessment per site, in site order. The first error
// aborts the sweep.
func (s *Sweeper) Sweep(ctx context.Context, params models.AsteroidParameters, sites []models.TargetSite) ([]models.ImpactAssessment, error) {
	// buffered so workers never block on a caller that gave up
	replies := make(chan result, len(sites))

	for i, site := range sites {
		if err := s.pool.Submit(ctx, job{index: i, params: params, site: site, reply: replies}); err != nil {
			return nil, fmt.Errorf("error submitting site %s: %w", site.ID, err)
		}
	}

	out := make([]models.ImpactAssessment, len(sites))
	for range sites {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r := <-replies:
			if r.err != nil {
				return nil, fmt.Errorf("error assessing site %s: %w", sites[r.index].ID, r.err)
			}
			out[r.index] = r.assessment
		}
	}

	slog.Debug("sweep complete", "sites", len(sites))
	return out, nil
}
