package tune

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/sim"
)

// Candidate is one gain triple with its cost over a zero-noise run.
type Candidate struct {
	Kp, Ki, Kd float64
	Cost       float64
}

// GridSearch sweeps gain combinations over a fixed plant and scores each
// by integrated absolute error. Every candidate gets its own regulator
// and process state, so the sweeps run concurrently.
type GridSearch struct {
	KpValues []float64
	KiValues []float64
	KdValues []float64
	Workers  int
}

func NewGridSearch(kp, ki, kd []float64) *GridSearch {
	return &GridSearch{KpValues: kp, KiValues: ki, KdValues: kd, Workers: 4}
}

// Search runs every combination against the plant and sim settings in
// base and returns the lowest-cost candidate. Noise is forced off so the
// comparison is deterministic.
func (g *GridSearch) Search(ctx context.Context, base *config.Config) (Candidate, error) {
	if len(g.KpValues) == 0 || len(g.KiValues) == 0 || len(g.KdValues) == 0 {
		return Candidate{}, fmt.Errorf("empty gain range")
	}

	candidates := make([]Candidate, 0, len(g.KpValues)*len(g.KiValues)*len(g.KdValues))
	for _, kp := range g.KpValues {
		for _, ki := range g.KiValues {
			for _, kd := range g.KdValues {
				candidates = append(candidates, Candidate{Kp: kp, Ki: ki, Kd: kd})
			}
		}
	}

	workers := g.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	errs := make([]error, len(candidates))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				candidates[idx].Cost, errs[idx] = g.evaluate(ctx, base, candidates[idx])
			}
		}()
	}

	for idx := range candidates {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Candidate{}, err
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Cost < best.Cost {
			best = c
		}
	}
	return best, nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, c Candidate) (float64, error) {
	cfg := *base
	cfg.Kp, cfg.Ki, cfg.Kd = c.Kp, c.Ki, c.Kd
	cfg.NoiseStdDev = 0

	reg, err := cfg.Regulator()
	if err != nil {
		return 0, err
	}
	model, err := cfg.Model()
	if err != nil {
		return 0, err
	}

	iae := metrics.NewIAE(cfg.Setpoint, cfg.SampleTime)
	if _, err := sim.Run(ctx, reg, model, cfg.SimConfig(), iae); err != nil {
		return 0, err
	}

	cost := iae.Value()
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		cost = math.Inf(1)
	}
	return cost, nil
}

// Range builds an inclusive linear sweep from low to high in n steps.
func Range(low, high float64, n int) []float64 {
	if n < 2 {
		return []float64{low}
	}
	vals := make([]float64, n)
	step := (high - low) / float64(n-1)
	for i := range vals {
		vals[i] = low + float64(i)*step
	}
	return vals
}
