package app

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"battleship/internal/game"
	"battleship/internal/targeting"
)

type TrialResult struct {
	Seed         int64
	Layout       int
	Shots        int
	Hits         int
	TargetShots  int
	ShipsTracked int
}

// RunTrial lets the engine fire at layout alone until every ship cell is hit.
func RunTrial(layout game.Layout, fleet game.FleetConfig, rng game.Rand, logger *log.Logger) (TrialResult, error) {
	var res TrialResult
	if err := layout.Validate(layout.Size(), fleet); err != nil {
		return res, fmt.Errorf("%w: %v", game.ErrConfiguration, err)
	}
	board, err := game.NewBoard(layout.Size())
	if err != nil {
		return res, err
	}
	if err := game.ApplyLayout(board, game.User, layout); err != nil {
		return res, err
	}

	tracker := game.NewFleet(fleet)
	engine := targeting.New(tracker, rng, logger)
	limit := layout.Size() * layout.Size()
	for !game.FleetDestroyed(board, game.User) {
		if res.Shots >= limit {
			return res, fmt.Errorf("%w: %d shots without sinking the fleet", game.ErrInvariantViolation, res.Shots)
		}
		c, err := engine.Next(board)
		if err != nil {
			return res, err
		}
		if engine.Mode() == targeting.Target {
			res.TargetShots++
		}
		hit := game.Fire(board, game.User, c.Row(), c.Column()).Hit
		engine.Record(c, hit)
		res.Shots++
		if hit {
			res.Hits++
		}
	}
	res.ShipsTracked = fleet.TotalShips() - tracker.Afloat()
	return res, nil
}

type BenchOptions struct {
	Runs     int
	SeedBase int64
	SeedStep int64
	Workers  int
}

type BenchSummary struct {
	Trials []TrialResult
	Mean   float64
	Min    int
	Max    int
}

// Bench runs independent seeded trials across a worker pool. Run i uses seed
// SeedBase+i*SeedStep for both the layout draw and the engine.
func Bench(ctx context.Context, opts BenchOptions, fleet game.FleetConfig, catalogue []game.Layout, logger *log.Logger) (BenchSummary, error) {
	var sum BenchSummary
	if opts.Runs <= 0 || len(catalogue) == 0 {
		return sum, fmt.Errorf("%w: need at least one run and one layout", game.ErrConfiguration)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	trials := make([]TrialResult, opts.Runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < opts.Runs; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := opts.SeedBase + int64(i)*opts.SeedStep
			rng := rand.New(rand.NewSource(seed))
			idx := rng.Intn(len(catalogue))
			res, err := RunTrial(catalogue[idx], fleet, rng, nil)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, seed, err)
			}
			res.Seed, res.Layout = seed, idx
			trials[i] = res
			logger.Debug("trial done", "run", i, "seed", seed, "layout", idx, "shots", res.Shots)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}

	sum.Trials = trials
	shots := make([]int, len(trials))
	total := 0
	for i, t := range trials {
		shots[i] = t.Shots
		total += t.Shots
	}
	sum.Min, sum.Max = slices.Min(shots), slices.Max(shots)
	sum.Mean = float64(total) / float64(len(trials))
	return sum, nil
}
