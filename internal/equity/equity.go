// Package equity estimates showdown equity by Monte Carlo simulation.
package equity

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
)

const (
	DefaultSamples = 10000
	maxWorkers     = 8
	checkEvery     = 256
)

var ErrInvalidRequest = errors.New("invalid equity request")

// Request describes the spot to simulate. Opponents are dealt as many hole
// cards as the hero holds. MinHole and MaxHole bound how many hole cards a
// showdown hand uses; zero values mean hold'em rules.
type Request struct {
	Hole      []poker.Card
	Board     []poker.Card
	Opponents int
	Samples   int
	Seed      int64
	Workers   int
	MinHole   int
	MaxHole   int
}

// Result is the outcome of a simulation. Equity counts a split pot as the
// hero's share of it.
type Result struct {
	Equity  float64
	Win     float64
	Tie     float64
	Samples int
}

type workerResult struct {
	wins    int
	ties    int
	share   float64
	samples int
}

func (r *Request) normalize() error {
	if len(r.Hole) < 2 {
		return fmt.Errorf("%w: need at least 2 hole cards, got %d", ErrInvalidRequest, len(r.Hole))
	}
	if len(r.Board) > 5 {
		return fmt.Errorf("%w: board has %d cards", ErrInvalidRequest, len(r.Board))
	}
	if r.Opponents < 1 || r.Opponents > 7 {
		return fmt.Errorf("%w: opponents must be 1 to 7, got %d", ErrInvalidRequest, r.Opponents)
	}
	if err := poker.CheckDistinct(r.Hole, r.Board); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	known := len(r.Hole) + len(r.Board)
	if need := r.Opponents*len(r.Hole) + 5 - len(r.Board); known+need > 52 {
		return fmt.Errorf("%w: not enough cards for %d opponents", ErrInvalidRequest, r.Opponents)
	}
	if r.Samples <= 0 {
		r.Samples = DefaultSamples
	}
	if r.Workers <= 0 {
		r.Workers = min(runtime.NumCPU(), maxWorkers)
	}
	r.Workers = min(r.Workers, r.Samples)
	if r.MaxHole == 0 {
		r.MaxHole = 2
	}
	return nil
}

// Estimate runs the simulation across parallel workers. Each worker draws from
// its own rng derived from Seed, so a fixed seed and worker count reproduce
// the same result.
func Estimate(ctx context.Context, req Request) (Result, error) {
	if err := req.normalize(); err != nil {
		return Result{}, err
	}

	used := make(map[poker.Card]bool, len(req.Hole)+len(req.Board))
	for _, c := range req.Hole {
		used[c] = true
	}
	for _, c := range req.Board {
		used[c] = true
	}
	available := make([]poker.Card, 0, 52-len(used))
	for _, c := range poker.NewOrderedDeck().Remaining() {
		if !used[c] {
			available = append(available, c)
		}
	}

	perWorker := req.Samples / req.Workers
	remainder := req.Samples % req.Workers
	results := make([]workerResult, req.Workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := range req.Workers {
		samples := perWorker
		if w < remainder {
			samples++
		}
		rng := randutil.New(req.Seed + int64(w))
		g.Go(func() error {
			res, err := runWorker(ctx, &req, available, samples, rng)
			results[w] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var total workerResult
	for _, r := range results {
		total.wins += r.wins
		total.ties += r.ties
		total.share += r.share
		total.samples += r.samples
	}
	if total.samples == 0 {
		return Result{}, nil
	}
	n := float64(total.samples)
	return Result{
		Equity:  total.share / n,
		Win:     float64(total.wins) / n,
		Tie:     float64(total.ties) / n,
		Samples: total.samples,
	}, nil
}

func runWorker(ctx context.Context, req *Request, available []poker.Card, samples int, rng *rand.Rand) (workerResult, error) {
	var res workerResult

	deck := make([]poker.Card, len(available))
	holeSize := len(req.Hole)
	boardNeeded := 5 - len(req.Board)
	draw := req.Opponents*holeSize + boardNeeded
	board := make([]poker.Card, 5)
	copy(board, req.Board)

	for i := range samples {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		copy(deck, available)
		for j := range draw {
			k := j + rng.IntN(len(deck)-j)
			deck[j], deck[k] = deck[k], deck[j]
		}
		copy(board[len(req.Board):], deck[:boardNeeded])

		hero, err := poker.EvaluateBest(req.Hole, board, req.MinHole, req.MaxHole)
		if err != nil {
			return res, err
		}

		best, tied := 1, 1
		for o := range req.Opponents {
			start := boardNeeded + o*holeSize
			opp, err := poker.EvaluateBest(deck[start:start+holeSize], board, req.MinHole, req.MaxHole)
			if err != nil {
				return res, err
			}
			switch cmp := opp.Compare(hero); {
			case cmp > 0:
				best = 0
			case cmp == 0:
				tied++
			}
			if best == 0 {
				break
			}
		}

		res.samples++
		if best == 0 {
			continue
		}
		if tied > 1 {
			res.ties++
			res.share += 1 / float64(tied)
		} else {
			res.wins++
			res.share++
		}
	}
	return res, nil
}
