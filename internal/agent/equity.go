package agent

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lox/holdem/internal/equity"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
)

const (
	DefaultEquitySamples = 2000
	raiseEquity          = 0.65
)

// Equity plays by simulated showdown equity: it raises strong hands, calls
// when the price is right and folds the rest. Hold'em preflop decisions use
// the hole card category instead of a simulation. Cancelling the context
// suspends the hand.
type Equity struct {
	Samples int
	logger  zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEquity returns an Equity player whose simulations are seeded from rng.
func NewEquity(rng *rand.Rand, logger zerolog.Logger) *Equity {
	if rng == nil {
		rng = randutil.New(randutil.RandomSeed())
	}
	return &Equity{
		Samples: DefaultEquitySamples,
		logger:  logger.With().Str("component", "equity-agent").Logger(),
		rng:     rng,
	}
}

func (e *Equity) Decide(ctx context.Context, req game.ActionRequest) (game.Action, error) {
	if ctx.Err() != nil {
		return game.SuspendAction(), nil
	}
	if req.Street == game.Preflop && len(req.HoleCards) == 2 {
		return e.preflop(req), nil
	}

	e.mu.Lock()
	seed := e.rng.Int64()
	e.mu.Unlock()

	res, err := equity.Estimate(ctx, equity.Request{
		Hole:      req.HoleCards,
		Board:     req.Board,
		Opponents: min(max(req.Opponents, 1), game.NumSeats-1),
		Samples:   e.Samples,
		Seed:      seed,
		MinHole:   req.Profile.MinHole(),
		MaxHole:   req.Profile.MaxHole(),
	})
	if err != nil {
		if ctx.Err() != nil {
			return game.SuspendAction(), nil
		}
		return game.Action{}, fmt.Errorf("estimate equity: %w", err)
	}

	call := req.CallAmount()
	odds := 0.0
	if call > 0 {
		odds = float64(call) / float64(req.Pot+call)
	}

	e.logger.Debug().
		Str("hand_id", req.HandID).
		Int("seat", req.Seat).
		Float64("equity", res.Equity).
		Float64("pot_odds", odds).
		Msg("Estimated equity")

	reason := fmt.Sprintf("equity %.2f, pot odds %.2f", res.Equity, odds)
	switch {
	case res.Equity >= raiseEquity && req.RaiseAllowed:
		return game.Action{Kind: game.RaiseTo, Amount: req.DefaultRaise, Reasoning: reason}, nil
	case call == 0 || res.Equity >= odds:
		return game.Action{Kind: game.CheckOrCall, Reasoning: reason}, nil
	default:
		return game.Action{Kind: game.Fold, Reasoning: reason}, nil
	}
}

func (e *Equity) preflop(req game.ActionRequest) game.Action {
	category := poker.CategorizeHoleCards(req.HoleCards[0], req.HoleCards[1])
	reason := "preflop " + category.String()
	bb := req.Profile.BigBlind

	switch category {
	case poker.CategoryPremium:
		if req.RaiseAllowed {
			return game.Action{Kind: game.RaiseTo, Amount: req.DefaultRaise, Reasoning: reason}
		}
		return game.Action{Kind: game.CheckOrCall, Reasoning: reason}
	case poker.CategoryStrong, poker.CategoryMedium:
		if req.Owed <= 4*bb {
			return game.Action{Kind: game.CheckOrCall, Reasoning: reason}
		}
	case poker.CategoryWeak:
		if req.Owed <= bb {
			return game.Action{Kind: game.CheckOrCall, Reasoning: reason}
		}
	}
	if req.CanCheck() {
		return game.Action{Kind: game.CheckOrCall, Reasoning: reason}
	}
	return game.Action{Kind: game.Fold, Reasoning: reason}
}
