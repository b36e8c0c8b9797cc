// Package agent provides the action providers that can sit at a table.
package agent

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
)

// CallingStation checks or calls every decision.
type CallingStation struct{}

func (CallingStation) Decide(context.Context, game.ActionRequest) (game.Action, error) {
	return game.Action{Kind: game.CheckOrCall, Reasoning: "calling station"}, nil
}

// Random plays a loose random strategy: half its free checks become a raise
// to two big blinds and a fifth of the bets it faces are folded.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random drawing from rng, or a freshly seeded source when rng is nil.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = randutil.New(randutil.RandomSeed())
	}
	return &Random{rng: rng}
}

func (r *Random) Decide(_ context.Context, req game.ActionRequest) (game.Action, error) {
	r.mu.Lock()
	roll := r.rng.Float64()
	r.mu.Unlock()

	switch {
	case !req.RaiseAllowed:
		return game.Action{Kind: game.CheckOrCall, Reasoning: "raising closed"}, nil
	case req.CanCheck():
		if roll < 0.5 {
			return game.Action{Kind: game.CheckOrCall, Reasoning: "random check"}, nil
		}
		return game.Action{
			Kind:      game.RaiseTo,
			Amount:    clampRaise(req, 2*req.Profile.BigBlind),
			Reasoning: "random raise",
		}, nil
	case roll < 0.2:
		return game.Action{Kind: game.Fold, Reasoning: "random fold"}, nil
	default:
		return game.Action{Kind: game.CheckOrCall, Reasoning: "random call"}, nil
	}
}

// clampRaise keeps a raise-to total inside the legal range.
func clampRaise(req game.ActionRequest, total int) int {
	return min(max(total, req.MinRaise), req.MaxRaise)
}
