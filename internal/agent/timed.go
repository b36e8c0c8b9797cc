package agent

import (
	"context"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/holdem/internal/game"
)

// Timed puts a turn timer on another provider. When the timer fires the seat
// checks if it owes nothing and folds otherwise.
type Timed struct {
	provider game.ActionProvider
	timeout  time.Duration
	clock    quartz.Clock
	logger   zerolog.Logger
}

// NewTimed wraps provider. A non-positive timeout disables the timer.
func NewTimed(provider game.ActionProvider, timeout time.Duration, clock quartz.Clock, logger zerolog.Logger) *Timed {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Timed{
		provider: provider,
		timeout:  timeout,
		clock:    clock,
		logger:   logger.With().Str("component", "turn-timer").Logger(),
	}
}

type decision struct {
	action game.Action
	err    error
}

func (t *Timed) Decide(ctx context.Context, req game.ActionRequest) (game.Action, error) {
	if t.timeout <= 0 {
		return t.provider.Decide(ctx, req)
	}

	inner, cancel := context.WithCancel(ctx)
	defer cancel()

	expired := make(chan struct{})
	timer := t.clock.AfterFunc(t.timeout, func() {
		close(expired)
		cancel()
	}, "agent", "timed")
	defer timer.Stop()

	done := make(chan decision, 1)
	go func() {
		action, err := t.provider.Decide(inner, req)
		done <- decision{action, err}
	}()

	select {
	case d := <-done:
		if d.action.Kind == game.Suspend && ctx.Err() == nil && isClosed(expired) {
			return t.expire(req), nil
		}
		return d.action, d.err
	case <-expired:
		return t.expire(req), nil
	case <-ctx.Done():
		return game.SuspendAction(), nil
	}
}

func (t *Timed) expire(req game.ActionRequest) game.Action {
	t.logger.Warn().
		Str("hand_id", req.HandID).
		Str("player", req.Name).
		Dur("timeout", t.timeout).
		Msg("Decision timed out")
	if req.CanCheck() {
		return game.Action{Kind: game.CheckOrCall, Reasoning: "timed out"}
	}
	return game.Action{Kind: game.Fold, Reasoning: "timed out"}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
