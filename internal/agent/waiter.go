package agent

import (
	"context"
	"errors"
	"sync"

	"github.com/lox/holdem/internal/game"
)

var ErrNoPendingDecision = errors.New("no decision pending")

// Waiter hands decisions to someone outside the table loop, such as a
// terminal prompt. Decide publishes the request on Requests and blocks until
// Submit supplies the action. Cancelling the context suspends the hand.
type Waiter struct {
	requests chan game.ActionRequest

	mu      sync.Mutex
	pending chan game.Action
}

func NewWaiter() *Waiter {
	return &Waiter{requests: make(chan game.ActionRequest)}
}

// Requests delivers one request per pending decision.
func (w *Waiter) Requests() <-chan game.ActionRequest {
	return w.requests
}

// Submit answers the pending request. It fails with ErrNoPendingDecision when
// the decision was already answered or abandoned.
func (w *Waiter) Submit(action game.Action) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return ErrNoPendingDecision
	}
	w.pending <- action
	w.pending = nil
	return nil
}

func (w *Waiter) Decide(ctx context.Context, req game.ActionRequest) (game.Action, error) {
	reply := make(chan game.Action, 1)
	w.mu.Lock()
	w.pending = reply
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		if w.pending == reply {
			w.pending = nil
		}
		w.mu.Unlock()
	}()

	select {
	case w.requests <- req:
	case <-ctx.Done():
		return game.SuspendAction(), nil
	}

	select {
	case action := <-reply:
		return action, nil
	case <-ctx.Done():
		return game.SuspendAction(), nil
	}
}
