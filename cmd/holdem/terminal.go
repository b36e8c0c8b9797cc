package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/lox/holdem/internal/agent"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/poker"
)

var errUnknownCommand = errors.New("unknown command")

// terminal prints table events and answers human decisions from text input.
// All human seats share its waiter; only one decision is pending at a time.
type terminal struct {
	mu     sync.Mutex
	in     *bufio.Scanner
	out    io.Writer
	waiter *agent.Waiter
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{
		in:     bufio.NewScanner(in),
		out:    out,
		waiter: agent.NewWaiter(),
	}
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) OnEvent(_ context.Context, event game.Event) error {
	if event.Status != "" {
		t.printf("%s\n", event.Status)
	}
	return nil
}

// serve answers requests until ctx is done or input ends. At end of input
// the pending hand is suspended.
func (t *terminal) serve(ctx context.Context) {
	for {
		select {
		case req := <-t.waiter.Requests():
			action := t.prompt(req)
			if err := t.waiter.Submit(action); err != nil {
				t.printf("Too late, %s's turn timed out.\n", req.Name)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (t *terminal) prompt(req game.ActionRequest) game.Action {
	t.printf("%s holds %s", req.Name, poker.FormatCards(req.HoleCards))
	if len(req.Board) > 0 {
		t.printf(" on %s", poker.FormatCards(req.Board))
	}
	t.printf(". Pot %d, stack %d.\n", req.Pot, req.Stack)

	for {
		t.printf("%s > ", choices(req))
		if !t.in.Scan() {
			t.printf("\n")
			return game.SuspendAction()
		}
		action, err := parseAction(t.in.Text(), req)
		if err != nil {
			t.printf("%v\n", err)
			continue
		}
		return action
	}
}

func choices(req game.ActionRequest) string {
	var parts []string
	if req.CanCheck() {
		parts = append(parts, "[c]heck")
	} else {
		parts = append(parts, "[f]old", fmt.Sprintf("[c]all %d", req.CallAmount()))
	}
	if req.RaiseAllowed {
		verb := "[r]aise"
		if req.CurrentBet == 0 {
			verb = "[b]et"
		}
		if req.MinRaise == req.MaxRaise {
			parts = append(parts, fmt.Sprintf("%s to %d", verb, req.MaxRaise))
		} else {
			parts = append(parts, fmt.Sprintf("%s %d-%d (default %d)", verb, req.MinRaise, req.MaxRaise, req.DefaultRaise))
		}
		parts = append(parts, "[a]ll in")
	}
	parts = append(parts, "[s]uspend")
	return strings.Join(parts, ", ")
}

// parseAction reads one line of input. An empty line checks or calls; a
// raise without an amount uses the suggested size.
func parseAction(line string, req game.ActionRequest) (game.Action, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return game.CheckOrCallAction(), nil
	}

	switch fields[0] {
	case "f", "fold":
		if req.CanCheck() {
			return game.Action{}, errors.New("nothing to call, check instead")
		}
		return game.FoldAction(), nil
	case "c", "k", "call", "check":
		return game.CheckOrCallAction(), nil
	case "s", "suspend", "q", "quit":
		return game.SuspendAction(), nil
	case "a", "allin", "all-in":
		if !req.RaiseAllowed {
			return game.Action{}, errors.New("raising is closed")
		}
		return game.RaiseToAction(req.MaxRaise), nil
	case "r", "b", "raise", "bet":
		if !req.RaiseAllowed {
			return game.Action{}, errors.New("raising is closed")
		}
		if len(fields) == 1 {
			return game.RaiseToAction(req.DefaultRaise), nil
		}
		total, err := strconv.Atoi(fields[1])
		if err != nil {
			return game.Action{}, fmt.Errorf("bad amount %q", fields[1])
		}
		if total < req.MinRaise || total > req.MaxRaise {
			return game.Action{}, fmt.Errorf("raise to between %d and %d", req.MinRaise, req.MaxRaise)
		}
		return game.RaiseToAction(total), nil
	default:
		return game.Action{}, fmt.Errorf("%w %q", errUnknownCommand, fields[0])
	}
}
