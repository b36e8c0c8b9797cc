package game

import (
	"context"
	"fmt"

	"github.com/lox/holdem/poker"
)

// ActionKind is the kind of decision a seat returns.
type ActionKind int

const (
	Fold ActionKind = iota
	CheckOrCall
	RaiseTo
	// Suspend stops the hand at the current decision point without changing any state.
	Suspend
)

func (k ActionKind) String() string {
	switch k {
	case Fold:
		return "fold"
	case CheckOrCall:
		return "check/call"
	case RaiseTo:
		return "raise"
	case Suspend:
		return "suspend"
	default:
		return "unknown"
	}
}

// Action is a seat's decision. Amount is the raise-to total and only used with RaiseTo.
type Action struct {
	Kind      ActionKind
	Amount    int
	Reasoning string // Human-readable explanation, logged only
}

func FoldAction() Action        { return Action{Kind: Fold} }
func CheckOrCallAction() Action { return Action{Kind: CheckOrCall} }
func SuspendAction() Action     { return Action{Kind: Suspend} }
func RaiseToAction(total int) Action {
	return Action{Kind: RaiseTo, Amount: total}
}

func (a Action) String() string {
	if a.Kind == RaiseTo {
		return fmt.Sprintf("raise to %d", a.Amount)
	}
	return a.Kind.String()
}

// ActionRequest is the betting context handed to a seat when action is on it.
type ActionRequest struct {
	HandID string
	Seat   int
	Name   string
	Street Street

	CurrentBet   int  // total bet to match this street
	Invested     int  // what the seat already put in this street
	Owed         int  // CurrentBet - Invested, before clamping to the stack
	Stack        int  // chips behind
	MinRaise     int  // smallest legal raise-to total
	MaxRaise     int  // largest legal raise-to total
	DefaultRaise int  // suggested raise-to total
	Increment    int  // raise granularity
	RaiseAllowed bool // false once raises are capped or the round has closed
	Raises       int  // raises this street, counting the big blind

	Pot       int // every chip in the ledger
	Opponents int // other players still in the hand
	HoleCards []poker.Card
	Board     []poker.Card
	Profile   Profile
}

// CanCheck reports whether the seat owes nothing.
func (r ActionRequest) CanCheck() bool { return r.Owed <= 0 }

// CallAmount is the chips a call would add, limited by the stack.
func (r ActionRequest) CallAmount() int { return max(0, min(r.Owed, r.Stack)) }

// ActionProvider supplies a seat's decisions. Interactive and autonomous
// players implement the same interface.
type ActionProvider interface {
	Decide(ctx context.Context, req ActionRequest) (Action, error)
}

// ProviderFunc adapts a function to ActionProvider.
type ProviderFunc func(ctx context.Context, req ActionRequest) (Action, error)

func (f ProviderFunc) Decide(ctx context.Context, req ActionRequest) (Action, error) {
	return f(ctx, req)
}

// ActionFromChips converts a "chips to add" amount into an Action: less than
// owed without going all-in folds, up to the owed amount checks or calls, and
// anything more raises to the resulting total.
func ActionFromChips(req ActionRequest, chips int) Action {
	switch {
	case chips < req.Owed && chips < req.Stack:
		return FoldAction()
	case chips <= req.Owed:
		return CheckOrCallAction()
	default:
		return RaiseToAction(req.Invested + chips)
	}
}
