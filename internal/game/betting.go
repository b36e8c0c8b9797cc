package game

import (
	"context"
	"fmt"
)

// bettingRound runs the betting for the current street. When resume is set the
// round continues from the stored action seat without re-posting blinds.
func (t *Table) bettingRound(ctx context.Context, resume bool) (suspended bool, err error) {
	if !resume {
		seat, err := t.nextActiveSeat(t.button, NoSeat)
		if err != nil {
			return false, err
		}
		t.actionSeat = seat
		t.allInRaiseWithoutReopen = NoSeat
		t.bettingCompleted = false
		t.bigBlindOption = false

		if t.street == Preflop {
			if err := t.postBlindsAndAntes(ctx); err != nil {
				return false, err
			}
		}
		if err := t.findFirstActionSeat(); err != nil {
			return false, err
		}
	}

	for !t.bettingCompleted || t.pot.PlayersStillOwe() {
		if t.pot.NotFoldedCount() <= 1 {
			t.bettingCompleted = true
			break
		}
		seat := t.actionSeat
		if t.pot.IsActive(seat) && (!t.bettingCompleted || t.pot.Owed(seat) > 0) {
			suspended, err := t.takeAction(ctx, seat)
			if err != nil || suspended {
				return suspended, err
			}
		}

		if t.pot.ActiveCount() == 0 {
			t.bettingCompleted = true
			if t.pot.PlayersStillOwe() {
				return false, fmt.Errorf("nobody left to act but bets are unmatched: %w", ErrMalformedPot)
			}
			break
		}

		next, err := t.nextActiveSeat(seat, t.pot.OpeningSeat)
		if err != nil {
			return false, err
		}
		t.actionSeat = next
		if next == t.pot.OpeningSeat && !t.bettingCompleted {
			if t.street == Preflop && !t.bigBlindOption && next == t.bigBlindSeat &&
				t.pot.IsActive(next) && t.pot.ActiveCount() > 1 && t.pot.CurrentBet() == t.profile.BigBlind {
				t.bigBlindOption = true
			} else {
				t.bettingCompleted = true
			}
		}
	}

	if err := t.pot.FinishBetting(); err != nil {
		return false, err
	}
	t.actionSeat = NoSeat
	return false, t.emit(ctx, Event{Type: EventPotChanged, Seat: NoSeat, Status: "Betting completed."})
}

// takeAction asks seat for a decision and applies it.
func (t *Table) takeAction(ctx context.Context, seat int) (suspended bool, err error) {
	p := t.seats[seat]
	status := fmt.Sprintf("Action on %s.", p.Name)
	if bet := t.pot.CurrentBet(); bet > 0 {
		status += fmt.Sprintf(" The bet is %d.", bet)
	}
	if err := t.emit(ctx, Event{Type: EventActionOn, Seat: seat, Status: status}); err != nil {
		return false, err
	}

	req, err := t.actionRequest(seat)
	if err != nil {
		return false, err
	}
	provider := t.providers[seat]
	if provider == nil {
		return false, fmt.Errorf("action on seat %d: %w", seat, ErrNoProvider)
	}
	action, err := provider.Decide(ctx, req)
	if err != nil {
		return false, fmt.Errorf("%s decide: %w", p.Name, err)
	}
	if action.Kind == Suspend {
		return true, nil
	}

	raises := t.pot.Raises
	if err := t.applyAction(seat, action, req); err != nil {
		return false, fmt.Errorf("%s %s: %w", p.Name, action, err)
	}
	t.logger.Debug().
		Str("hand_id", t.handID).
		Str("player", p.Name).
		Stringer("action", action).
		Str("reasoning", action.Reasoning).
		Int("pot", t.pot.Total()).
		Msg("Player action")

	if action.Kind == RaiseTo && t.pot.IsAllIn(seat) && t.pot.Raises == raises && t.pot.CurrentBet() > req.CurrentBet {
		t.allInRaiseWithoutReopen = seat
	}
	if t.street == Preflop && t.bigBlindOption && seat == t.bigBlindSeat &&
		(t.pot.HasFolded(seat) || t.pot.TotalInvested(seat) == req.Invested) {
		t.bettingCompleted = true
	}

	if err := t.emit(ctx, Event{
		Type:   EventSeatBetChanged,
		Seat:   seat,
		Amount: t.pot.TotalInvested(seat),
		Status: t.describeAction(seat, req),
	}); err != nil {
		return false, err
	}
	return false, t.emit(ctx, Event{Type: EventPotChanged, Seat: seat})
}

// actionRequest builds the betting context for seat.
func (t *Table) actionRequest(seat int) (ActionRequest, error) {
	minRaise, err := t.pot.MinRaise(t.street)
	if err != nil {
		return ActionRequest{}, err
	}
	maxRaise, err := t.pot.MaxRaise(seat, t.street)
	if err != nil {
		return ActionRequest{}, err
	}

	bet := t.pot.CurrentBet()
	var defaultRaise int
	switch t.profile.Limit {
	case FixedLimit:
		defaultRaise = maxRaise
	default:
		defaultRaise = 3 * t.profile.BigBlind
		if bet > 0 {
			defaultRaise = 3 * bet
		}
	}
	minRaise = min(minRaise, maxRaise)
	defaultRaise = max(min(defaultRaise, maxRaise), minRaise)

	p := t.seats[seat]
	invested := t.pot.TotalInvested(seat)
	owed := bet - invested
	return ActionRequest{
		HandID:       t.handID,
		Seat:         seat,
		Name:         p.Name,
		Street:       t.street,
		CurrentBet:   bet,
		Invested:     invested,
		Owed:         owed,
		Stack:        p.Stack,
		MinRaise:     minRaise,
		MaxRaise:     maxRaise,
		DefaultRaise: defaultRaise,
		Increment:    t.profile.BigBlind,
		RaiseAllowed: !t.bettingCompleted && t.profile.RaiseAllowed(t.pot.Raises) && p.Stack > owed,
		Raises:       t.pot.Raises,
		Pot:          t.pot.Total(),
		Opponents:    t.pot.NotFoldedCount() - 1,
		HoleCards:    append(p.HoleCards[:0:0], p.HoleCards...),
		Board:        t.Board(),
		Profile:      t.profile,
	}, nil
}

// applyAction maps a decision onto the ledger. A fold that owes nothing checks.
// A raise above the maximum is clamped; one below the minimum is only legal as
// an all-in.
func (t *Table) applyAction(seat int, action Action, req ActionRequest) error {
	switch action.Kind {
	case Fold:
		if req.Owed <= 0 {
			return t.pot.Call(seat)
		}
		return t.pot.Fold(seat)
	case CheckOrCall:
		return t.pot.Call(seat)
	case RaiseTo:
		if !req.RaiseAllowed {
			return fmt.Errorf("raising is not allowed: %w", ErrIllegalAction)
		}
		total := min(action.Amount, req.MaxRaise)
		chips := total - req.Invested
		allIn := chips >= req.Stack
		if total <= req.CurrentBet && !allIn {
			return fmt.Errorf("raise to %d does not exceed the bet of %d: %w", total, req.CurrentBet, ErrIllegalAction)
		}
		if total < req.MinRaise && !allIn {
			return fmt.Errorf("raise to %d is below the minimum of %d: %w", total, req.MinRaise, ErrIllegalAction)
		}
		return t.pot.PostBet(seat, chips, Voluntary)
	default:
		return fmt.Errorf("unknown action %d: %w", action.Kind, ErrIllegalAction)
	}
}

// describeAction renders what seat just did, judged by the ledger before and after.
func (t *Table) describeAction(seat int, before ActionRequest) string {
	name := t.seats[seat].Name
	invested := t.pot.TotalInvested(seat)
	switch {
	case t.pot.HasFolded(seat):
		return name + " folds."
	case invested == before.Invested:
		return name + " checks."
	case invested > before.CurrentBet && before.CurrentBet == 0:
		return fmt.Sprintf("%s bets %d.", name, invested)
	case invested > before.CurrentBet:
		return fmt.Sprintf("%s raises to %d.", name, invested)
	default:
		return fmt.Sprintf("%s calls %d.", name, invested)
	}
}

// postBlindsAndAntes posts the forced bets. A player all-in from the ante
// still posts a blind of zero, so the big blind keeps opening the round.
func (t *Table) postBlindsAndAntes(ctx context.Context) error {
	if ante := t.profile.Ante; ante > 0 {
		for i := 1; i <= NumSeats; i++ {
			seat := (t.button + i) % NumSeats
			if !t.seats.Occupied(seat) {
				continue
			}
			if err := t.pot.PostBet(seat, ante, Ante); err != nil {
				return fmt.Errorf("post ante for seat %d: %w", seat, err)
			}
		}
		if err := t.pot.FinishBetting(); err != nil {
			return fmt.Errorf("collect antes: %w", err)
		}
		if err := t.emit(ctx, Event{Type: EventPotChanged, Seat: NoSeat, Status: fmt.Sprintf("Posting antes (%d).", ante)}); err != nil {
			return err
		}
	}

	sb, bb := t.smallBlindSeat, t.bigBlindSeat
	if err := t.pot.PostBet(sb, t.profile.SmallBlind, SmallBlind); err != nil {
		return fmt.Errorf("post small blind: %w", err)
	}
	if err := t.pot.PostBet(bb, t.profile.BigBlind, BigBlind); err != nil {
		return fmt.Errorf("post big blind: %w", err)
	}
	return t.emit(ctx, Event{
		Type:   EventPotChanged,
		Seat:   NoSeat,
		Status: fmt.Sprintf("Posting small blind (%d) and big blind (%d).", t.profile.SmallBlind, t.profile.BigBlind),
	})
}

// findFirstActionSeat sets who acts first on the street and, after the flop,
// who opens the round.
func (t *Table) findFirstActionSeat() error {
	if t.pot.ActiveCount() == 0 {
		return nil
	}
	var err error
	switch {
	case t.street == Preflop && t.seats.Count() == 2:
		t.actionSeat = t.smallBlindSeat
	case t.street == Preflop:
		t.actionSeat, err = t.nextActiveSeat(t.bigBlindSeat, NoSeat)
	default:
		t.actionSeat, err = t.nextActiveSeat(t.button, NoSeat)
		t.pot.OpeningSeat = t.actionSeat
	}
	return err
}
