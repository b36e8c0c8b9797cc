package game

import (
	"context"
	"fmt"

	"github.com/lox/holdem/poker"
)

// showdown awards every slice, last to first. A lone survivor takes each slice
// without showing; otherwise the best hands among the slice's seats split it and
// odd chips go one at a time to winners starting left of the button.
func (t *Table) showdown(ctx context.Context) error {
	remaining := t.pot.NotFoldedCount()
	if remaining == 0 {
		return fmt.Errorf("everyone folded: %w", ErrMalformedPot)
	}
	t.street = Showdown
	t.actionSeat = NoSeat

	order := make([]int, 0, NumSeats)
	for i := 1; i <= NumSeats; i++ {
		if seat := (t.button + i) % NumSeats; t.seats.Occupied(seat) {
			order = append(order, seat)
		}
	}

	survivor := NoSeat
	if remaining == 1 {
		for _, seat := range order {
			if !t.pot.HasFolded(seat) {
				survivor = seat
				break
			}
		}
	}

	values := make(map[int]poker.HandValue)
	for i := len(t.pot.Slices) - 1; i >= 0; i-- {
		slice := &t.pot.Slices[i]
		chips := slice.Total()

		var (
			winners []int
			best    poker.HandValue
		)
		if survivor != NoSeat {
			winners = []int{survivor}
		} else {
			for _, seat := range order {
				if !slice.present(seat) {
					continue
				}
				hv, err := t.showHand(ctx, seat, values)
				if err != nil {
					return err
				}
				switch c := hv.Compare(best); {
				case winners == nil || c > 0:
					best = hv
					winners = []int{seat}
				case c == 0:
					winners = append(winners, seat)
				}
			}
		}

		if len(winners) == 0 {
			if i == 0 {
				return fmt.Errorf("%s has no contenders: %w", SliceName(i), ErrMalformedPot)
			}
			t.pot.Slices[i-1].Dead += slice.Dead
			slice.Dead = 0
			continue
		}
		if err := t.award(ctx, i, chips, winners, best, survivor == NoSeat); err != nil {
			return err
		}
	}
	return nil
}

// showHand evaluates and reveals seat's hand once per showdown.
func (t *Table) showHand(ctx context.Context, seat int, values map[int]poker.HandValue) (poker.HandValue, error) {
	if hv, ok := values[seat]; ok {
		return hv, nil
	}
	p := t.seats[seat]
	hv, err := poker.EvaluateBest(p.HoleCards, t.board, t.profile.MinHole(), t.profile.MaxHole())
	if err != nil {
		return poker.HandValue{}, fmt.Errorf("evaluate %s: %w", p.Name, err)
	}
	values[seat] = hv
	p.ShowsCards = true
	return hv, t.emit(ctx, Event{
		Type:   EventSeatShowsCards,
		Seat:   seat,
		Hand:   &hv,
		Status: fmt.Sprintf("%s shows %s for %s.", p.Name, poker.FormatCards(p.HoleCards), hv),
	})
}

func (t *Table) award(ctx context.Context, slice, chips int, winners []int, best poker.HandValue, shown bool) error {
	share, odd := chips/len(winners), chips%len(winners)
	for n, seat := range winners {
		won := share
		if n < odd {
			won++
		}
		if err := t.pot.RemoveDeadMoney(slice, won); err != nil {
			return err
		}
		p := t.seats[seat]
		p.Receive(won)

		var status string
		switch {
		case len(winners) > 1:
			status = fmt.Sprintf("%s splits the %s and wins %d with %s.", p.Name, SliceName(slice), won, best)
		case shown:
			status = fmt.Sprintf("%s wins %d from the %s with %s.", p.Name, won, SliceName(slice), best)
		default:
			status = fmt.Sprintf("%s wins %d from the %s.", p.Name, won, SliceName(slice))
		}
		ev := Event{Type: EventSeatWins, Seat: seat, Amount: won, Status: status}
		if shown {
			hv := best
			ev.Hand = &hv
		}
		if err := t.emit(ctx, ev); err != nil {
			return err
		}
	}
	return t.emit(ctx, Event{Type: EventPotChanged, Seat: NoSeat})
}
