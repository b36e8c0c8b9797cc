package game

import (
	"fmt"

	"github.com/lox/holdem/poker"
)

// NumSeats is the fixed number of chairs at a table.
const NumSeats = 8

// NoSeat marks an unset seat position.
const NoSeat = -1

// Player is the occupant of a seat. The stack only changes through Commit and Receive.
type Player struct {
	Name       string       `json:"name"`
	Stack      int          `json:"stack"`
	HoleCards  []poker.Card `json:"hole_cards,omitempty"`
	ShowsCards bool         `json:"shows_cards,omitempty"`
}

// NewPlayer creates a player with a starting stack.
func NewPlayer(name string, stack int) *Player {
	return &Player{Name: name, Stack: stack}
}

// Commit removes chips from the stack. It never takes more than the stack holds.
func (p *Player) Commit(amount int) error {
	if amount < 0 || amount > p.Stack {
		return fmt.Errorf("%s cannot commit %d from a stack of %d: %w", p.Name, amount, p.Stack, ErrMalformedPot)
	}
	p.Stack -= amount
	return nil
}

// Receive adds chips to the stack.
func (p *Player) Receive(amount int) {
	p.Stack += amount
}

func (p *Player) clone() *Player {
	if p == nil {
		return nil
	}
	c := *p
	c.HoleCards = append([]poker.Card(nil), p.HoleCards...)
	return &c
}

// Seats is the arena of chairs; a nil entry is an empty chair.
type Seats [NumSeats]*Player

// Occupied reports whether a player sits in seat.
func (s *Seats) Occupied(seat int) bool {
	return validSeat(seat) && s[seat] != nil
}

// Count returns the number of seated players.
func (s *Seats) Count() int {
	n := 0
	for _, p := range s {
		if p != nil {
			n++
		}
	}
	return n
}

// Chips returns the sum of all stacks.
func (s *Seats) Chips() int {
	total := 0
	for _, p := range s {
		if p != nil {
			total += p.Stack
		}
	}
	return total
}

func (s *Seats) clone() Seats {
	var c Seats
	for i, p := range s {
		c[i] = p.clone()
	}
	return c
}

func validSeat(seat int) bool {
	return seat >= 0 && seat < NumSeats
}
