package game

import (
	"fmt"

	"github.com/lox/holdem/poker"
)

// SnapshotVersion is the current snapshot layout.
const SnapshotVersion = 1

// Snapshot is the complete state of a table between decisions. It holds no
// providers or listeners; reattach them after Restore.
type Snapshot struct {
	Version        int              `json:"version"`
	Profile        Profile          `json:"profile"`
	Seats          Seats            `json:"seats"`
	Button         int              `json:"button"`
	SmallBlindSeat int              `json:"small_blind_seat"`
	BigBlindSeat   int              `json:"big_blind_seat"`
	ActionSeat     int              `json:"action_seat"`
	Street         Street           `json:"street"`
	Board          []poker.Card     `json:"board,omitempty"`
	Deck           *poker.Deck      `json:"deck,omitempty"`
	Pot            *Pot             `json:"pot,omitempty"`
	HandID         string           `json:"hand_id,omitempty"`
	HandInProgress bool             `json:"hand_in_progress"`
	History        *HandHistory     `json:"history"`

	BettingCompleted        bool `json:"betting_completed"`
	BigBlindOption          bool `json:"big_blind_option"`
	AllInRaiseWithoutReopen int  `json:"all_in_raise_without_reopen"`
}

// Snapshot returns a deep copy of the table state.
func (t *Table) Snapshot() *Snapshot {
	return &Snapshot{
		Version:                 SnapshotVersion,
		Profile:                 t.profile,
		Seats:                   t.seats.clone(),
		Button:                  t.button,
		SmallBlindSeat:          t.smallBlindSeat,
		BigBlindSeat:            t.bigBlindSeat,
		ActionSeat:              t.actionSeat,
		Street:                  t.street,
		Board:                   t.Board(),
		Deck:                    t.deck.Clone(),
		Pot:                     t.pot.clone(),
		HandID:                  t.handID,
		HandInProgress:          t.handInProgress,
		History:                 t.history.clone(),
		BettingCompleted:        t.bettingCompleted,
		BigBlindOption:          t.bigBlindOption,
		AllInRaiseWithoutReopen: t.allInRaiseWithoutReopen,
	}
}

// Restore rebuilds a table from a snapshot. Options apply as for NewTable;
// providers must be attached before a suspended hand can resume.
func Restore(snap *Snapshot, opts ...TableOption) (*Table, error) {
	if snap == nil {
		return nil, fmt.Errorf("restore: nil snapshot")
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("restore: unsupported snapshot version %d", snap.Version)
	}
	t, err := NewTable(snap.Profile, opts...)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	writer := t.history.writer
	if snap.History != nil {
		t.history = snap.History.clone()
		t.history.SetWriter(writer)
	}
	t.seats = snap.Seats.clone()
	t.button = snap.Button
	t.smallBlindSeat = snap.SmallBlindSeat
	t.bigBlindSeat = snap.BigBlindSeat
	t.actionSeat = snap.ActionSeat
	t.street = snap.Street
	t.board = append([]poker.Card(nil), snap.Board...)
	t.deck = snap.Deck.Clone()
	t.handID = snap.HandID
	t.handInProgress = snap.HandInProgress
	t.bettingCompleted = snap.BettingCompleted
	t.bigBlindOption = snap.BigBlindOption
	t.allInRaiseWithoutReopen = snap.AllInRaiseWithoutReopen

	if t.button != NoSeat && !validSeat(t.button) {
		return nil, fmt.Errorf("restore: button %d: %w", t.button, ErrInvalidSeat)
	}
	if snap.Pot != nil {
		t.pot = snap.Pot.clone()
		t.pot.bind(&t.seats, t.profile)
		if err := t.pot.validate(); err != nil {
			return nil, fmt.Errorf("restore: %w", err)
		}
	}
	if t.handInProgress {
		if t.pot == nil || t.deck == nil {
			return nil, fmt.Errorf("restore: hand in progress without pot or deck: %w", ErrMalformedPot)
		}
		if !t.seats.Occupied(t.actionSeat) {
			return nil, fmt.Errorf("restore: action seat %d: %w", t.actionSeat, ErrInvalidSeat)
		}
		if err := poker.CheckDistinct(t.board, t.deck.Remaining()); err != nil {
			return nil, fmt.Errorf("restore: %w", err)
		}
	}
	return t, nil
}
