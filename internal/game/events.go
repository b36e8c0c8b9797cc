package game

import (
	"context"
	"fmt"
	"reflect"

	"github.com/lox/holdem/poker"
)

// EventType represents a table lifecycle event
type EventType string

const (
	EventBeginHand        EventType = "begin_hand"
	EventHoleCardsDealt   EventType = "hole_cards_dealt"
	EventCommunityDealt   EventType = "community_cards_dealt"
	EventActionOn         EventType = "action_on"
	EventSeatBetChanged   EventType = "seat_bet_changed"
	EventPotChanged       EventType = "pot_changed"
	EventSeatShowsCards   EventType = "seat_shows_cards"
	EventSeatWins         EventType = "seat_wins"
	EventButtonMoved      EventType = "button_moved"
	EventSeatJoinedOrLeft EventType = "seat_joined_or_left"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is an immutable snapshot delivered to listeners.
type Event struct {
	Type       EventType
	Status     string // human-readable line, empty for pure state refreshes
	HandID     string
	HandNumber int
	Street     Street
	Board      []poker.Card
	Slices     []Slice // copy of the ledger
	CurrentBet int
	Button     int
	Seat       int // the seat the event is about, or NoSeat
	Amount     int // chips won for EventSeatWins, stake for EventSeatBetChanged
	Hand       *poker.HandValue
	Left       bool // for EventSeatJoinedOrLeft
}

func (e Event) String() string {
	if e.Status != "" {
		return e.Status
	}
	return fmt.Sprintf("%s seat=%d", e.Type, e.Seat)
}

// Listener receives lifecycle events. Events are delivered synchronously and in
// order; returning an error aborts the hand.
type Listener interface {
	OnEvent(ctx context.Context, event Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, event Event) error

func (f ListenerFunc) OnEvent(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// EventBus fans events out to listeners in subscription order.
type EventBus struct {
	listeners []Listener
}

// Subscribe adds a listener to receive events
func (bus *EventBus) Subscribe(listener Listener) {
	bus.listeners = append(bus.listeners, listener)
}

// Unsubscribe removes a listener from receiving events. Listeners of
// uncomparable types, such as ListenerFunc, are left subscribed.
func (bus *EventBus) Unsubscribe(listener Listener) {
	if typ := reflect.TypeOf(listener); typ == nil || !typ.Comparable() {
		return
	}
	for i, l := range bus.listeners {
		if l == listener {
			bus.listeners = append(bus.listeners[:i], bus.listeners[i+1:]...)
			break
		}
	}
}

// Publish delivers event to every listener, waiting for each before the next.
func (bus *EventBus) Publish(ctx context.Context, event Event) error {
	for _, l := range bus.listeners {
		if err := l.OnEvent(ctx, event); err != nil {
			return fmt.Errorf("%s listener: %w", event.Type, err)
		}
	}
	return nil
}
