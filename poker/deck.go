package poker

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
)

var ErrDeckEmpty = errors.New("deck is empty")

// Deck is the draw sequence for one hand. Cards are drawn from the front.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a deck shuffled with the given rng.
func NewDeck(rng *rand.Rand) *Deck {
	d := NewOrderedDeck()
	d.rng = rng
	d.Shuffle()
	return d
}

// NewOrderedDeck creates an unshuffled deck: clubs, spades, hearts, diamonds, each two through ace.
func NewOrderedDeck() *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	return d
}

// NewStackedDeck creates a deck that deals the given cards in order. Intended for tests
// and replays; the cards must be distinct.
func NewStackedDeck(cards []Card) (*Deck, error) {
	if err := CheckDistinct(cards); err != nil {
		return nil, err
	}
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d, nil
}

// Shuffle shuffles the undealt cards using Fisher-Yates.
func (d *Deck) Shuffle() {
	rest := d.cards[d.next:]
	for i := len(rest) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		rest[i], rest[j] = rest[j], rest[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrDeckEmpty
	}
	card := d.cards[d.next]
	d.next++
	return card, nil
}

// Deal draws n cards.
func (d *Deck) Deal(n int) ([]Card, error) {
	if d.next+n > len(d.cards) {
		return nil, fmt.Errorf("deal %d with %d remaining: %w", n, d.CardsRemaining(), ErrDeckEmpty)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}

// Remaining returns a copy of the undealt cards in draw order.
func (d *Deck) Remaining() []Card {
	out := make([]Card, d.CardsRemaining())
	copy(out, d.cards[d.next:])
	return out
}

// Clone returns an independent copy holding the undealt cards. The copy has no rng.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	return &Deck{cards: d.Remaining()}
}

// MarshalJSON encodes the undealt cards in draw order.
func (d *Deck) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Remaining())
}

func (d *Deck) UnmarshalJSON(data []byte) error {
	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return err
	}
	if err := CheckDistinct(cards); err != nil {
		return fmt.Errorf("decode deck: %w", err)
	}
	d.cards = cards
	d.next = 0
	return nil
}
