package poker

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCard   = errors.New("invalid card")
	ErrDuplicateCard = errors.New("duplicate card")
)

// Suit of a card. The zero value is not a valid suit.
type Suit uint8

const (
	Clubs Suit = iota + 1
	Spades
	Hearts
	Diamonds
)

// Suits lists every suit in deck order.
var Suits = [...]Suit{Clubs, Spades, Hearts, Diamonds}

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "c"
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	default:
		return "?"
	}
}

// Name returns the plural English name of the suit.
func (s Suit) Name() string {
	switch s {
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	default:
		return "unknown"
	}
}

// Rank of a card, 2 through 14 where 14 is the ace.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-Two])
}

var rankNames = [...]string{"two", "three", "four", "five", "six", "seven", "eight", "nine", "ten", "jack", "queen", "king", "ace"}

// Name returns the English name of the rank.
func (r Rank) Name() string {
	if r < Two || r > Ace {
		return "unknown"
	}
	return rankNames[r-Two]
}

// Plural returns the plural English name ("sixes", "aces").
func (r Rank) Plural() string {
	if r == Six {
		return "sixes"
	}
	return r.Name() + "s"
}

// Card is an immutable playing card.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card from a rank and a suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Valid reports whether the card has a real rank and suit.
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit >= Clubs && c.Suit <= Diamonds
}

// String returns the two character form, e.g. "As" or "Td".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// index maps a valid card to 0..51.
func (c Card) index() int {
	return int(c.Suit-Clubs)*13 + int(c.Rank-Two)
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: rank %d suit %d", ErrInvalidCard, c.Rank, c.Suit)
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a card in "As", "Td" or "10d" notation.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	idx := strings.IndexByte(rankChars, strings.ToUpper(s[:1])[0])
	if idx < 0 {
		return Card{}, fmt.Errorf("%w: bad rank in %q", ErrInvalidCard, s)
	}

	var suit Suit
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 's', 'S':
		suit = Spades
	case 'h', 'H':
		suit = Hearts
	case 'd', 'D':
		suit = Diamonds
	default:
		return Card{}, fmt.Errorf("%w: bad suit in %q", ErrInvalidCard, s)
	}

	return Card{Rank: Two + Rank(idx), Suit: suit}, nil
}

// ParseCards parses a run of cards, with or without separators: "AhKh", "Ah Kh", "Ah,Kh".
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(",", "", " ", "", "\t", "").Replace(s)
	s = strings.ReplaceAll(s, "10", "T")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %q", ErrInvalidCard, s)
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals in tests and tables.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins cards with spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// CheckDistinct returns ErrDuplicateCard if any card repeats and ErrInvalidCard for malformed cards.
func CheckDistinct(cards ...[]Card) error {
	var seen uint64
	for _, set := range cards {
		for _, c := range set {
			if !c.Valid() {
				return fmt.Errorf("%w: rank %d suit %d", ErrInvalidCard, c.Rank, c.Suit)
			}
			bit := uint64(1) << c.index()
			if seen&bit != 0 {
				return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
			}
			seen |= bit
		}
	}
	return nil
}
