package game

import (
	"fmt"
	"strings"
)

// Family selects the card rules of a game.
type Family string

const (
	Holdem Family = "holdem"
	Omaha  Family = "omaha"
)

// Limit selects the betting structure.
type Limit string

const (
	NoLimit    Limit = "no-limit"
	FixedLimit Limit = "fixed-limit"
	// PotLimit is accepted in configuration but every sizing query fails with ErrNotImplemented.
	PotLimit Limit = "pot-limit"
)

// DefaultMaxRaises caps raises per street in fixed-limit games.
const DefaultMaxRaises = 3

// Profile describes the game played at a table.
type Profile struct {
	Family     Family `json:"family"`
	Limit      Limit  `json:"limit"`
	SmallBlind int    `json:"small_blind"`
	BigBlind   int    `json:"big_blind"`
	Ante       int    `json:"ante"`
	// MaxRaises caps the number of raises per street, counting the big blind. Zero means uncapped.
	MaxRaises int `json:"max_raises"`
}

// HoldemProfile returns a no-limit hold'em profile.
func HoldemProfile(smallBlind, bigBlind int) Profile {
	return Profile{Family: Holdem, Limit: NoLimit, SmallBlind: smallBlind, BigBlind: bigBlind}
}

// HoleCards is the number of hole cards dealt to each player.
func (p Profile) HoleCards() int {
	if p.Family == Omaha {
		return 4
	}
	return 2
}

// MinHole is the fewest hole cards a showdown hand may use.
func (p Profile) MinHole() int {
	if p.Family == Omaha {
		return 2
	}
	return 0
}

// MaxHole is the most hole cards a showdown hand may use.
func (p Profile) MaxHole() int { return 2 }

// RaiseAllowed reports whether another raise fits under the cap.
func (p Profile) RaiseAllowed(raises int) bool {
	return p.MaxRaises <= 0 || raises < p.MaxRaises
}

func (p Profile) Validate() error {
	switch p.Family {
	case Holdem, Omaha:
	default:
		return fmt.Errorf("unknown game family %q", p.Family)
	}
	switch p.Limit {
	case NoLimit, FixedLimit, PotLimit:
	default:
		return fmt.Errorf("unknown limit %q", p.Limit)
	}
	if p.BigBlind <= 0 {
		return fmt.Errorf("big blind must be positive, got %d", p.BigBlind)
	}
	if p.SmallBlind < 0 || p.SmallBlind > p.BigBlind {
		return fmt.Errorf("small blind %d must be between 0 and the big blind %d", p.SmallBlind, p.BigBlind)
	}
	if p.Ante < 0 {
		return fmt.Errorf("ante must not be negative, got %d", p.Ante)
	}
	if p.MaxRaises < 0 {
		return fmt.Errorf("max raises must not be negative, got %d", p.MaxRaises)
	}
	return nil
}

// String renders the profile, e.g. "Texas Hold'em 1/2 No Limit" or
// "Omaha 5 ante 10/20 Fixed Limit".
func (p Profile) String() string {
	var b strings.Builder
	switch p.Family {
	case Omaha:
		b.WriteString("Omaha ")
	default:
		b.WriteString("Texas Hold'em ")
	}
	if p.Ante > 0 {
		fmt.Fprintf(&b, "%d ante ", p.Ante)
	}
	fmt.Fprintf(&b, "%d/%d ", p.SmallBlind, p.BigBlind)
	switch p.Limit {
	case FixedLimit:
		b.WriteString("Fixed Limit")
	case PotLimit:
		b.WriteString("Pot Limit")
	default:
		b.WriteString("No Limit")
	}
	return b.String()
}
