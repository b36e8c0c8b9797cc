package game

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	if s < Preflop || s > Showdown {
		return "unknown"
	}
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// BetKind distinguishes forced postings from voluntary bets.
type BetKind int

const (
	Voluntary BetKind = iota
	Ante
	SmallBlind
	BigBlind
)

func (k BetKind) String() string {
	switch k {
	case Voluntary:
		return "voluntary"
	case Ante:
		return "ante"
	case SmallBlind:
		return "small blind"
	case BigBlind:
		return "big blind"
	default:
		return "unknown"
	}
}
