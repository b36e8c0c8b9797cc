package game

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem/poker"
)

func TestPlayHandChecksDown(t *testing.T) {
	t.Parallel()

	p0, p1, p2 := script(), script(), script()
	table := newTestTable(t, HoldemProfile(1, 2),
		testSeat{100, p0}, testSeat{100, p1}, testSeat{100, p2})
	rec := &recorder{}
	table.Subscribe(rec)
	table.SetNextDeck(poker.NewOrderedDeck())

	suspended, err := table.PlayHand(context.Background())
	require.NoError(t, err)
	assert.False(t, suspended)
	assert.False(t, table.HandInProgress())

	assert.Equal(t, 1, table.Button())
	assert.Equal(t, 4, p0.count())
	assert.Equal(t, 4, p1.count())
	assert.Equal(t, 4, p2.count())

	first := p1.requests[0]
	assert.Equal(t, Preflop, first.Street)
	assert.Equal(t, 2, first.CurrentBet)
	assert.Equal(t, 2, first.Owed)
	assert.Equal(t, 4, first.MinRaise)
	assert.Equal(t, 100, first.MaxRaise)
	assert.Equal(t, 6, first.DefaultRaise)
	assert.Equal(t, 2, first.Increment)
	assert.True(t, first.RaiseAllowed)
	assert.Equal(t, 2, first.Opponents)
	assert.Equal(t, poker.MustParseCards("4c7c"), first.HoleCards)

	option := p0.requests[0]
	assert.True(t, option.CanCheck(), "the big blind gets the option")

	// nobody raises beyond the forced big blind on any street
	for _, p := range []*scriptedProvider{p0, p1, p2} {
		for _, req := range p.requests {
			assert.True(t, req.RaiseAllowed)
			assert.Positive(t, req.Opponents)
			if req.Street == Preflop {
				assert.Equal(t, 1, req.Raises, "preflop counts only the big blind")
			} else {
				assert.Zero(t, req.Raises, "no raises on the %s", req.Street)
			}
		}
	}

	assert.Equal(t, 98, table.Player(0).Stack)
	assert.Equal(t, 104, table.Player(1).Stack)
	assert.Equal(t, 98, table.Player(2).Stack)
	assert.Equal(t, 300, table.TotalChips())

	lines := rec.statuses()
	for _, want := range []string{
		"Dealer button on P1.",
		"Posting small blind (1) and big blind (2).",
		"Action on P1. The bet is 2.",
		"P1 calls 2.",
		"P2 calls 2.",
		"P0 checks.",
		"Betting completed.",
		"Flop: 9c Tc Jc",
		"Action on P2.",
		"Turn: Kc",
		"River: 2s",
		"P1 shows 4c 7c for a flush, king high.",
		"P1 wins 6 from the main pot with a flush, king high.",
	} {
		assert.Contains(t, lines, want)
	}

	require.NotEmpty(t, rec.events)
	assert.Equal(t, EventBeginHand, rec.events[0].Type)
	assert.Len(t, rec.ofType(EventActionOn), 12)
	assert.Len(t, rec.ofType(EventSeatShowsCards), 3)
	wins := rec.ofType(EventSeatWins)
	require.Len(t, wins, 1)
	assert.Equal(t, 1, wins[0].Seat)
	assert.Equal(t, 6, wins[0].Amount)
	require.NotNil(t, wins[0].Hand)
	assert.Equal(t, poker.Flush, wins[0].Hand.Category)
}

func TestPlayHandFoldsToBigBlind(t *testing.T) {
	t.Parallel()

	p0, p1, p2 := script(), script(FoldAction()), script(FoldAction())
	table := newTestTable(t, HoldemProfile(1, 2),
		testSeat{100, p0}, testSeat{100, p1}, testSeat{100, p2})
	rec := &recorder{}
	table.Subscribe(rec)

	_, err := table.PlayHand(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, p0.count(), "nobody is left to play against the big blind")
	assert.Equal(t, 101, table.Player(0).Stack)
	assert.Equal(t, 100, table.Player(1).Stack)
	assert.Equal(t, 99, table.Player(2).Stack)
	assert.Contains(t, rec.statuses(), "P0 wins 3 from the main pot.")
	assert.Empty(t, rec.ofType(EventCommunityDealt))
	assert.Empty(t, rec.ofType(EventSeatShowsCards))
}

func TestPlayHandFoldingWhenCheckingIsFreeChecks(t *testing.T) {
	t.Parallel()

	p0 := script(CheckOrCallAction(), FoldAction())
	p1 := script(CheckOrCallAction(), FoldAction())
	table := newTestTable(t, HoldemProfile(1, 2), testSeat{100, p0}, testSeat{100, p1})
	rec := &recorder{}
	table.Subscribe(rec)

	suspended, err := table.PlayHand(context.Background())
	require.NoError(t, err)
	assert.False(t, suspended)
	assert.False(t, table.HandInProgress())

	assert.Equal(t, 4, p0.count())
	assert.Equal(t, 4, p1.count())
	for _, p := range []*scriptedProvider{p0, p1} {
		for _, req := range p.requests {
			assert.Equal(t, 1, req.Opponents)
		}
	}
	assert.Contains(t, rec.statuses(), "P0 checks.")
	assert.Contains(t, rec.statuses(), "P1 checks.")
	assert.NotContains(t, rec.statuses(), "P0 folds.")
	assert.Len(t, rec.ofType(EventSeatShowsCards), 2)
	assert.Equal(t, 200, table.TotalChips())

	// the table keeps playing
	_, err = table.PlayHand(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 200, table.TotalChips())
}

func TestPlayHandLastPlayerStandingIsNotAsked(t *testing.T) {
	t.Parallel()

	// P1 acts first preflop and raises, P2 and P0 fold behind
	p0, p1, p2 := script(FoldAction()), script(RaiseToAction(6)), script(FoldAction())
	table := newTestTable(t, HoldemProfile(1, 2),
		testSeat{100, p0}, testSeat{100, p1}, testSeat{100, p2})
	rec := &recorder{}
	table.Subscribe(rec)

	_, err := table.PlayHand(context.Background())
	require.NoError(t, err)
	assert.False(t, table.HandInProgress())

	assert.Equal(t, 1, p1.count(), "the survivor is never asked again")
	assert.Equal(t, 1, p2.count())
	assert.Equal(t, 1, p0.count())
	assert.Equal(t, 98, table.Player(0).Stack)
	assert.Equal(t, 103, table.Player(1).Stack)
	assert.Equal(t, 99, table.Player(2).Stack)
	assert.Contains(t, rec.statuses(), "P1 wins 9 from the main pot.")
	assert.Empty(t, rec.ofType(EventCommunityDealt))
}

func TestBigBlindOptionNeedsAnotherActivePlayer(t *testing.T) {
	t.Parallel()

	// heads-up the button posts the small blind and calls all in for the rest
	p0, p1 := script(), script()
	table := newTestTable(t, HoldemProfile(1, 2), testSeat{100, p0}, testSeat{2, p1})

	_, err := table.PlayHand(context.Background())
	require.NoError(t, err)
	assert.False(t, table.HandInProgress())

	assert.Equal(t, 1, p1.count())
	assert.Equal(t, 0, p0.count(), "no option against an all-in player")
	assert.Equal(t, 102, table.TotalChips())
}

func TestPlayHandHeadsUpButtonPostsSmallBlind(t *testing.T) {
	t.Parallel()

	p0, p1 := script(), script(FoldAction())
	table := newTestTable(t, HoldemProfile(1, 2), testSeat{100, p0}, testSeat{100, p1})

	_, err := table.PlayHand(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, table.Button())
	assert.Equal(t, 1, p1.count())
	assert.Equal(t, 0, p0.count())
	assert.Equal(t, 101, table.Player(0).Stack)
	assert.Equal(t, 99, table.Player(1).Stack)
}

func TestPlayHandHeadsUpBigBlindActsFirstAfterFlop(t *testing.T) {
	t.Parallel()

	p0, p1 := script(), script()
	table := newTestTable(t, HoldemProfile(1, 2), testSeat{100, p0}, testSeat{100, p1})
	rec := &recorder{}
	table.Subscribe(rec)

	_, err := table.PlayHand(context.Background())
	require.NoError(t, err)

	var order []int
	for _, e := range rec.ofType(EventActionOn) {
		order = append(order, e.Seat)
	}
	assert.Equal(t, []int{1, 0, 0, 1, 0, 1, 0, 1}, order)
}

func TestPlayHandFoldedSeatIsNotAskedAgain(t *testing.T) {
	t.Parallel()

	p0, p1, p2 := script(), script(FoldAction()), script()
	table := newTestTable(t, HoldemProfile(1, 2),
		testSeat{100, p0}, testSeat{100, p1}, testSeat{100, p2})

	_, err := table.PlayHand(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, p1.count())
	assert.Equal(t, 4, p0.count())
	assert.Equal(t, 4, p2.count())
	assert.Equal(t, 300, table.TotalChips())
}

func TestPlayHandRejectsIllegalRaise(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action Action
	}{
		{"below minimum", RaiseToAction(3)},
		{"not above the bet", RaiseToAction(2)},
		{"unknown kind", Action{Kind: ActionKind(42)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			table := newTestTable(t, HoldemProfile(1, 2),
				testSeat{100, script()}, testSeat{100, script(tt.action)}, testSeat{100, script()})
			_, err := table.PlayHand(context.Background())
			assert.ErrorIs(t, err, ErrIllegalAction)
		})
	}
}

func TestPlayHandClampsRaiseToStack(t *testing.T) {
	t.Parallel()

	p0, p1, p2 := script(FoldAction()), script(RaiseToAction(1000)), script(FoldAction())
	table := newTestTable(t, HoldemProfile(1, 2),
		testSeat{100, p0}, testSeat{50, p1}, testSeat{100, p2})
	rec := &recorder{}
	table.Subscribe(rec)

	_, err := table.PlayHand(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rec.statuses(), "P1 raises to 50.")
	assert.Equal(t, 53, table.Player(1).Stack)
}

func TestFixedLimitCapsRaises(t *testing.T) {
	t.Parallel()

	profile := HoldemProfile(1, 2)
	profile.Limit = FixedLimit
	profile.MaxRaises = DefaultMaxRaises

	p0, p1, p2 := script(), script(RaiseToAction(1000)), script(RaiseToAction(1000))
	table := newTestTable(t, profile, testSeat{100, p0}, testSeat{100, p1}, testSeat{100, p2})
	table.SetNextDeck(poker.NewOrderedDeck())

	_, err := table.PlayHand(context.Background())
	require.NoError(t, err)

	capped := p0.requests[0]
	assert.Equal(t, 6, capped.CurrentBet)
	assert.False(t, capped.RaiseAllowed)
	assert.Equal(t, 8, capped.MinRaise)
	assert.Equal(t, 8, capped.MaxRaise)

	flop := p0.requests[1]
	assert.Equal(t, Flop, flop.Street)
	assert.True(t, flop.RaiseAllowed)

	assert.Equal(t, 112, table.Player(1).Stack)
	assert.Equal(t, 300, table.TotalChips())
}

func TestAllInRemovesBrokePlayer(t *testing.T) {
	t.Parallel()

	p0, p1 := script(), script(RaiseToAction(100))
	table := newTestTable(t, HoldemProfile(1, 2), testSeat{100, p0}, testSeat{100, p1})
	table.SetNextDeck(stackedDeck(t, "Ac 2d Ad 7h 3s Kc 9s 4h 5s Jd 6s Qh"))
	rec := &recorder{}
	table.Subscribe(rec)

	_, err := table.PlayHand(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 200, table.Player(0).Stack)
	assert.Nil(t, table.Player(1))
	assert.Equal(t, 1, table.SeatedCount())
	assert.Equal(t, 1, p0.count())
	assert.Len(t, rec.ofType(EventCommunityDealt), 3, "the board runs out with nobody left to act")

	left := rec.ofType(EventSeatJoinedOrLeft)
	require.NotEmpty(t, left)
	assert.True(t, left[len(left)-1].Left)
	assert.Equal(t, 1, left[len(left)-1].Seat)

	_, err = table.PlayHand(context.Background())
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestPlayHandPotLimitIsNotImplemented(t *testing.T) {
	t.Parallel()

	profile := HoldemProfile(1, 2)
	profile.Limit = PotLimit
	table := newTestTable(t, profile, testSeat{100, script()}, testSeat{100, script()})
	_, err := table.PlayHand(context.Background())
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestPlayHandOmahaDealsFourCards(t *testing.T) {
	t.Parallel()

	profile := HoldemProfile(1, 2)
	profile.Family = Omaha
	p0, p1, p2 := script(), script(), script()
	table := newTestTable(t, profile, testSeat{100, p0}, testSeat{100, p1}, testSeat{100, p2})

	_, err := table.PlayHand(context.Background())
	require.NoError(t, err)
	assert.Len(t, p0.requests[0].HoleCards, 4)
	assert.Equal(t, 300, table.TotalChips())
}

func TestPlayHandWithAntes(t *testing.T) {
	t.Parallel()

	profile := HoldemProfile(1, 2)
	profile.Ante = 1
	p0, p1, p2 := script(), script(FoldAction()), script(FoldAction())
	table := newTestTable(t, profile, testSeat{100, p0}, testSeat{100, p1}, testSeat{100, p2})
	rec := &recorder{}
	table.Subscribe(rec)

	_, err := table.PlayHand(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rec.statuses(), "Posting antes (1).")
	assert.Equal(t, 103, table.Player(0).Stack)
	assert.Equal(t, 300, table.TotalChips())
}

func TestPlayHandWritesHistory(t *testing.T) {
	t.Parallel()

	w := &memoryHistory{}
	table, err := NewTable(HoldemProfile(1, 2), WithSeed(3), WithButton(0), WithHistoryWriter(w),
		WithHandIDs(func() string { return "h1" }))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, table.Sit(ctx, 0, NewPlayer("Alice", 100), script()))
	require.NoError(t, table.Sit(ctx, 3, NewPlayer("Bob", 100), script(FoldAction())))

	_, err = table.PlayHand(ctx)
	require.NoError(t, err)

	require.Contains(t, w.hands, "h1")
	text := w.hands["h1"]
	assert.True(t, strings.HasPrefix(text, "Hand #1 (h1) Texas Hold'em 1/2 No Limit\n"), text)
	assert.Contains(t, text, "Bob folds.")
	assert.Equal(t, 1, table.History().HandNumber)
}

type memoryHistory struct {
	hands map[string]string
}

func (m *memoryHistory) WriteHandHistory(handID, content string) error {
	if m.hands == nil {
		m.hands = make(map[string]string)
	}
	m.hands[handID] = content
	return nil
}

func TestSitAndStand(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	table, err := NewTable(HoldemProfile(1, 2))
	require.NoError(t, err)

	require.NoError(t, table.Sit(ctx, 2, NewPlayer("Alice", 100), script()))
	assert.ErrorIs(t, table.Sit(ctx, 2, NewPlayer("Bob", 100), script()), ErrSeatOccupied)
	assert.ErrorIs(t, table.Sit(ctx, NumSeats, NewPlayer("Bob", 100), script()), ErrInvalidSeat)
	assert.ErrorIs(t, table.Sit(ctx, 3, NewPlayer("Bob", 100), nil), ErrNoProvider)
	assert.Error(t, table.Sit(ctx, 3, NewPlayer("Bob", 0), script()))
	assert.Equal(t, 1, table.SeatedCount())

	_, err = table.PlayHand(ctx)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	_, err = table.Stand(ctx, 5)
	assert.ErrorIs(t, err, ErrInvalidSeat)
	p, err := table.Stand(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, 0, table.SeatedCount())
}

func TestSitDuringSuspendedHand(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	table := newTestTable(t, HoldemProfile(1, 2), testSeat{100, script()}, testSeat{100, script(SuspendAction())})
	suspended, err := table.PlayHand(ctx)
	require.NoError(t, err)
	require.True(t, suspended)

	assert.ErrorIs(t, table.Sit(ctx, 5, NewPlayer("Late", 100), script()), ErrHandInProgress)
	_, err = table.Stand(ctx, 0)
	assert.ErrorIs(t, err, ErrHandInProgress)
}

func TestNewTableValidates(t *testing.T) {
	t.Parallel()

	_, err := NewTable(Profile{Family: Holdem, Limit: NoLimit})
	assert.Error(t, err)
	_, err = NewTable(HoldemProfile(1, 2), WithButton(NumSeats))
	assert.ErrorIs(t, err, ErrInvalidSeat)
}

func TestOddChipsGoLeftOfButton(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, HoldemProfile(1, 2),
		testSeat{100, script()}, testSeat{100, script()}, testSeat{100, script()})
	table.button = 2
	table.pot = NewPot(&table.seats, table.profile)
	table.pot.Slices[0].Dead = 101
	table.board = poker.MustParseCards("Ah Kh Qh Jh Th")
	table.seats[0].HoleCards = poker.MustParseCards("2c 3c")
	table.seats[1].HoleCards = poker.MustParseCards("2d 3d")
	table.seats[2].HoleCards = poker.MustParseCards("2s 3s")

	require.NoError(t, table.showdown(context.Background()))
	assert.Equal(t, 134, table.seats[0].Stack)
	assert.Equal(t, 134, table.seats[1].Stack)
	assert.Equal(t, 133, table.seats[2].Stack)
	assert.Equal(t, 0, table.pot.Total())
}

func TestShowdownAwardsSidePotsSeparately(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, HoldemProfile(1, 2),
		testSeat{100, script()}, testSeat{100, script()}, testSeat{100, script()})
	rec := &recorder{}
	table.Subscribe(rec)

	const a = absent
	table.pot = NewPot(&table.seats, table.profile)
	table.pot.Slices = []Slice{
		{Committed: [NumSeats]int{0, 0, 0, a, a, a, a, a}, Dead: 30},
		{Committed: [NumSeats]int{a, 0, 0, a, a, a, a, a}, Dead: 20},
		{Committed: [NumSeats]int{a, a, a, a, a, a, a, a}, Dead: 10},
	}
	table.board = poker.MustParseCards("2c 7d 9h Js Kd")
	table.seats[0].HoleCards = poker.MustParseCards("Kc Kh")
	table.seats[1].HoleCards = poker.MustParseCards("Ac Ad")
	table.seats[2].HoleCards = poker.MustParseCards("3c 4d")

	require.NoError(t, table.showdown(context.Background()))
	assert.Equal(t, 130, table.seats[0].Stack)
	assert.Equal(t, 130, table.seats[1].Stack)
	assert.Equal(t, 100, table.seats[2].Stack)
	assert.Len(t, rec.ofType(EventSeatShowsCards), 3, "each hand is shown once")
	assert.Contains(t, rec.statuses(), "P1 wins 30 from the side pot 1 with a pair of aces.")
	assert.Contains(t, rec.statuses(), "P0 wins 30 from the main pot with three of a kind, kings.")
}
