package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/lox/holdem/internal/handid"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
)

// Table runs hands for up to NumSeats players. A Table is not safe for
// concurrent use; listeners and providers are called on the caller's goroutine.
type Table struct {
	profile   Profile
	seats     Seats
	providers [NumSeats]ActionProvider

	button         int
	smallBlindSeat int
	bigBlindSeat   int
	actionSeat     int
	street         Street
	board          []poker.Card
	deck           *poker.Deck
	pot            *Pot
	handID         string
	handInProgress bool

	bettingCompleted        bool
	bigBlindOption          bool
	allInRaiseWithoutReopen int

	nextDeck *poker.Deck
	history  *HandHistory
	bus      EventBus
	rng      *rand.Rand
	newID    func() string
	logger   zerolog.Logger
}

// TableOption configures a Table during creation.
type TableOption func(*Table)

// WithRand sets the source used for shuffling and the first button draw.
func WithRand(rng *rand.Rand) TableOption {
	return func(t *Table) { t.rng = rng }
}

// WithSeed seeds the table's random source deterministically.
func WithSeed(seed int64) TableOption {
	return func(t *Table) { t.rng = randutil.New(seed) }
}

// WithLogger sets the logger for engine diagnostics.
func WithLogger(logger zerolog.Logger) TableOption {
	return func(t *Table) { t.logger = logger }
}

// WithButton places the button before the first hand. The button still moves
// when the hand starts.
func WithButton(seat int) TableOption {
	return func(t *Table) { t.button = seat }
}

// WithHandIDs sets the function that names each hand.
func WithHandIDs(next func() string) TableOption {
	return func(t *Table) { t.newID = next }
}

// WithHistoryWriter sets where finished hands are written.
func WithHistoryWriter(w HandHistoryWriter) TableOption {
	return func(t *Table) { t.history.SetWriter(w) }
}

// NewTable creates an empty table playing profile.
func NewTable(profile Profile, opts ...TableOption) (*Table, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	t := &Table{
		profile:                 profile,
		button:                  NoSeat,
		smallBlindSeat:          NoSeat,
		bigBlindSeat:            NoSeat,
		actionSeat:              NoSeat,
		allInRaiseWithoutReopen: NoSeat,
		history:                 NewHandHistory(nil),
		newID:                   handid.New,
		logger:                  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.button != NoSeat && !validSeat(t.button) {
		return nil, fmt.Errorf("button %d: %w", t.button, ErrInvalidSeat)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	t.logger = t.logger.With().Str("component", "table").Logger()
	return t, nil
}

// Profile returns the game played at the table.
func (t *Table) Profile() Profile { return t.profile }

// Player returns the occupant of seat, or nil.
func (t *Table) Player(seat int) *Player {
	if !validSeat(seat) {
		return nil
	}
	return t.seats[seat]
}

// SeatedCount returns the number of seated players.
func (t *Table) SeatedCount() int { return t.seats.Count() }

// TotalChips is every chip at the table: stacks plus the ledger.
func (t *Table) TotalChips() int {
	total := t.seats.Chips()
	if t.pot != nil {
		total += t.pot.Total()
	}
	return total
}

func (t *Table) Button() int          { return t.button }
func (t *Table) ActionSeat() int      { return t.actionSeat }
func (t *Table) Street() Street       { return t.street }
func (t *Table) HandID() string       { return t.handID }
func (t *Table) HandInProgress() bool { return t.handInProgress }
func (t *Table) History() *HandHistory {
	return t.history
}

// Board returns a copy of the community cards.
func (t *Table) Board() []poker.Card {
	return append([]poker.Card(nil), t.board...)
}

// Pot returns the ledger of the hand in progress, or nil between hands.
func (t *Table) Pot() *Pot { return t.pot }

// Subscribe adds a listener for table events.
func (t *Table) Subscribe(l Listener) { t.bus.Subscribe(l) }

// Unsubscribe removes a listener.
func (t *Table) Unsubscribe(l Listener) { t.bus.Unsubscribe(l) }

// SetNextDeck makes the next new hand deal from deck instead of a fresh shuffle.
func (t *Table) SetNextDeck(deck *poker.Deck) { t.nextDeck = deck }

// Sit places a player in an empty seat. Players can only join between hands.
func (t *Table) Sit(ctx context.Context, seat int, player *Player, provider ActionProvider) error {
	switch {
	case !validSeat(seat):
		return fmt.Errorf("sit at %d: %w", seat, ErrInvalidSeat)
	case t.handInProgress:
		return fmt.Errorf("sit at %d: %w", seat, ErrHandInProgress)
	case t.seats[seat] != nil:
		return fmt.Errorf("sit at %d: %w", seat, ErrSeatOccupied)
	case provider == nil:
		return fmt.Errorf("sit at %d: %w", seat, ErrNoProvider)
	case player == nil || player.Stack <= 0:
		return fmt.Errorf("sit at %d: player needs a positive stack", seat)
	}
	t.seats[seat] = player
	t.providers[seat] = provider
	return t.emit(ctx, Event{
		Type:   EventSeatJoinedOrLeft,
		Seat:   seat,
		Status: fmt.Sprintf("%s sits down in seat %d with %d chips.", player.Name, seat+1, player.Stack),
	})
}

// Stand removes the player in seat between hands.
func (t *Table) Stand(ctx context.Context, seat int) (*Player, error) {
	switch {
	case !validSeat(seat):
		return nil, fmt.Errorf("stand from %d: %w", seat, ErrInvalidSeat)
	case t.handInProgress:
		return nil, fmt.Errorf("stand from %d: %w", seat, ErrHandInProgress)
	case t.seats[seat] == nil:
		return nil, fmt.Errorf("stand from %d: seat is empty: %w", seat, ErrInvalidSeat)
	}
	return t.leave(ctx, seat, "stands up")
}

func (t *Table) leave(ctx context.Context, seat int, verb string) (*Player, error) {
	p := t.seats[seat]
	t.seats[seat] = nil
	t.providers[seat] = nil
	return p, t.emit(ctx, Event{
		Type:   EventSeatJoinedOrLeft,
		Seat:   seat,
		Left:   true,
		Status: fmt.Sprintf("%s %s.", p.Name, verb),
	})
}

// Attach sets the provider for an occupied seat, e.g. after Restore.
func (t *Table) Attach(seat int, provider ActionProvider) error {
	if !t.seats.Occupied(seat) {
		return fmt.Errorf("attach to %d: %w", seat, ErrInvalidSeat)
	}
	if provider == nil {
		return fmt.Errorf("attach to %d: %w", seat, ErrNoProvider)
	}
	t.providers[seat] = provider
	return nil
}

// PlayHand plays one hand to completion, or resumes the suspended one. It
// reports true when a provider suspended the hand; calling PlayHand again then
// asks the same seat again with the state unchanged.
func (t *Table) PlayHand(ctx context.Context) (suspended bool, err error) {
	if t.handInProgress && (t.pot == nil || t.deck == nil) {
		t.logger.Warn().Msg("Hand in progress without a ledger, starting a new hand")
		t.handInProgress = false
	}

	resume := t.handInProgress
	if resume {
		for seat := range NumSeats {
			if t.seats.Occupied(seat) && !t.pot.HasFolded(seat) && t.providers[seat] == nil {
				return false, fmt.Errorf("resume with seat %d: %w", seat, ErrNoProvider)
			}
		}
		t.logger.Debug().Str("hand_id", t.handID).Stringer("street", t.street).Int("action_seat", t.actionSeat).Msg("Resuming hand")
		if err := t.emit(ctx, Event{Type: EventPotChanged, Seat: t.actionSeat}); err != nil {
			return false, err
		}
	} else {
		if err := t.startHand(ctx); err != nil {
			return false, err
		}
	}

	for t.street != Showdown {
		if t.pot.NotFoldedCount() > 1 {
			if err := t.dealCommunity(ctx); err != nil {
				return false, err
			}
			if resume || t.pot.ActiveCount() > 1 {
				suspended, err := t.bettingRound(ctx, resume)
				if err != nil {
					return false, err
				}
				if suspended {
					t.logger.Debug().Str("hand_id", t.handID).Int("seat", t.actionSeat).Msg("Hand suspended")
					return true, nil
				}
			}
		}
		resume = false
		t.street++
	}

	if err := t.showdown(ctx); err != nil {
		return false, err
	}
	if err := t.removeBrokePlayers(ctx); err != nil {
		return false, err
	}
	t.handInProgress = false
	t.pot = nil
	t.deck = nil
	t.board = nil
	t.actionSeat = NoSeat
	if err := t.history.Finish(); err != nil {
		t.logger.Error().Err(err).Str("hand_id", t.handID).Msg("Failed to write hand history")
	}
	t.logger.Debug().Str("hand_id", t.handID).Int("chips", t.TotalChips()).Msg("Hand complete")
	return false, nil
}

func (t *Table) startHand(ctx context.Context) error {
	if t.seats.Count() < 2 {
		return ErrNotEnoughPlayers
	}
	for seat := range NumSeats {
		if t.seats.Occupied(seat) && t.providers[seat] == nil {
			return fmt.Errorf("start hand with seat %d: %w", seat, ErrNoProvider)
		}
	}

	t.handID = t.newID()
	t.pot = NewPot(&t.seats, t.profile)
	t.board = make([]poker.Card, 0, 5)
	t.street = Preflop
	t.smallBlindSeat = NoSeat
	t.bigBlindSeat = NoSeat
	t.actionSeat = NoSeat
	for _, p := range t.seats {
		if p != nil {
			p.HoleCards = nil
			p.ShowsCards = false
		}
	}

	t.history.StartHand(t.handID, t.profile.String())
	if err := t.emit(ctx, Event{Type: EventBeginHand, Seat: NoSeat}); err != nil {
		return err
	}

	if t.button == NoSeat {
		t.button = t.randomOccupiedSeat()
	} else {
		button, err := t.nextActiveSeat(t.button, NoSeat)
		if err != nil {
			return err
		}
		t.button = button
	}
	if err := t.emit(ctx, Event{
		Type:   EventButtonMoved,
		Seat:   t.button,
		Status: fmt.Sprintf("Dealer button on %s.", t.seats[t.button].Name),
	}); err != nil {
		return err
	}

	sb, err := t.nextActiveSeat(t.button, NoSeat)
	if err != nil {
		return err
	}
	bb, err := t.nextActiveSeat(sb, NoSeat)
	if err != nil {
		return err
	}
	if t.seats.Count() == 2 {
		sb, bb = bb, sb
	}
	t.smallBlindSeat, t.bigBlindSeat = sb, bb

	if t.nextDeck != nil {
		t.deck, t.nextDeck = t.nextDeck, nil
	} else {
		t.deck = poker.NewDeck(t.rng)
	}
	if err := t.dealHoleCards(ctx); err != nil {
		return err
	}

	t.handInProgress = true
	t.logger.Debug().
		Str("hand_id", t.handID).
		Int("button", t.button).
		Int("players", t.seats.Count()).
		Msg("Hand starting")
	return nil
}

func (t *Table) randomOccupiedSeat() int {
	occupied := make([]int, 0, NumSeats)
	for seat := range NumSeats {
		if t.seats.Occupied(seat) {
			occupied = append(occupied, seat)
		}
	}
	return occupied[t.rng.IntN(len(occupied))]
}

// dealHoleCards deals one card at a time, starting left of the button.
func (t *Table) dealHoleCards(ctx context.Context) error {
	n := t.profile.HoleCards()
	for range n {
		for i := 1; i <= NumSeats; i++ {
			seat := (t.button + i) % NumSeats
			if !t.seats.Occupied(seat) {
				continue
			}
			c, err := t.deck.Draw()
			if err != nil {
				return fmt.Errorf("deal hole cards: %w", err)
			}
			t.seats[seat].HoleCards = append(t.seats[seat].HoleCards, c)
		}
	}
	for i := 1; i <= NumSeats; i++ {
		seat := (t.button + i) % NumSeats
		if !t.seats.Occupied(seat) {
			continue
		}
		if err := t.emit(ctx, Event{
			Type:   EventHoleCardsDealt,
			Seat:   seat,
			Status: fmt.Sprintf("Hole cards dealt to %s.", t.seats[seat].Name),
		}); err != nil {
			return err
		}
	}
	return nil
}

// dealCommunity burns and deals the cards for the current street if they are
// not already on the board.
func (t *Table) dealCommunity(ctx context.Context) error {
	var want int
	switch t.street {
	case Flop:
		want = 3
	case Turn:
		want = 4
	case River:
		want = 5
	default:
		return nil
	}
	if len(t.board) >= want {
		return nil
	}
	if _, err := t.deck.Draw(); err != nil {
		return fmt.Errorf("burn before %s: %w", t.street, err)
	}
	cards, err := t.deck.Deal(want - len(t.board))
	if err != nil {
		return fmt.Errorf("deal %s: %w", t.street, err)
	}
	t.board = append(t.board, cards...)

	var status string
	switch t.street {
	case Flop:
		status = "Flop: " + poker.FormatCards(cards)
	case Turn:
		status = "Turn: " + poker.FormatCards(cards)
	default:
		status = "River: " + poker.FormatCards(cards)
	}
	t.logger.Debug().Str("hand_id", t.handID).Stringer("street", t.street).Str("board", poker.FormatCards(t.board)).Msg("Dealt community cards")
	return t.emit(ctx, Event{Type: EventCommunityDealt, Seat: NoSeat, Status: status})
}

// nextActiveSeat walks clockwise from `from` to the next seat that can act.
// Reaching stop returns stop whether or not it can act.
func (t *Table) nextActiveSeat(from, stop int) (int, error) {
	start := from
	if !validSeat(start) {
		start = NumSeats - 1
	}
	pos := start
	for {
		pos = (pos + 1) % NumSeats
		if stop != NoSeat && pos == stop {
			return pos, nil
		}
		if t.seats.Occupied(pos) && (t.pot == nil || t.pot.IsActive(pos)) {
			return pos, nil
		}
		if pos == start {
			return NoSeat, ErrNoActiveSeat
		}
	}
}

func (t *Table) removeBrokePlayers(ctx context.Context) error {
	for seat := range NumSeats {
		if p := t.seats[seat]; p != nil && p.Stack == 0 {
			if _, err := t.leave(ctx, seat, "is out of chips and leaves the table"); err != nil {
				return err
			}
		}
	}
	return nil
}

// emit fills the table state into event, records it in the hand history and
// publishes it.
func (t *Table) emit(ctx context.Context, event Event) error {
	event.HandID = t.handID
	event.HandNumber = t.history.HandNumber
	event.Street = t.street
	event.Board = t.Board()
	event.Button = t.button
	if t.pot != nil {
		event.Slices = append([]Slice(nil), t.pot.Slices...)
		event.CurrentBet = t.pot.CurrentBet()
	}
	if event.Status != "" {
		t.logger.Debug().Str("hand_id", t.handID).Stringer("event", event.Type).Msg(event.Status)
	}
	if err := t.history.OnEvent(ctx, event); err != nil {
		return err
	}
	return t.bus.Publish(ctx, event)
}
