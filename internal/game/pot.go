package game

import (
	"fmt"
	"strings"
)

// absent marks a seat that does not take part in a slice.
const absent = -1

// Slice is one independently awarded pool: the main pot or a side pot.
// Committed holds each seat's stake for the current street, or absent.
type Slice struct {
	Committed [NumSeats]int `json:"committed"`
	Dead      int           `json:"dead"`
}

func (s *Slice) present(seat int) bool {
	return s.Committed[seat] != absent
}

// highest is the largest stake any present seat has in the slice.
func (s *Slice) highest() int {
	m := 0
	for _, c := range s.Committed {
		if c > m {
			m = c
		}
	}
	return m
}

// Eligible returns the seats taking part in the slice, in seat order.
func (s *Slice) Eligible() []int {
	seats := make([]int, 0, NumSeats)
	for seat, c := range s.Committed {
		if c != absent {
			seats = append(seats, seat)
		}
	}
	return seats
}

// Total is the committed stakes plus dead money.
func (s *Slice) Total() int {
	total := s.Dead
	for _, c := range s.Committed {
		if c > 0 {
			total += c
		}
	}
	return total
}

// drop removes a seat from the slice, leaving its stake behind as dead money.
func (s *Slice) drop(seat int) {
	if c := s.Committed[seat]; c > 0 {
		s.Dead += c
	}
	s.Committed[seat] = absent
}

// Pot is the chip ledger for one hand: an ordered list of slices where only the
// last one is open to raises. The exported fields are the complete state; Seats
// and Profile are reattached with bind after decoding.
type Pot struct {
	Slices               []Slice `json:"slices"`
	CurrentBetIsBigBlind bool    `json:"current_bet_is_big_blind"`
	// PreviousRaise is the last full raise increment on this street.
	PreviousRaise int `json:"previous_raise"`
	Raises        int `json:"raises"`
	// OpeningSeat is the seat whose turn, reached again without a reopening raise, closes the round.
	OpeningSeat int `json:"opening_seat"`

	seats   *Seats
	profile Profile
}

// NewPot creates a ledger with a single slice. Empty chairs are absent from it.
func NewPot(seats *Seats, profile Profile) *Pot {
	p := &Pot{OpeningSeat: NoSeat}
	var s Slice
	for seat := range NumSeats {
		if !seats.Occupied(seat) {
			s.Committed[seat] = absent
		}
	}
	p.Slices = []Slice{s}
	p.bind(seats, profile)
	return p
}

func (p *Pot) bind(seats *Seats, profile Profile) {
	p.seats = seats
	p.profile = profile
}

func (p *Pot) clone() *Pot {
	if p == nil {
		return nil
	}
	c := *p
	c.Slices = append([]Slice(nil), p.Slices...)
	return &c
}

// validate checks the shape of a decoded ledger against the seats it is bound to.
func (p *Pot) validate() error {
	if len(p.Slices) == 0 {
		return fmt.Errorf("no slices: %w", ErrMalformedPot)
	}
	for i := range p.Slices {
		s := &p.Slices[i]
		if s.Dead < 0 {
			return fmt.Errorf("slice %d has negative dead money: %w", i, ErrMalformedPot)
		}
		for seat, c := range s.Committed {
			if c < absent {
				return fmt.Errorf("slice %d seat %d committed %d: %w", i, seat, c, ErrMalformedPot)
			}
			if c != absent && !p.seats.Occupied(seat) {
				return fmt.Errorf("slice %d includes empty seat %d: %w", i, seat, ErrMalformedPot)
			}
		}
	}
	return nil
}

// Total returns every chip in the ledger.
func (p *Pot) Total() int {
	total := 0
	for i := range p.Slices {
		total += p.Slices[i].Total()
	}
	return total
}

// InSlice reports whether seat takes part in slice i.
func (p *Pot) InSlice(i, seat int) bool {
	return i >= 0 && i < len(p.Slices) && validSeat(seat) && p.Slices[i].present(seat)
}

// TotalInvested is the seat's stake on the current street across all slices.
func (p *Pot) TotalInvested(seat int) int {
	total := 0
	for i := range p.Slices {
		if c := p.Slices[i].Committed[seat]; c > 0 {
			total += c
		}
	}
	return total
}

func (p *Pot) rawCurrentBet() int {
	total := 0
	for i := range p.Slices {
		total += p.Slices[i].highest()
	}
	return total
}

// CurrentBet is the total a seat must have invested this street to stay in.
// While a short big blind stands, the full big blind is reported.
func (p *Pot) CurrentBet() int {
	bet := p.rawCurrentBet()
	if p.CurrentBetIsBigBlind && bet < p.profile.BigBlind {
		return p.profile.BigBlind
	}
	return bet
}

// Owed is what seat must add to match the current bet.
func (p *Pot) Owed(seat int) int {
	return p.CurrentBet() - p.TotalInvested(seat)
}

// owedToSlices is what seat must add to match the chips actually in the slices it takes part in.
func (p *Pot) owedToSlices(seat int) int {
	total := 0
	for i := range p.Slices {
		s := &p.Slices[i]
		if s.present(seat) {
			total += s.highest() - s.Committed[seat]
		}
	}
	return total
}

// HasFolded reports whether the seat takes part in no slice. Empty chairs count as folded.
func (p *Pot) HasFolded(seat int) bool {
	if !validSeat(seat) {
		return true
	}
	for i := range p.Slices {
		if p.Slices[i].present(seat) {
			return false
		}
	}
	return true
}

// IsAllIn reports whether an occupied seat has no chips behind.
func (p *Pot) IsAllIn(seat int) bool {
	return p.seats.Occupied(seat) && p.seats[seat].Stack == 0
}

// IsActive reports whether the seat can still act: in the hand and not all-in.
func (p *Pot) IsActive(seat int) bool {
	return p.seats.Occupied(seat) && !p.HasFolded(seat) && !p.IsAllIn(seat)
}

// NotFoldedCount counts seated players still in the hand.
func (p *Pot) NotFoldedCount() int {
	n := 0
	for seat := range NumSeats {
		if p.seats.Occupied(seat) && !p.HasFolded(seat) {
			n++
		}
	}
	return n
}

// ActiveCount counts players who can still act.
func (p *Pot) ActiveCount() int {
	n := 0
	for seat := range NumSeats {
		if p.IsActive(seat) {
			n++
		}
	}
	return n
}

// MinRaise is the smallest legal raise-to total for the street.
func (p *Pot) MinRaise(street Street) (int, error) {
	bet := p.CurrentBet()
	switch p.profile.Limit {
	case NoLimit:
		if bet > 0 {
			return bet + p.PreviousRaise, nil
		}
		return p.profile.BigBlind, nil
	case FixedLimit:
		return bet + p.fixedBetSize(street), nil
	default:
		return 0, fmt.Errorf("%s min raise: %w", p.profile.Limit, ErrNotImplemented)
	}
}

// MaxRaise is the largest legal raise-to total for seat on the street.
// Fixed-limit sizing does not look at the seat's stack; posting clamps to it.
func (p *Pot) MaxRaise(seat int, street Street) (int, error) {
	switch p.profile.Limit {
	case NoLimit:
		if !p.seats.Occupied(seat) {
			return 0, fmt.Errorf("max raise for seat %d: %w", seat, ErrInvalidSeat)
		}
		return p.seats[seat].Stack + p.TotalInvested(seat), nil
	case FixedLimit:
		return p.CurrentBet() + p.fixedBetSize(street), nil
	default:
		return 0, fmt.Errorf("%s max raise: %w", p.profile.Limit, ErrNotImplemented)
	}
}

func (p *Pot) fixedBetSize(street Street) int {
	if street >= Turn {
		return 2 * p.profile.BigBlind
	}
	return p.profile.BigBlind
}

// PostBet adds amount chips from seat's stack to the ledger.
//
// The amount is clamped to the stack. Less than owed without going all-in folds
// the seat. Less than owed when all-in is a short call that caps the first slice
// it cannot cover. Otherwise the chips top up the closed slices and the rest goes
// to the open slice, which is split at any all-in cap it now reaches. Voluntary
// bets that raise by at least the previous raise reopen the action; a big blind
// always does.
func (p *Pot) PostBet(seat, amount int, kind BetKind) error {
	if !validSeat(seat) {
		return fmt.Errorf("post bet for seat %d: %w", seat, ErrInvalidSeat)
	}
	if !p.seats.Occupied(seat) || p.HasFolded(seat) {
		return fmt.Errorf("post bet for seat %d: %w", seat, ErrSeatFolded)
	}
	if kind == Voluntary && p.IsAllIn(seat) {
		return fmt.Errorf("post bet for seat %d: %w", seat, ErrSeatAllIn)
	}

	stack := p.seats[seat].Stack
	amount = min(amount, stack)
	previousBet := p.CurrentBet()
	owed := previousBet - p.TotalInvested(seat)

	var err error
	switch {
	case amount < owed && amount < stack:
		return p.Fold(seat)
	case amount < owed && amount < p.owedToSlices(seat):
		err = p.shortCall(seat, amount)
	default:
		err = p.callOrRaise(seat, amount)
	}
	if err != nil {
		return err
	}

	p.afterPosting(seat, previousBet, kind)
	return nil
}

// shortCall spends an all-in amount that cannot cover every slice.
func (p *Pot) shortCall(seat, amount int) error {
	if err := p.seats[seat].Commit(amount); err != nil {
		return err
	}

	remaining := amount
	split := false
	n := len(p.Slices)
	for i := 0; i < n; i++ {
		s := &p.Slices[i]
		if !s.present(seat) {
			continue
		}
		diff := s.highest() - s.Committed[seat]
		switch {
		case diff == 0:
		case split || remaining == 0 && s.Committed[seat] == 0:
			s.drop(seat)
		case remaining >= diff:
			s.Committed[seat] += diff
			remaining -= diff
		default:
			s.Committed[seat] += remaining
			remaining = 0
			p.splitAt(i, s.Committed[seat], NoSeat)
			split = true
		}
	}
	if remaining != 0 {
		return fmt.Errorf("short call by seat %d left %d unplaced: %w", seat, remaining, ErrMalformedPot)
	}
	return nil
}

// callOrRaise tops up closed slices and puts the rest in the open slice.
func (p *Pot) callOrRaise(seat, amount int) error {
	last := len(p.Slices) - 1
	remaining := amount
	for i := range p.Slices {
		s := &p.Slices[i]
		if !s.present(seat) {
			continue
		}
		if i == last {
			s.Committed[seat] += remaining
			remaining = 0
			break
		}
		diff := s.highest() - s.Committed[seat]
		if diff > remaining {
			return fmt.Errorf("seat %d cannot cover closed slice %d: %w", seat, i, ErrMalformedPot)
		}
		s.Committed[seat] += diff
		remaining -= diff
	}
	if err := p.seats[seat].Commit(amount - remaining); err != nil {
		return err
	}

	open := &p.Slices[last]
	if !open.present(seat) {
		return nil
	}
	limit := absent
	for other, c := range open.Committed {
		if other == seat || c == absent || !p.IsAllIn(other) {
			continue
		}
		if limit == absent || c < limit {
			limit = c
		}
	}
	if mine := open.Committed[seat]; limit != absent && mine >= limit && mine > 0 {
		p.splitAt(last, limit, seat)
	}
	return nil
}

// splitAt caps slice i at level and moves every stake above it into a new
// trailing slice. Seats absent from slice i stay absent. All-in seats other
// than keep with nothing above the cap cannot contest the new slice.
func (p *Pot) splitAt(i, level, keep int) {
	src := &p.Slices[i]
	var next Slice
	for seat, c := range src.Committed {
		switch {
		case c == absent:
			next.Committed[seat] = absent
		case c > level:
			next.Committed[seat] = c - level
			src.Committed[seat] = level
		case seat != keep && p.IsAllIn(seat):
			next.Committed[seat] = absent
		}
	}
	p.Slices = append(p.Slices, next)
}

func (p *Pot) afterPosting(seat, previousBet int, kind BetKind) {
	bet := p.CurrentBet()
	switch kind {
	case BigBlind:
		// A short big blind still sets a full blind as the raise size, so the
		// first raise must reach two big blinds.
		p.PreviousRaise = max(bet, p.profile.BigBlind)
		p.Raises++
		p.OpeningSeat = seat
	case Voluntary:
		if raise := bet - previousBet; bet > 0 && raise > 0 && raise >= p.PreviousRaise {
			p.PreviousRaise = raise
			p.Raises++
			p.OpeningSeat = seat
		}
	}

	switch {
	case kind == BigBlind:
		p.CurrentBetIsBigBlind = true
	case p.CurrentBetIsBigBlind && p.rawCurrentBet() < p.profile.BigBlind:
		// a short big blind still stands for a full one
	default:
		p.CurrentBetIsBigBlind = false
	}
}

// Fold removes seat from every slice, leaving its stakes as dead money.
func (p *Pot) Fold(seat int) error {
	if !validSeat(seat) {
		return fmt.Errorf("fold seat %d: %w", seat, ErrInvalidSeat)
	}
	if p.HasFolded(seat) {
		return fmt.Errorf("fold seat %d: %w", seat, ErrSeatFolded)
	}
	for i := range p.Slices {
		p.Slices[i].drop(seat)
	}
	return nil
}

// Call posts whatever seat owes, or its whole stack if that is less.
func (p *Pot) Call(seat int) error {
	if !p.seats.Occupied(seat) {
		return fmt.Errorf("call for seat %d: %w", seat, ErrInvalidSeat)
	}
	return p.PostBet(seat, min(p.Owed(seat), p.seats[seat].Stack), Voluntary)
}

// PlayersStillOwe reports whether any slice has present seats with different stakes.
func (p *Pot) PlayersStillOwe() bool {
	for i := range p.Slices {
		want := absent
		for _, c := range p.Slices[i].Committed {
			if c == absent {
				continue
			}
			if want == absent {
				want = c
			} else if c != want {
				return true
			}
		}
	}
	return false
}

// FinishBetting closes the street: stakes become dead money, raise counters
// reset, and side pots left with a single seat are refunded to it.
func (p *Pot) FinishBetting() error {
	if p.PlayersStillOwe() {
		return ErrPlayersStillOwe
	}
	for i := range p.Slices {
		s := &p.Slices[i]
		for seat, c := range s.Committed {
			if c > 0 {
				s.Dead += c
				s.Committed[seat] = 0
			}
		}
	}
	p.PreviousRaise = 0
	p.Raises = 0
	p.CurrentBetIsBigBlind = false
	p.refundUncontested()
	return nil
}

func (p *Pot) refundUncontested() {
	kept := p.Slices[:1]
	for _, s := range p.Slices[1:] {
		eligible := s.Eligible()
		if len(eligible) == 1 {
			p.seats[eligible[0]].Receive(s.Dead)
			continue
		}
		kept = append(kept, s)
	}
	p.Slices = kept
}

// RemoveDeadMoney withdraws chips from slice i for payout.
func (p *Pot) RemoveDeadMoney(i, amount int) error {
	if i < 0 || i >= len(p.Slices) {
		return fmt.Errorf("slice %d of %d: %w", i, len(p.Slices), ErrMalformedPot)
	}
	if amount < 0 || amount > p.Slices[i].Dead {
		return fmt.Errorf("remove %d from slice %d holding %d: %w", amount, i, p.Slices[i].Dead, ErrInsufficientDeadMoney)
	}
	p.Slices[i].Dead -= amount
	return nil
}

// SliceName returns "main pot" or "side pot N".
func SliceName(i int) string {
	if i == 0 {
		return "main pot"
	}
	return fmt.Sprintf("side pot %d", i)
}

func (p *Pot) String() string {
	var b strings.Builder
	for i := range p.Slices {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %d", SliceName(i), p.Slices[i].Total())
	}
	return b.String()
}
