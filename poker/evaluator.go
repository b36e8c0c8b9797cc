package poker

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrCardCount      = errors.New("wrong number of cards")
	ErrNotEnoughCards = errors.New("not enough cards for a five card hand")
)

// HandCategory enumerates hand classes ordered from weakest to strongest.
type HandCategory uint8

const (
	HighCard HandCategory = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

func (c HandCategory) String() string {
	switch c {
	case HighCard:
		return "high card"
	case OnePair:
		return "a pair"
	case TwoPair:
		return "two pair"
	case ThreeOfAKind:
		return "three of a kind"
	case Straight:
		return "a straight"
	case Flush:
		return "a flush"
	case FullHouse:
		return "a full house"
	case FourOfAKind:
		return "four of a kind"
	case StraightFlush:
		return "a straight flush"
	case RoyalFlush:
		return "a royal flush"
	default:
		return "unknown"
	}
}

// HandValue is the strength of a five card hand. Key holds the tie-break ranks,
// most significant first; its meaning depends on Category:
//
//	RoyalFlush, StraightFlush, Straight: [high card] (the wheel is 5 high)
//	FourOfAKind:  [quad, kicker]
//	FullHouse:    [trips, pair]
//	Flush, HighCard: all five ranks descending
//	ThreeOfAKind: [trips, kicker, kicker]
//	TwoPair:      [high pair, low pair, kicker]
//	OnePair:      [pair, kicker, kicker, kicker]
type HandValue struct {
	Category HandCategory `json:"category"`
	Key      []Rank       `json:"key"`
}

// Compare returns -1, 0 or 1 as v is weaker than, equal to or stronger than o.
func (v HandValue) Compare(o HandValue) int {
	switch {
	case v.Category < o.Category:
		return -1
	case v.Category > o.Category:
		return 1
	}
	return slices.Compare(v.Key, o.Key)
}

// Beats reports whether v is strictly stronger than o.
func (v HandValue) Beats(o HandValue) bool { return v.Compare(o) > 0 }

// String describes the hand, e.g. "two pair, kings and fives".
func (v HandValue) String() string {
	if len(v.Key) == 0 {
		return v.Category.String()
	}
	k := v.Key
	switch v.Category {
	case HighCard:
		return fmt.Sprintf("high card %s", k[0].Name())
	case OnePair:
		return fmt.Sprintf("a pair of %s", k[0].Plural())
	case TwoPair:
		return fmt.Sprintf("two pair, %s and %s", k[0].Plural(), k[1].Plural())
	case ThreeOfAKind:
		return fmt.Sprintf("three of a kind, %s", k[0].Plural())
	case Straight:
		return fmt.Sprintf("a straight, %s high", k[0].Name())
	case Flush:
		return fmt.Sprintf("a flush, %s high", k[0].Name())
	case FullHouse:
		return fmt.Sprintf("a full house, %s full of %s", k[0].Plural(), k[1].Plural())
	case FourOfAKind:
		return fmt.Sprintf("four of a kind, %s", k[0].Plural())
	case StraightFlush:
		return fmt.Sprintf("a straight flush, %s high", k[0].Name())
	}
	return v.Category.String()
}

// EvaluateFive classifies exactly five distinct cards.
func EvaluateFive(cards []Card) (HandValue, error) {
	if len(cards) != 5 {
		return HandValue{}, fmt.Errorf("%w: got %d, want 5", ErrCardCount, len(cards))
	}
	if err := CheckDistinct(cards); err != nil {
		return HandValue{}, err
	}
	var hand [5]Card
	copy(hand[:], cards)
	return evaluate(hand), nil
}

// EvaluateBest returns the strongest five card hand that uses between minHole and
// maxHole hole cards (inclusive) and fills the rest from the board.
// Hold'em uses (0, 2); Omaha uses (2, 2).
func EvaluateBest(hole, board []Card, minHole, maxHole int) (HandValue, error) {
	if len(hole)+len(board) < 5 {
		return HandValue{}, fmt.Errorf("%w: %d hole and %d board", ErrNotEnoughCards, len(hole), len(board))
	}
	if minHole < 0 || maxHole < minHole || minHole > 5 {
		return HandValue{}, fmt.Errorf("invalid hole card range %d..%d", minHole, maxHole)
	}
	if err := CheckDistinct(hole, board); err != nil {
		return HandValue{}, err
	}

	var (
		best  HandValue
		found bool
		hand  [5]Card
	)
	for k := minHole; k <= min(maxHole, len(hole), 5); k++ {
		if 5-k > len(board) {
			continue
		}
		combinations(len(hole), k, func(hi []int) {
			for i, idx := range hi {
				hand[i] = hole[idx]
			}
			combinations(len(board), 5-k, func(bi []int) {
				for i, idx := range bi {
					hand[k+i] = board[idx]
				}
				v := evaluate(hand)
				if !found || v.Beats(best) {
					best, found = v, true
				}
			})
		})
	}
	if !found {
		return HandValue{}, fmt.Errorf("%w: no combination uses %d..%d of %d hole cards with %d board cards",
			ErrNotEnoughCards, minHole, maxHole, len(hole), len(board))
	}
	return best, nil
}

// combinations calls fn with every k-subset of 0..n-1 in lexicographic order.
// The slice passed to fn is reused between calls.
func combinations(n, k int, fn func([]int)) {
	if k > n || k < 0 {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func evaluate(hand [5]Card) HandValue {
	var counts [Ace + 1]int
	flush := true
	for i, c := range hand {
		counts[c.Rank]++
		if i > 0 && c.Suit != hand[0].Suit {
			flush = false
		}
	}

	// ordered by count, then rank, both descending
	groups := make([]group, 0, 5)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, group{r, counts[r]})
		}
	}
	slices.SortStableFunc(groups, func(a, b group) int { return b.count - a.count })

	ranks := make([]Rank, 0, 5)
	for _, g := range groups {
		for range g.count {
			ranks = append(ranks, g.rank)
		}
	}

	high, straight := straightHigh(groups)
	switch {
	case straight && flush && high == Ace:
		return HandValue{Category: RoyalFlush, Key: []Rank{Ace}}
	case straight && flush:
		return HandValue{Category: StraightFlush, Key: []Rank{high}}
	case groups[0].count == 4:
		return HandValue{Category: FourOfAKind, Key: []Rank{groups[0].rank, groups[1].rank}}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandValue{Category: FullHouse, Key: []Rank{groups[0].rank, groups[1].rank}}
	case flush:
		return HandValue{Category: Flush, Key: ranks}
	case straight:
		return HandValue{Category: Straight, Key: []Rank{high}}
	case groups[0].count == 3:
		return HandValue{Category: ThreeOfAKind, Key: []Rank{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandValue{Category: TwoPair, Key: []Rank{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2:
		return HandValue{Category: OnePair, Key: []Rank{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank}}
	}
	return HandValue{Category: HighCard, Key: ranks}
}

type group struct {
	rank  Rank
	count int
}

// straightHigh expects groups in descending rank order.
func straightHigh(groups []group) (Rank, bool) {
	if len(groups) != 5 {
		return 0, false
	}
	if groups[0].rank-groups[4].rank == 4 {
		return groups[0].rank, true
	}
	if groups[0].rank == Ace && groups[1].rank == Five && groups[4].rank == Two {
		return Five, true
	}
	return 0, false
}
