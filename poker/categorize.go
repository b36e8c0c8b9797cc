package poker

// HoleCardCategory buckets a two card starting hand. Categories are ordered,
// so a higher category is a stronger hand.
type HoleCardCategory int

const (
	CategoryUnknown HoleCardCategory = iota
	CategoryTrash
	CategoryWeak
	CategoryMedium
	CategoryStrong
	CategoryPremium
)

func (c HoleCardCategory) String() string {
	switch c {
	case CategoryTrash:
		return "trash"
	case CategoryWeak:
		return "weak"
	case CategoryMedium:
		return "medium"
	case CategoryStrong:
		return "strong"
	case CategoryPremium:
		return "premium"
	default:
		return "unknown"
	}
}

// Minimum scores for each category.
const (
	premiumScore = 12
	strongScore  = 10
	mediumScore  = 8
	weakScore    = 5
)

// highCardHalves is the top card's worth in half points.
func highCardHalves(r Rank) int {
	switch r {
	case Ace:
		return 20
	case King:
		return 16
	case Queen:
		return 14
	case Jack:
		return 12
	default:
		return int(r)
	}
}

// gapPenaltyHalves charges for the ranks missing between the two cards.
func gapPenaltyHalves(gap int) int {
	switch gap {
	case 0:
		return 0
	case 1:
		return 2
	case 2:
		return 4
	case 3:
		return 8
	default:
		return 10
	}
}

// HoleScore rates two hole cards on the Chen scale: the top card's value,
// doubled for a pair (at least 5), plus 2 when suited, less a penalty for the
// gap between the ranks, plus 1 for connected cards below a queen. Halves round
// up. Invalid or duplicate cards score zero with ok false.
func HoleScore(card1, card2 Card) (score int, ok bool) {
	if !card1.Valid() || !card2.Valid() || card1 == card2 {
		return 0, false
	}
	high, low := card1.Rank, card2.Rank
	if low > high {
		high, low = low, high
	}

	halves := highCardHalves(high)
	if high == low {
		halves = max(2*halves, 10)
	} else {
		gap := int(high-low) - 1
		halves -= gapPenaltyHalves(gap)
		if gap <= 1 && high < Queen {
			halves += 2
		}
	}
	if card1.Suit == card2.Suit {
		halves += 4
	}

	if halves >= 0 {
		return (halves + 1) / 2, true
	}
	return halves / 2, true
}

// CategorizeHoleCards buckets two hole cards by their HoleScore.
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	score, ok := HoleScore(card1, card2)
	switch {
	case !ok:
		return CategoryUnknown
	case score >= premiumScore:
		return CategoryPremium
	case score >= strongScore:
		return CategoryStrong
	case score >= mediumScore:
		return CategoryMedium
	case score >= weakScore:
		return CategoryWeak
	default:
		return CategoryTrash
	}
}
