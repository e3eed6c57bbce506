package damage

import (
	"sort"

	"github.com/domjancik/damage-game/card"
)

// HandCategory ranks hand classes low to high.
type HandCategory byte

const (
	HandHighCard HandCategory = iota + 1
	HandOnePair
	HandTwoPair
	HandThreeOfKind
	HandStraight
	HandFlush
	HandFullHouse
	HandFourOfKind
	HandStraightFlush
)

var handCategoryNames = map[HandCategory]string{
	HandHighCard:      "high_card",
	HandOnePair:       "one_pair",
	HandTwoPair:       "two_pair",
	HandThreeOfKind:   "three_of_a_kind",
	HandStraight:      "straight",
	HandFlush:         "flush",
	HandFullHouse:     "full_house",
	HandFourOfKind:    "four_of_a_kind",
	HandStraightFlush: "straight_flush",
}

func (c HandCategory) String() string {
	if name, ok := handCategoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// HandRank is a total order over 5-card hands. Score packs the category into
// the high bits and up to five tie-break ranks (2..14) into 4-bit groups
// below it, so a plain uint32 comparison decides every matchup.
type HandRank struct {
	Category  HandCategory
	Score     uint32
	TieBreaks [5]byte
}

func (r HandRank) Beats(other HandRank) bool { return r.Score > other.Score }

func packScore(cat HandCategory, ranks ...byte) (uint32, [5]byte) {
	var tb [5]byte
	copy(tb[:], ranks)
	score := uint32(cat) << 20
	for i := 0; i < 5; i++ {
		score |= uint32(tb[i]) << uint(16-4*i)
	}
	return score, tb
}

// EvaluateFive ranks exactly five cards (the draw5 showdown path).
func EvaluateFive(cards []card.Card) (HandRank, error) {
	if len(cards) != 5 {
		return HandRank{}, errInvalidState("evaluator needs 5 cards, got %d", len(cards))
	}
	return evalFive(cards[0], cards[1], cards[2], cards[3], cards[4]), nil
}

// EvaluateBestOfSeven ranks the best 5-card combination of 7 cards (the
// holdem showdown path) and returns the indices of the winning combination.
func EvaluateBestOfSeven(cards []card.Card) (HandRank, [5]int, error) {
	var bestIdx [5]int
	if len(cards) != 7 {
		return HandRank{}, bestIdx, errInvalidState("evaluator needs 7 cards, got %d", len(cards))
	}

	var best HandRank
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 4; b++ {
			for c := b + 1; c < 5; c++ {
				for d := c + 1; d < 6; d++ {
					for e := d + 1; e < 7; e++ {
						rank := evalFive(cards[a], cards[b], cards[c], cards[d], cards[e])
						if rank.Score > best.Score {
							best = rank
							bestIdx = [5]int{a, b, c, d, e}
						}
					}
				}
			}
		}
	}
	return best, bestIdx, nil
}

func evalFive(a, b, c, d, e card.Card) HandRank {
	cards := [5]card.Card{a, b, c, d, e}

	flush := true
	suit0 := cards[0].Suit()
	var counts [15]int // indexed by high rank 2..14
	for _, cc := range cards {
		counts[cc.HighRank()]++
		if cc.Suit() != suit0 {
			flush = false
		}
	}

	straightHigh := straightHighRank(counts)

	if flush && straightHigh > 0 {
		return newRank(HandStraightFlush, byte(straightHigh))
	}

	// Group ranks by multiplicity, strongest group first.
	type group struct {
		rank  byte
		count int
	}
	groups := make([]group, 0, 5)
	for r := 14; r >= 2; r-- {
		if counts[r] > 0 {
			groups = append(groups, group{rank: byte(r), count: counts[r]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	switch {
	case groups[0].count == 4:
		return newRank(HandFourOfKind, groups[0].rank, groups[1].rank)
	case groups[0].count == 3 && groups[1].count == 2:
		return newRank(HandFullHouse, groups[0].rank, groups[1].rank)
	case flush:
		return newRank(HandFlush, groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank, groups[4].rank)
	case straightHigh > 0:
		return newRank(HandStraight, byte(straightHigh))
	case groups[0].count == 3:
		return newRank(HandThreeOfKind, groups[0].rank, groups[1].rank, groups[2].rank)
	case groups[0].count == 2 && groups[1].count == 2:
		return newRank(HandTwoPair, groups[0].rank, groups[1].rank, groups[2].rank)
	case groups[0].count == 2:
		return newRank(HandOnePair, groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank)
	default:
		return newRank(HandHighCard, groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank, groups[4].rank)
	}
}

func newRank(cat HandCategory, ranks ...byte) HandRank {
	score, tb := packScore(cat, ranks...)
	return HandRank{Category: cat, Score: score, TieBreaks: tb}
}

// straightHighRank returns the high card of a 5-card straight, 0 if none.
// The wheel A-2-3-4-5 ranks as a 5-high straight, below every other straight.
func straightHighRank(counts [15]int) int {
	for high := 14; high >= 6; high-- {
		run := true
		for r := high; r > high-5; r-- {
			if counts[r] == 0 {
				run = false
				break
			}
		}
		if run {
			return high
		}
	}
	// wheel: A,2,3,4,5
	if counts[14] > 0 && counts[2] > 0 && counts[3] > 0 && counts[4] > 0 && counts[5] > 0 {
		return 5
	}
	return 0
}
