package damage

import (
	"math/rand"
	"testing"

	poker "github.com/paulhankin/poker"

	"github.com/domjancik/damage-game/card"
)

func mustCards(t *testing.T, codes ...string) []card.Card {
	t.Helper()
	cards, err := card.ParseAll(codes)
	if err != nil {
		t.Fatalf("parse %v: %v", codes, err)
	}
	return cards
}

func evalFiveCodes(t *testing.T, codes ...string) HandRank {
	t.Helper()
	rank, err := EvaluateFive(mustCards(t, codes...))
	if err != nil {
		t.Fatalf("evaluate %v: %v", codes, err)
	}
	return rank
}

func TestCategoryLadder(t *testing.T) {
	ladder := []struct {
		name  string
		codes []string
		cat   HandCategory
	}{
		{"high card", []string{"As", "Kd", "9h", "7c", "3s"}, HandHighCard},
		{"one pair", []string{"As", "Ad", "9h", "7c", "3s"}, HandOnePair},
		{"two pair", []string{"As", "Ad", "9h", "9c", "3s"}, HandTwoPair},
		{"three of a kind", []string{"As", "Ad", "Ah", "7c", "3s"}, HandThreeOfKind},
		{"straight", []string{"9s", "8d", "7h", "6c", "5s"}, HandStraight},
		{"flush", []string{"As", "Ks", "9s", "7s", "3s"}, HandFlush},
		{"full house", []string{"As", "Ad", "Ah", "3c", "3s"}, HandFullHouse},
		{"four of a kind", []string{"As", "Ad", "Ah", "Ac", "3s"}, HandFourOfKind},
		{"straight flush", []string{"9s", "8s", "7s", "6s", "5s"}, HandStraightFlush},
	}
	var prev HandRank
	for i, tc := range ladder {
		rank := evalFiveCodes(t, tc.codes...)
		if rank.Category != tc.cat {
			t.Fatalf("%s: got category %s", tc.name, rank.Category)
		}
		if i > 0 && !rank.Beats(prev) {
			t.Fatalf("%s (score %d) should beat %s (score %d)", tc.name, rank.Score, ladder[i-1].name, prev.Score)
		}
		prev = rank
	}
}

func TestLowStraightFlushBeatsFourAces(t *testing.T) {
	sf := evalFiveCodes(t, "2s", "3s", "4s", "5s", "6s")
	quads := evalFiveCodes(t, "Ac", "Ad", "Ah", "As", "Ks")
	if !sf.Beats(quads) {
		t.Fatalf("straight flush score %d must beat four aces score %d", sf.Score, quads.Score)
	}
}

func TestWheelIsLowestStraight(t *testing.T) {
	wheel := evalFiveCodes(t, "As", "2d", "3h", "4c", "5s")
	if wheel.Category != HandStraight {
		t.Fatalf("wheel category = %s, want straight", wheel.Category)
	}
	if wheel.TieBreaks[0] != 5 {
		t.Fatalf("wheel high rank = %d, want 5", wheel.TieBreaks[0])
	}
	six := evalFiveCodes(t, "2s", "3d", "4h", "5c", "6s")
	if !six.Beats(wheel) {
		t.Fatalf("6-high straight must beat the wheel")
	}
}

func TestKickersBreakTies(t *testing.T) {
	hi := evalFiveCodes(t, "As", "Ad", "Kh", "7c", "3s")
	lo := evalFiveCodes(t, "Ac", "Ah", "Qh", "7d", "3d")
	if !hi.Beats(lo) {
		t.Fatalf("ace pair king kicker must beat ace pair queen kicker")
	}
}

func TestSuitsNeverBreakTies(t *testing.T) {
	a := evalFiveCodes(t, "As", "Kd", "9h", "7c", "3s")
	b := evalFiveCodes(t, "Ad", "Kh", "9c", "7s", "3h")
	if a.Score != b.Score {
		t.Fatalf("identical ranks in different suits scored %d vs %d", a.Score, b.Score)
	}
}

func TestBestOfSevenFindsTheCombo(t *testing.T) {
	seven := mustCards(t, "As", "Ks", "Qs", "Js", "Ts", "2d", "2c")
	rank, picks, err := EvaluateBestOfSeven(seven)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if rank.Category != HandStraightFlush {
		t.Fatalf("got %s, want straight_flush", rank.Category)
	}
	if picks != [5]int{0, 1, 2, 3, 4} {
		t.Fatalf("picked indices %v, want the five spades", picks)
	}
}

func TestBestOfSevenRejectsWrongCount(t *testing.T) {
	if _, _, err := EvaluateBestOfSeven(mustCards(t, "As", "Ks", "Qs")); err == nil {
		t.Fatalf("expected an error for 3 cards")
	}
	if _, err := EvaluateFive(mustCards(t, "As", "Ks", "Qs")); err == nil {
		t.Fatalf("expected an error for 3 cards")
	}
}

func toLibCard(t *testing.T, c card.Card) poker.Card {
	t.Helper()
	var s poker.Suit
	switch c.Suit() {
	case card.Spade:
		s = poker.Spade
	case card.Heart:
		s = poker.Heart
	case card.Club:
		s = poker.Club
	default:
		s = poker.Diamond
	}
	lc, err := poker.MakeCard(s, poker.Rank(c.Rank()))
	if err != nil {
		t.Fatalf("make card %s: %v", c, err)
	}
	return lc
}

// TestAgreesWithReferenceEvaluator compares hand orderings against the
// paulhankin evaluator (where a larger int16 is the stronger hand) across
// seeded random matchups, for both the 5-card and 7-card paths.
func TestAgreesWithReferenceEvaluator(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 200; trial++ {
		deck := card.NewShuffled(rng)
		h1, _ := deck.PopCards(5)
		h2, _ := deck.PopCards(5)

		r1, err := EvaluateFive(h1)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		r2, err := EvaluateFive(h2)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}

		var a5, b5 [5]poker.Card
		for i := 0; i < 5; i++ {
			a5[i] = toLibCard(t, h1[i])
			b5[i] = toLibCard(t, h2[i])
		}
		la, lb := poker.Eval5(&a5), poker.Eval5(&b5)

		switch {
		case r1.Score > r2.Score && la <= lb:
			t.Fatalf("trial %d: %v vs %v ordered differently (ours %d>%d, lib %d<=%d)",
				trial, card.Codes(h1), card.Codes(h2), r1.Score, r2.Score, la, lb)
		case r1.Score < r2.Score && la >= lb:
			t.Fatalf("trial %d: %v vs %v ordered differently (ours %d<%d, lib %d>=%d)",
				trial, card.Codes(h1), card.Codes(h2), r1.Score, r2.Score, la, lb)
		case r1.Score == r2.Score && la != lb:
			t.Fatalf("trial %d: tie for us, not for lib (%d vs %d)", trial, la, lb)
		}
	}
}

func TestSevenCardAgreesWithReferenceEvaluator(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		deck := card.NewShuffled(rng)
		h1, _ := deck.PopCards(7)
		h2, _ := deck.PopCards(7)

		r1, _, err := EvaluateBestOfSeven(h1)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		r2, _, err := EvaluateBestOfSeven(h2)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}

		var a7, b7 [7]poker.Card
		for i := 0; i < 7; i++ {
			a7[i] = toLibCard(t, h1[i])
			b7[i] = toLibCard(t, h2[i])
		}
		la, lb := poker.Eval7(&a7), poker.Eval7(&b7)

		switch {
		case r1.Score > r2.Score && la <= lb:
			t.Fatalf("trial %d: seven-card orderings disagree", trial)
		case r1.Score < r2.Score && la >= lb:
			t.Fatalf("trial %d: seven-card orderings disagree", trial)
		case r1.Score == r2.Score && la != lb:
			t.Fatalf("trial %d: seven-card tie disagreement", trial)
		}
	}
}
