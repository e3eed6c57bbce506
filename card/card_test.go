package card

import (
	"math/rand"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []struct {
		code string
		want Card
	}{
		{"As", CardSpadeA},
		{"Kd", CardDiamondK},
		{"td", CardDiamondT},
		{"10h", CardHeartT},
		{"2c", CardClub2},
		{"9S", CardSpade9},
	}
	for _, tc := range cases {
		got, err := Parse(tc.code)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.code, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %#x, want %#x", tc.code, got, tc.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "A", "1s", "Ax", "11h", "Zd"} {
		if _, err := Parse(code); err == nil {
			t.Fatalf("Parse(%q) accepted invalid code", code)
		}
	}
}

func TestStringCodes(t *testing.T) {
	if got := CardSpadeA.String(); got != "As" {
		t.Fatalf("CardSpadeA.String() = %q", got)
	}
	if got := CardHeartT.String(); got != "Th" {
		t.Fatalf("CardHeartT.String() = %q", got)
	}
	if got := CardInvalid.String(); got != "??" {
		t.Fatalf("CardInvalid.String() = %q", got)
	}
	if got := CardDiamondQ.Pretty(); got != "Q♦" {
		t.Fatalf("CardDiamondQ.Pretty() = %q", got)
	}
}

func TestHighRank(t *testing.T) {
	if got := CardSpadeA.HighRank(); got != 14 {
		t.Fatalf("ace HighRank = %d, want 14", got)
	}
	if got := CardClubK.HighRank(); got != 13 {
		t.Fatalf("king HighRank = %d, want 13", got)
	}
	if got := CardHeart2.HighRank(); got != 2 {
		t.Fatalf("deuce HighRank = %d, want 2", got)
	}
}

func TestDeckComplete(t *testing.T) {
	deck := Deck()
	if deck.Count() != 52 {
		t.Fatalf("deck has %d cards", deck.Count())
	}
	seen := map[Card]bool{}
	for _, c := range deck {
		if c.Rank() < 1 || c.Rank() > 13 {
			t.Fatalf("bad rank in deck: %#x", c)
		}
		if seen[c] {
			t.Fatalf("duplicate card %s", c)
		}
		seen[c] = true
	}
}

func TestShuffleDeterministic(t *testing.T) {
	a := NewShuffled(rand.New(rand.NewSource(7)))
	b := NewShuffled(rand.New(rand.NewSource(7)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different decks at %d: %s vs %s", i, a[i], b[i])
		}
	}
	c := NewShuffled(rand.New(rand.NewSource(8)))
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical decks")
	}
}

func TestPopCards(t *testing.T) {
	deck := Deck()
	head := deck[:5].Clone()
	got, ok := deck.PopCards(5)
	if !ok {
		t.Fatal("PopCards(5) failed on full deck")
	}
	for i := range got {
		if got[i] != head[i] {
			t.Fatalf("PopCards order mismatch at %d", i)
		}
	}
	if deck.Count() != 47 {
		t.Fatalf("deck has %d cards after popping 5", deck.Count())
	}
	if _, ok := deck.PopCards(48); ok {
		t.Fatal("PopCards should refuse oversize request")
	}
}
