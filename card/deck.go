package card

import "math/rand"

// Deck returns the canonical 52-card deck in suit-then-rank order.
func Deck() CardList {
	deck := make(CardList, 0, 52)
	for suit := Card(0); suit < 4; suit++ {
		for rank := Card(1); rank <= 13; rank++ {
			deck = append(deck, suit<<4|rank)
		}
	}
	return deck
}

// NewShuffled returns a full deck shuffled with the supplied source.
func NewShuffled(rng *rand.Rand) CardList {
	deck := Deck()
	deck.Shuffle(rng)
	return deck
}
