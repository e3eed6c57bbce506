package card

import (
	"fmt"
	"strings"
)

// Card is one playing card packed into a byte.
//
// Encoding:
//   - high nibble: suit (0 Spade, 1 Heart, 2 Club, 3 Diamond)
//   - low nibble:  rank (1 A, 2..9, 10 T, 11 J, 12 Q, 13 K)
type Card byte

const CardInvalid Card = 0

// Rank returns 1..13 (A=1, K=13), or 0 for an invalid card.
func (c Card) Rank() byte {
	if c == CardInvalid {
		return 0
	}
	return byte(c & 0x0F)
}

// Suit returns the card's suit (0 Spade, 1 Heart, 2 Club, 3 Diamond).
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) IsAce() bool {
	return c.Rank() == 1
}

// HighRank returns the rank used for hand comparison: aces count as 14,
// every other card its face value.
func (c Card) HighRank() int {
	r := int(c & 0x0F)
	if r == 1 {
		return 14
	}
	return r
}

var rankLetters = "?A23456789TJQK"

// String returns the two-character code of the card, e.g. "As", "Td", "9c".
func (c Card) String() string {
	r := c.Rank()
	if r == 0 || r > 13 {
		return "??"
	}
	return fmt.Sprintf("%c%c", rankLetters[r], c.Suit().Letter())
}

// Pretty returns the card with a suit symbol for terminal display, e.g. "A♠".
func (c Card) Pretty() string {
	r := c.Rank()
	if r == 0 || r > 13 {
		return "??"
	}
	return fmt.Sprintf("%c%s", rankLetters[r], c.Suit())
}

// Parse converts codes like "As", "td" or "10h" into a Card.
func Parse(code string) (Card, error) {
	code = strings.TrimSpace(code)
	if len(code) < 2 {
		return CardInvalid, fmt.Errorf("invalid card code %q", code)
	}

	var suitBase Card
	switch code[len(code)-1] {
	case 's', 'S':
		suitBase = 0x00
	case 'h', 'H':
		suitBase = 0x10
	case 'c', 'C':
		suitBase = 0x20
	case 'd', 'D':
		suitBase = 0x30
	default:
		return CardInvalid, fmt.Errorf("invalid suit in card code %q", code)
	}

	var rank Card
	switch rankPart := strings.ToUpper(code[:len(code)-1]); rankPart {
	case "A":
		rank = 1
	case "T", "10":
		rank = 10
	case "J":
		rank = 11
	case "Q":
		rank = 12
	case "K":
		rank = 13
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = Card(rankPart[0] - '0')
	default:
		return CardInvalid, fmt.Errorf("invalid rank in card code %q", code)
	}

	return suitBase | rank, nil
}

// ParseAll converts a slice of card codes, failing on the first bad code.
func ParseAll(codes []string) ([]Card, error) {
	out := make([]Card, 0, len(codes))
	for _, code := range codes {
		c, err := Parse(code)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Codes renders cards as their two-character codes, the inverse of ParseAll.
func Codes(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
