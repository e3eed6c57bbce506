package damage

import "github.com/domjancik/damage-game/card"

// Player is one seat's full state. Mutated only by the engine's own phase
// processing; external readers get snapshots.
type Player struct {
	ID   string
	Seat int

	alive    bool
	lives    int
	bankroll int64

	// per-hand betting state
	bet            int64 // current betting round
	handContrib    int64 // collected into the pot this hand
	inHand         bool
	allIn          bool
	foldedThisHand bool

	hand card.CardList

	// affect stats
	will            int
	skillAffect     int
	focus           float64
	stress          float64
	resistanceBonus float64
	tempo           int
	exposure        int
	emotions        Emotions

	// round/hand scoped affect bookkeeping
	guardBonus     float64 // this affect round only
	handAffectLoad float64 // cumulative |applied delta| this hand

	source DecisionSource
}

func (p *Player) Alive() bool     { return p.alive }
func (p *Player) Lives() int      { return p.lives }
func (p *Player) Bankroll() int64 { return p.bankroll }
func (p *Player) Bet() int64      { return p.bet }
func (p *Player) InHand() bool    { return p.inHand }
func (p *Player) AllIn() bool     { return p.allIn }

func (p *Player) Hand() []card.Card {
	return append([]card.Card{}, p.hand...)
}

func (p *Player) Emotions() Emotions { return p.emotions }
func (p *Player) Tempo() int         { return p.tempo }
func (p *Player) Exposure() int      { return p.exposure }

func (p *Player) resetForHand() {
	p.bet = 0
	p.handContrib = 0
	p.inHand = p.alive
	p.allIn = false
	p.foldedThisHand = false
	p.hand = p.hand[:0]
	p.guardBonus = 0
	p.handAffectLoad = 0
}

// contribute moves chips from bankroll to the player's open round bet,
// flagging all-in when the bankroll cannot cover the full amount.
func (p *Player) contribute(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	if amount >= p.bankroll {
		amount = p.bankroll
		p.allIn = true
	}
	p.bankroll -= amount
	p.bet += amount
	return amount
}

func (p *Player) fold() {
	p.inHand = false
	p.foldedThisHand = true
}

func (p *Player) resistanceTotal() float64 {
	return p.resistanceBonus + p.guardBonus
}

// playerNode is a ring-list element; the betting cursor walks it.
type playerNode struct {
	Player *Player
	Seat   int
	Next   *playerNode
}

// walkOnce visits at most one full circle starting at n; fn returning true
// stops and yields the node.
func (n *playerNode) walkOnce(fn func(*playerNode) bool) *playerNode {
	if n == nil {
		return nil
	}
	cur := n
	for {
		if fn(cur) {
			return cur
		}
		cur = cur.Next
		if cur == nil || cur == n {
			break
		}
	}
	return nil
}

func (n *playerNode) walkAll(fn func(cur *playerNode)) {
	n.walkOnce(func(cur *playerNode) bool {
		fn(cur)
		return false
	})
}
