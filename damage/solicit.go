package damage

import (
	"context"

	"github.com/domjancik/damage-game/card"
)

// SeatView is the public information one player may know about another.
type SeatView struct {
	Seat     int
	PlayerID string
	Alive    bool
	Lives    int
	Bankroll int64
	Bet      int64
	InHand   bool
	AllIn    bool
	Tempo    int
	Exposure int
}

// SolicitRequest carries everything a decision source may legally see when
// asked for a decision: its own private cards and emotions, plus public
// table state. Opponent hands are never included.
type SolicitRequest struct {
	GameID   string
	Seat     int
	PlayerID string
	Turn     int
	Phase    Phase
	Window   Window

	LegalKinds []DecisionKind

	Pot            int64
	CurrentHighBet int64
	MinRaiseDelta  int64
	Bet            int64
	Bankroll       int64

	Hand      []card.Card
	Community []card.Card

	Emotions Emotions
	Focus    float64
	Stress   float64

	Table []SeatView
}

// DecisionSource supplies decisions for one seat. Solicit blocks until a
// decision is ready or ctx is done; the engine treats errors and timeouts
// like malformed decisions (re-solicit once, then fall back).
type DecisionSource interface {
	Solicit(ctx context.Context, req SolicitRequest) (Decision, error)
}

// SourceFunc adapts a function to the DecisionSource interface.
type SourceFunc func(ctx context.Context, req SolicitRequest) (Decision, error)

func (f SourceFunc) Solicit(ctx context.Context, req SolicitRequest) (Decision, error) {
	return f(ctx, req)
}
