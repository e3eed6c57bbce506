package npc

import (
	"github.com/domjancik/damage-game/card"
	"github.com/domjancik/damage-game/damage"
)

// GameView is a read-only projection of the table state visible to the NPC.
type GameView struct {
	Window     damage.Window
	Turn       int
	Phase      damage.Phase
	Seat       int
	Hand       []card.Card
	Community  []card.Card
	Pot        int64
	CurrentBet int64
	MyBet      int64
	MyStack    int64
	MinRaise   int64
	MyTempo    int
	MyExposure int
	Emotions   damage.Emotions
	Focus      float64
	Stress     float64

	LegalKinds  []damage.DecisionKind
	ActiveCount int
	Street      int // 0=first round, then 1=flop, 2=turn, 3=river

	// Rivals lists the public view of every other living seat.
	Rivals []damage.SeatView
}

// Brain is the core interface all NPC types implement.
type Brain interface {
	// Decide is called once per decision window on the NPC's turn.
	Decide(view GameView) damage.Decision
	// Name returns a human-readable identifier for debugging.
	Name() string
}

// ViewFromRequest projects an engine solicitation into the NPC's view.
func ViewFromRequest(req damage.SolicitRequest) GameView {
	view := GameView{
		Window:     req.Window,
		Turn:       req.Turn,
		Phase:      req.Phase,
		Seat:       req.Seat,
		Hand:       req.Hand,
		Community:  req.Community,
		Pot:        req.Pot,
		CurrentBet: req.CurrentHighBet,
		MyBet:      req.Bet,
		MyStack:    req.Bankroll,
		MinRaise:   req.MinRaiseDelta,
		Emotions:   req.Emotions,
		Focus:      req.Focus,
		Stress:     req.Stress,
		LegalKinds: req.LegalKinds,
	}
	for _, sv := range req.Table {
		if sv.Seat == req.Seat {
			view.MyTempo = sv.Tempo
			view.MyExposure = sv.Exposure
			if sv.InHand {
				view.ActiveCount++
			}
			continue
		}
		if sv.Alive {
			view.Rivals = append(view.Rivals, sv)
		}
		if sv.InHand {
			view.ActiveCount++
		}
	}
	switch len(req.Community) {
	case 3:
		view.Street = 1
	case 4:
		view.Street = 2
	case 5:
		view.Street = 3
	}
	return view
}
