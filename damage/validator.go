package damage

import "fmt"

// TableState is the betting-round context a legality check needs. Built by
// the engine, also useful to decision sources for self-checks.
type TableState struct {
	Window          Window
	TurnSeat        int // InvalidSeat outside betting turns
	HighBet         int64
	MinRaiseDelta   int64
	RaisedThisRound bool
	AliveSeats      []int
}

// PlayerFacts is the solicited player's slice of state.
type PlayerFacts struct {
	Seat     int
	Bankroll int64
	Bet      int64
	InHand   bool
	AllIn    bool
	Alive    bool
}

func (t TableState) seatAlive(seat int) bool {
	for _, s := range t.AliveSeats {
		if s == seat {
			return true
		}
	}
	return false
}

// ValidateDecision is a pure legality check: no state is read beyond its
// arguments and none is mutated. A nil return means the decision may be
// applied as submitted.
func ValidateDecision(t TableState, p PlayerFacts, d Decision) *RejectionError {
	switch t.Window {
	case WindowBetting:
		return validateBetting(t, p, d)
	case WindowAffect:
		return validateAffect(t, p, d)
	}
	return reject(p.Seat, RejectIllegalKind, fmt.Sprintf("unknown window %v", t.Window))
}

func validateBetting(t TableState, p PlayerFacts, d Decision) *RejectionError {
	if !d.Kind.IsBettingKind() {
		return reject(p.Seat, RejectIllegalKind, fmt.Sprintf("%s is not a betting action", d.Kind))
	}
	if p.Seat != t.TurnSeat {
		return reject(p.Seat, RejectOutOfTurn, "")
	}
	if !p.InHand || p.AllIn {
		return reject(p.Seat, RejectIllegalKind, "player cannot act")
	}

	switch d.Kind {
	case KindFold:
		return nil

	case KindCheck:
		if p.Bet != t.HighBet {
			return reject(p.Seat, RejectIllegalKind, "check requires a matched bet")
		}
		return nil

	case KindCall:
		// Calling with nothing owed degrades to a check at apply time.
		return nil

	case KindPass:
		if t.RaisedThisRound {
			return reject(p.Seat, RejectIllegalKind, "pass is only legal in uncontested rounds")
		}
		if p.Bet != t.HighBet {
			return reject(p.Seat, RejectIllegalKind, "pass requires a matched bet")
		}
		return nil

	case KindRaise:
		if d.Amount <= 0 || d.Amount < t.MinRaiseDelta {
			return reject(p.Seat, RejectInvalidRaiseAmount,
				fmt.Sprintf("raise delta %d below minimum %d", d.Amount, t.MinRaiseDelta))
		}
		if d.Plan == nil {
			return reject(p.Seat, RejectMissingAttackPlan, "raise requires an attack plan")
		}
		if err := d.Plan.Check(); err != nil {
			return reject(p.Seat, RejectMissingAttackPlan, err.Error())
		}
		if d.Plan.TargetSeat == p.Seat || !t.seatAlive(d.Plan.TargetSeat) {
			return reject(p.Seat, RejectMissingAttackPlan,
				fmt.Sprintf("attack plan targets invalid seat %d", d.Plan.TargetSeat))
		}
		if cost := t.HighBet + d.Amount - p.Bet; cost > p.Bankroll {
			return reject(p.Seat, RejectInsufficientFunds,
				fmt.Sprintf("raise needs %d, bankroll %d", cost, p.Bankroll))
		}
		return nil
	}
	return reject(p.Seat, RejectIllegalKind, fmt.Sprintf("unknown kind %q", d.Kind))
}

func validateAffect(t TableState, p PlayerFacts, d Decision) *RejectionError {
	if !d.Kind.IsAffectKind() {
		return reject(p.Seat, RejectIllegalKind, fmt.Sprintf("%s is not an affect action", d.Kind))
	}
	if !p.Alive {
		return reject(p.Seat, RejectIllegalKind, "player is eliminated")
	}

	switch d.Kind {
	case KindNone, KindGuard, KindSelfRegulate:
		return nil

	case KindAttack, KindAssist:
		if d.TargetSeat == p.Seat {
			return reject(p.Seat, RejectIllegalKind, "cannot target self")
		}
		if !t.seatAlive(d.TargetSeat) {
			return reject(p.Seat, RejectIllegalKind, fmt.Sprintf("target seat %d is not alive", d.TargetSeat))
		}
		if d.Kind == KindAttack && d.Plan != nil {
			if err := d.Plan.Check(); err != nil {
				return reject(p.Seat, RejectMissingAttackPlan, err.Error())
			}
		}
		if d.Intent != "" && !d.Intent.valid() {
			return reject(p.Seat, RejectIllegalKind, fmt.Sprintf("unknown intent %q", d.Intent))
		}
		return nil
	}
	return reject(p.Seat, RejectIllegalKind, fmt.Sprintf("unknown kind %q", d.Kind))
}
