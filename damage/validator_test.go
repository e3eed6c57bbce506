package damage

import "testing"

func bettingTable(turnSeat int, highBet int64, raised bool) TableState {
	return TableState{
		Window:          WindowBetting,
		TurnSeat:        turnSeat,
		HighBet:         highBet,
		MinRaiseDelta:   10,
		RaisedThisRound: raised,
		AliveSeats:      []int{0, 1, 2, 3},
	}
}

func affectTable() TableState {
	return TableState{Window: WindowAffect, TurnSeat: InvalidSeat, AliveSeats: []int{0, 1, 2, 3}}
}

func actorFacts(seat int, bankroll, bet int64) PlayerFacts {
	return PlayerFacts{Seat: seat, Bankroll: bankroll, Bet: bet, InHand: true, Alive: true}
}

func validPlan(target int) *AttackPlan {
	return &AttackPlan{
		Kinetic:    KineticDiscardPressure,
		Emotional:  IntentFear,
		Tactic:     TacticThreatFraming,
		Channel:    ChannelPublic,
		TargetSeat: target,
		Confidence: 0.5,
	}
}

func wantReason(t *testing.T, rej *RejectionError, reason RejectionReason) {
	t.Helper()
	if rej == nil {
		t.Fatalf("expected rejection %s, got none", reason)
	}
	if rej.Reason != reason {
		t.Fatalf("rejection reason = %s, want %s (%s)", rej.Reason, reason, rej.Detail)
	}
}

func TestAffectKindsIllegalInBetting(t *testing.T) {
	rej := ValidateDecision(bettingTable(0, 0, false), actorFacts(0, 100, 0), Decision{Kind: KindAttack, TargetSeat: 1})
	wantReason(t, rej, RejectIllegalKind)
}

func TestOutOfTurnRejected(t *testing.T) {
	rej := ValidateDecision(bettingTable(0, 0, false), actorFacts(1, 100, 0), Decision{Kind: KindCheck})
	wantReason(t, rej, RejectOutOfTurn)
}

func TestCheckRequiresMatchedBet(t *testing.T) {
	rej := ValidateDecision(bettingTable(2, 50, true), actorFacts(2, 100, 20), Decision{Kind: KindCheck})
	wantReason(t, rej, RejectIllegalKind)

	if rej := ValidateDecision(bettingTable(2, 50, true), actorFacts(2, 100, 50), Decision{Kind: KindCheck}); rej != nil {
		t.Fatalf("matched check rejected: %v", rej)
	}
}

func TestPassOnlyInUncontestedRounds(t *testing.T) {
	rej := ValidateDecision(bettingTable(1, 50, true), actorFacts(1, 100, 50), Decision{Kind: KindPass})
	wantReason(t, rej, RejectIllegalKind)

	rej = ValidateDecision(bettingTable(1, 50, false), actorFacts(1, 100, 20), Decision{Kind: KindPass})
	wantReason(t, rej, RejectIllegalKind)

	if rej := ValidateDecision(bettingTable(1, 0, false), actorFacts(1, 100, 0), Decision{Kind: KindPass}); rej != nil {
		t.Fatalf("legal pass rejected: %v", rej)
	}
}

func TestCallIsAlwaysLegalInTurn(t *testing.T) {
	if rej := ValidateDecision(bettingTable(0, 50, true), actorFacts(0, 5, 0), Decision{Kind: KindCall}); rej != nil {
		t.Fatalf("short-stack call rejected: %v", rej)
	}
	if rej := ValidateDecision(bettingTable(0, 0, false), actorFacts(0, 100, 0), Decision{Kind: KindCall}); rej != nil {
		t.Fatalf("zero-owed call rejected: %v", rej)
	}
}

func TestRaiseBelowMinimumRejected(t *testing.T) {
	dec := Decision{Kind: KindRaise, Amount: 5, Plan: validPlan(1)}
	rej := ValidateDecision(bettingTable(0, 0, false), actorFacts(0, 100, 0), dec)
	wantReason(t, rej, RejectInvalidRaiseAmount)
}

func TestRaiseRequiresValidPlan(t *testing.T) {
	table := bettingTable(0, 0, false)
	pf := actorFacts(0, 200, 0)

	rej := ValidateDecision(table, pf, Decision{Kind: KindRaise, Amount: 20})
	wantReason(t, rej, RejectMissingAttackPlan)

	bad := validPlan(1)
	bad.Confidence = 2
	rej = ValidateDecision(table, pf, Decision{Kind: KindRaise, Amount: 20, Plan: bad})
	wantReason(t, rej, RejectMissingAttackPlan)

	rej = ValidateDecision(table, pf, Decision{Kind: KindRaise, Amount: 20, Plan: validPlan(0)})
	wantReason(t, rej, RejectMissingAttackPlan)

	rej = ValidateDecision(table, pf, Decision{Kind: KindRaise, Amount: 20, Plan: validPlan(9)})
	wantReason(t, rej, RejectMissingAttackPlan)

	if rej := ValidateDecision(table, pf, Decision{Kind: KindRaise, Amount: 20, Plan: validPlan(1)}); rej != nil {
		t.Fatalf("legal raise rejected: %v", rej)
	}
}

func TestRaiseNeedsFunds(t *testing.T) {
	dec := Decision{Kind: KindRaise, Amount: 50, Plan: validPlan(1)}
	rej := ValidateDecision(bettingTable(0, 50, true), actorFacts(0, 80, 0), dec)
	wantReason(t, rej, RejectInsufficientFunds)
}

func TestAffectWindowValidation(t *testing.T) {
	table := affectTable()
	pf := actorFacts(0, 100, 0)

	rej := ValidateDecision(table, pf, Decision{Kind: KindRaise, Amount: 20})
	wantReason(t, rej, RejectIllegalKind)

	rej = ValidateDecision(table, pf, Decision{Kind: KindAttack, TargetSeat: 0})
	wantReason(t, rej, RejectIllegalKind)

	rej = ValidateDecision(table, pf, Decision{Kind: KindAttack, TargetSeat: 7})
	wantReason(t, rej, RejectIllegalKind)

	rej = ValidateDecision(table, pf, Decision{Kind: KindAttack, TargetSeat: 1, Intent: "dread"})
	wantReason(t, rej, RejectIllegalKind)

	for _, dec := range []Decision{
		{Kind: KindAttack, TargetSeat: 1, Intent: IntentShame},
		{Kind: KindAssist, TargetSeat: 2},
		{Kind: KindGuard},
		{Kind: KindSelfRegulate},
		{Kind: KindNone},
	} {
		if rej := ValidateDecision(table, pf, dec); rej != nil {
			t.Fatalf("legal affect decision %s rejected: %v", dec.Kind, rej)
		}
	}
}

func TestEliminatedPlayerCannotAct(t *testing.T) {
	pf := actorFacts(0, 100, 0)
	pf.Alive = false
	rej := ValidateDecision(affectTable(), pf, Decision{Kind: KindGuard})
	wantReason(t, rej, RejectIllegalKind)

	pfBet := actorFacts(0, 100, 0)
	pfBet.InHand = false
	rej = ValidateDecision(bettingTable(0, 0, false), pfBet, Decision{Kind: KindCheck})
	wantReason(t, rej, RejectIllegalKind)
}
