package damage

import (
	"context"
	"fmt"
	"math"
	"testing"
)

func staticSource(d Decision) DecisionSource {
	return SourceFunc(func(context.Context, SolicitRequest) (Decision, error) {
		return d, nil
	})
}

func affectGame(t *testing.T, n int, opts map[int][]SeatOption) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Players = n
	cfg.Seed = 1
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	for seat := 0; seat < n; seat++ {
		if err := g.SeatPlayer(seat, fmt.Sprintf("p%d", seat), staticSource(Decision{Kind: KindNone}), opts[seat]...); err != nil {
			t.Fatalf("seat %d: %v", seat, err)
		}
	}
	return g
}

func attackSub(seat, target int) affectSubmission {
	return affectSubmission{seat: seat, decision: Decision{Kind: KindAttack, TargetSeat: target, Intent: IntentFear}}
}

func assistSub(seat, target int) affectSubmission {
	return affectSubmission{seat: seat, decision: Decision{Kind: KindAssist, TargetSeat: target, Intent: IntentFear}}
}

func appliedDeltas(g *Game) []float64 {
	var out []float64
	for _, ev := range g.Events() {
		if ev.Type != EventAffectResolved && ev.Type != EventAffectUnpairedAssist {
			continue
		}
		switch p := ev.Payload.(type) {
		case AffectResolvedPayload:
			out = append(out, p.AppliedDelta)
		case AffectUnpairedAssistPayload:
			out = append(out, p.AppliedDelta)
		}
	}
	return out
}

func checkBounded(t *testing.T, p *Player) {
	t.Helper()
	e := p.emotions
	for name, v := range map[string]float64{
		"fear": e.Fear, "anger": e.Anger, "shame": e.Shame,
		"confidence": e.Confidence, "tilt": e.Tilt,
	} {
		if v < -1 || v > 1 {
			t.Fatalf("%s = %v outside [-1,1]", name, v)
		}
	}
	if p.stress < 0 || p.stress > 100 {
		t.Fatalf("stress = %v outside [0,100]", p.stress)
	}
}

func TestEmotionsStayBoundedUnderPileOn(t *testing.T) {
	g := affectGame(t, 4, map[int][]SeatOption{
		0: {WithSkillAffect(100), WithWill(100)},
		1: {WithSkillAffect(100), WithWill(100)},
		2: {WithSkillAffect(100), WithWill(100)},
		3: {WithWill(10), WithFocus(0)},
	})
	for round := 0; round < 20; round++ {
		g.resolveAffectRound([]affectSubmission{
			attackSub(0, 3), attackSub(1, 3), attackSub(2, 3),
		})
		for _, p := range g.seatOrder() {
			checkBounded(t, p)
		}
		// fresh hand, fresh pile-on allowance
		g.players[3].handAffectLoad = 0
	}
}

func TestDecayPullsTowardNeutral(t *testing.T) {
	g := affectGame(t, 2, nil)
	g.players[1].emotions.Fear = 1.0
	g.players[1].emotions.Confidence = -0.5

	g.resolveAffectRound([]affectSubmission{
		{seat: 0, decision: Decision{Kind: KindNone}},
		{seat: 1, decision: Decision{Kind: KindNone}},
	})

	e := g.players[1].emotions
	if math.Abs(e.Fear-0.9) > 1e-9 {
		t.Fatalf("fear after decay = %v, want 0.9", e.Fear)
	}
	if math.Abs(e.Confidence-(-0.45)) > 1e-9 {
		t.Fatalf("confidence after decay = %v, want -0.45", e.Confidence)
	}
}

func TestSingleHitBoundedByShockCap(t *testing.T) {
	g := affectGame(t, 2, map[int][]SeatOption{
		0: {WithSkillAffect(100), WithWill(100)},
		1: {WithWill(0), WithFocus(0)},
	})
	g.resolveAffectRound([]affectSubmission{attackSub(0, 1)})

	limit := g.cfg.Affect.ShockCap
	for _, d := range appliedDeltas(g) {
		if math.Abs(d) > limit+1e-9 {
			t.Fatalf("applied delta %v exceeds shock cap %v", d, limit)
		}
	}
	if g.players[1].emotions.Fear <= 0 {
		t.Fatalf("target fear should have risen, got %v", g.players[1].emotions.Fear)
	}
}

func TestHandDeltaCapLimitsCumulativeSwing(t *testing.T) {
	g := affectGame(t, 4, map[int][]SeatOption{
		0: {WithSkillAffect(100), WithWill(100)},
		1: {WithSkillAffect(100), WithWill(100)},
		2: {WithSkillAffect(100), WithWill(100)},
		3: {WithWill(0), WithFocus(0)},
	})
	for round := 0; round < 10; round++ {
		g.resolveAffectRound([]affectSubmission{
			attackSub(0, 3), attackSub(1, 3), attackSub(2, 3),
		})
	}

	capTotal := g.cfg.Affect.HandDeltaCap
	if g.players[3].handAffectLoad > capTotal+1e-9 {
		t.Fatalf("hand affect load %v exceeds cap %v", g.players[3].handAffectLoad, capTotal)
	}
	var sum float64
	for _, d := range appliedDeltas(g) {
		sum += math.Abs(d)
	}
	if sum > capTotal+1e-9 {
		t.Fatalf("cumulative applied %v exceeds per-hand cap %v", sum, capTotal)
	}
}

func TestAssistsHaveDiminishingReturns(t *testing.T) {
	run := func(assists int) float64 {
		opts := map[int][]SeatOption{
			1: {WithSkillAffect(30)},
			2: {WithSkillAffect(30)},
		}
		g := affectGame(t, 4, opts)
		subs := []affectSubmission{attackSub(0, 3)}
		for i := 0; i < assists; i++ {
			subs = append(subs, assistSub(1+i, 3))
		}
		g.resolveAffectRound(subs)
		deltas := appliedDeltas(g)
		if len(deltas) != 1 {
			t.Fatalf("expected one contest, got %d deltas", len(deltas))
		}
		return deltas[0]
	}

	solo := run(0)
	one := run(1)
	two := run(2)
	if !(one > solo) || !(two > one) {
		t.Fatalf("assists should help: solo %v, one %v, two %v", solo, one, two)
	}
	if (two - one) >= (one - solo) {
		t.Fatalf("second assist gained %v, first gained %v; want diminishing", two-one, one-solo)
	}
}

func TestGuardBluntsTheAttack(t *testing.T) {
	hit := func(guarded bool) float64 {
		g := affectGame(t, 2, map[int][]SeatOption{0: {WithSkillAffect(90)}})
		subs := []affectSubmission{attackSub(0, 1)}
		if guarded {
			subs = append(subs, affectSubmission{seat: 1, decision: Decision{Kind: KindGuard}})
		}
		g.resolveAffectRound(subs)
		return g.players[1].emotions.Fear
	}

	open := hit(false)
	guarded := hit(true)
	if guarded >= open {
		t.Fatalf("guarded fear %v should be below unguarded %v", guarded, open)
	}
}

func TestSelfRegulateRecoversAndSpendsFocus(t *testing.T) {
	g := affectGame(t, 2, nil)
	p := g.players[1]
	p.emotions.Fear = 0.8
	p.stress = 50

	g.resolveAffectRound([]affectSubmission{
		{seat: 1, decision: Decision{Kind: KindSelfRegulate}},
	})

	// decay (x0.9) then a full-focus regulate (x0.7)
	wantFear := 0.8 * 0.9 * 0.7
	if math.Abs(p.emotions.Fear-wantFear) > 1e-9 {
		t.Fatalf("fear = %v, want %v", p.emotions.Fear, wantFear)
	}
	if math.Abs(p.stress-35) > 1e-9 {
		t.Fatalf("stress = %v, want 35", p.stress)
	}
	if math.Abs(p.focus-90) > 1e-9 {
		t.Fatalf("focus = %v, want 90", p.focus)
	}
}

func TestSelfRegulateScalesWithRemainingFocus(t *testing.T) {
	g := affectGame(t, 2, map[int][]SeatOption{1: {WithFocus(5)}})
	p := g.players[1]
	p.emotions.Fear = 1.0

	g.resolveAffectRound([]affectSubmission{
		{seat: 1, decision: Decision{Kind: KindSelfRegulate}},
	})

	// half the focus cost buys half the recovery pool
	wantFear := 1.0 * 0.9 * (1 - 0.15)
	if math.Abs(p.emotions.Fear-wantFear) > 1e-9 {
		t.Fatalf("fear = %v, want %v", p.emotions.Fear, wantFear)
	}
	if p.focus != 0 {
		t.Fatalf("focus = %v, want 0", p.focus)
	}
}

func TestUnpairedAssistLandsReduced(t *testing.T) {
	g := affectGame(t, 3, nil)
	g.resolveAffectRound([]affectSubmission{assistSub(0, 2)})

	events := 0
	for _, ev := range g.Events() {
		if ev.Type == EventAffectUnpairedAssist {
			events++
			p := ev.Payload.(AffectUnpairedAssistPayload)
			if p.Seat != 0 || p.TargetSeat != 2 {
				t.Fatalf("unexpected unpaired assist payload: %+v", p)
			}
		}
	}
	if events != 1 {
		t.Fatalf("got %d unpaired assist events, want 1", events)
	}
	if g.players[0].tempo != 1 || g.players[2].exposure != 1 {
		t.Fatalf("tempo/exposure not updated: tempo %d exposure %d",
			g.players[0].tempo, g.players[2].exposure)
	}
}

func TestResolutionOrderIsDeterministic(t *testing.T) {
	// Attacks on two targets submitted out of order must resolve in
	// ascending target seat order.
	g := affectGame(t, 4, nil)
	g.resolveAffectRound([]affectSubmission{
		attackSub(0, 3), attackSub(1, 2),
	})

	var targets []int
	for _, ev := range g.Events() {
		if ev.Type == EventAffectResolved {
			p := ev.Payload.(AffectResolvedPayload)
			if p.Mode == "attack" {
				targets = append(targets, p.TargetSeat)
			}
		}
	}
	if len(targets) != 2 || targets[0] != 2 || targets[1] != 3 {
		t.Fatalf("contests resolved in order %v, want [2 3]", targets)
	}
}

func TestDirectNudgeMovesIntentEmotion(t *testing.T) {
	g := affectGame(t, 2, nil)
	plan := &AttackPlan{
		Kinetic:    KineticTempoSwing,
		Emotional:  IntentTilt,
		Tactic:     TacticBait,
		Channel:    ChannelPublic,
		TargetSeat: 1,
		Shift:      "calls down lighter",
		Confidence: 0.9,
	}
	g.applyDirectNudge(g.players[0], plan, 100)

	if g.players[1].emotions.Tilt <= 0 {
		t.Fatalf("tilt should have risen, got %v", g.players[1].emotions.Tilt)
	}
	checkBounded(t, g.players[1])
	if g.players[1].handAffectLoad <= 0 {
		t.Fatalf("nudge must charge the per-hand cap")
	}
}
