package damage

import "sort"

// Affect resolution. All submissions for one round are collected first, then
// applied in a fixed order so identical decision sets always produce
// identical state: defensive postures (guard, self_regulate) in seat order,
// then contests in ascending target seat order, then unpaired assists in
// assister seat order. Emotion decay runs once per round before anything else.

type affectSubmission struct {
	seat     int
	decision Decision
}

func (g *Game) resolveAffectRound(subs []affectSubmission) {
	tuning := g.cfg.Affect

	for _, p := range g.seatOrder() {
		if !p.alive {
			continue
		}
		p.guardBonus = 0
		p.emotions.decay(tuning.Decay)
	}

	for _, sub := range subs {
		p := g.players[sub.seat]
		g.emit(EventAffectIntent, AffectIntentPayload{
			Seat:       sub.seat,
			PlayerID:   p.ID,
			Kind:       sub.decision.Kind,
			TargetSeat: sub.decision.TargetSeat,
			Plan:       sub.decision.Plan,
		})
	}

	// Defensive postures first so they shape this round's contests.
	for _, sub := range subs {
		switch sub.decision.Kind {
		case KindGuard:
			g.applyGuard(g.players[sub.seat])
		case KindSelfRegulate:
			g.applySelfRegulate(g.players[sub.seat])
		}
	}

	// Group attacks and assists by target.
	type contest struct {
		attackers []affectSubmission
		assists   []affectSubmission
	}
	contests := make(map[int]*contest)
	targetSeats := make([]int, 0, len(subs))
	ensure := func(seat int) *contest {
		c := contests[seat]
		if c == nil {
			c = &contest{}
			contests[seat] = c
			targetSeats = append(targetSeats, seat)
		}
		return c
	}
	for _, sub := range subs {
		switch sub.decision.Kind {
		case KindAttack:
			c := ensure(sub.decision.TargetSeat)
			c.attackers = append(c.attackers, sub)
		case KindAssist:
			c := ensure(sub.decision.TargetSeat)
			c.assists = append(c.assists, sub)
		}
	}
	sort.Ints(targetSeats)

	var unpaired []affectSubmission
	for _, targetSeat := range targetSeats {
		c := contests[targetSeat]
		if len(c.attackers) == 0 {
			unpaired = append(unpaired, c.assists...)
			continue
		}
		g.resolveContest(targetSeat, c.attackers, c.assists)
	}

	sortSubsBySeat(unpaired)
	for _, sub := range unpaired {
		g.resolveUnpairedAssist(sub)
	}
}

// resolveContest applies one grouped attack against a single target.
func (g *Game) resolveContest(targetSeat int, attackers, assists []affectSubmission) {
	tuning := g.cfg.Affect
	target := g.players[targetSeat]

	// Primary attacker: strongest base, ties to the lower seat.
	bases := make([]float64, len(attackers))
	primary := 0
	for i, sub := range attackers {
		bases[i] = g.attackBase(g.players[sub.seat], sub.decision.Plan)
		if bases[i] > bases[primary] {
			primary = i
		}
	}

	atkScore := bases[primary]
	for i := range attackers {
		if i != primary {
			atkScore += 0.6 * bases[i]
		}
	}

	// Assists add team power with diminishing returns per extra assistant.
	weight := 1.0
	for _, sub := range assists {
		assister := g.players[sub.seat]
		atkScore += 0.5 * float64(assister.skillAffect) / 100 * weight
		weight *= tuning.AssistDecay
	}

	defScore := g.defenseScore(target)

	raw := clampAbs(tuning.StakeMultiplier*(atkScore-defScore), tuning.ShockCap)
	applied := g.applyCappedDelta(target, raw)

	intent := contestIntent(attackers[primary].decision)
	target.emotions.applyIntent(intent, applied)
	if applied > 0 {
		target.stress = clampStress(target.stress + applied*20)
	}

	attackerSeats := make([]int, len(attackers))
	for i, sub := range attackers {
		attackerSeats[i] = sub.seat
		g.players[sub.seat].tempo++
		target.exposure++
	}
	assistSeats := make([]int, len(assists))
	for i, sub := range assists {
		assistSeats[i] = sub.seat
	}

	g.emit(EventAffectResolved, AffectResolvedPayload{
		Mode:         "attack",
		TargetSeat:   targetSeat,
		TargetID:     target.ID,
		Attackers:    attackerSeats,
		Assists:      assistSeats,
		Intent:       intent,
		AttackScore:  atkScore,
		DefenseScore: defScore,
		RawDelta:     raw,
		AppliedDelta: applied,
		Emotions:     target.emotions,
	})
}

// resolveUnpairedAssist lets an assist that found no attacker land as a
// smaller direct effect instead of being discarded.
func (g *Game) resolveUnpairedAssist(sub affectSubmission) {
	tuning := g.cfg.Affect
	assister := g.players[sub.seat]
	target := g.players[sub.decision.TargetSeat]

	base := g.attackBase(assister, nil) * tuning.UnpairedAssistScale
	defScore := g.defenseScore(target)

	raw := clampAbs(tuning.StakeMultiplier*(base-defScore), tuning.ShockCap)
	applied := g.applyCappedDelta(target, raw)

	intent := sub.decision.Intent
	if intent == "" {
		intent = IntentFear
	}
	target.emotions.applyIntent(intent, applied)
	if applied > 0 {
		target.stress = clampStress(target.stress + applied*20)
	}
	assister.tempo++
	target.exposure++

	g.emit(EventAffectUnpairedAssist, AffectUnpairedAssistPayload{
		Seat:         sub.seat,
		PlayerID:     assister.ID,
		TargetSeat:   target.Seat,
		TargetID:     target.ID,
		Intent:       intent,
		AppliedDelta: applied,
		Emotions:     target.emotions,
	})
}

func (g *Game) applyGuard(p *Player) {
	p.guardBonus += g.cfg.Affect.GuardBonus
	g.emit(EventAffectResolved, AffectResolvedPayload{
		Mode:         "guard",
		TargetSeat:   p.Seat,
		TargetID:     p.ID,
		DefenseScore: g.defenseScore(p),
		Emotions:     p.emotions,
	})
}

// applySelfRegulate spends focus to recover negative emotion and shed
// stress, bounded by the per-round RegulateCap.
func (g *Game) applySelfRegulate(p *Player) {
	tuning := g.cfg.Affect

	spend := tuning.RegulateFocusCost
	if p.focus < spend {
		spend = p.focus
	}
	pool := 0.0
	if spend > 0 {
		pool = tuning.RegulateCap * (spend / tuning.RegulateFocusCost)
	}

	e := &p.emotions
	if e.Fear > 0 {
		e.Fear *= 1 - pool
	}
	if e.Anger > 0 {
		e.Anger *= 1 - pool
	}
	if e.Shame > 0 {
		e.Shame *= 1 - pool
	}
	if e.Tilt > 0 {
		e.Tilt *= 1 - pool
	}
	if e.Confidence < 0 {
		e.Confidence *= 1 - pool
	}
	e.clampAll()

	stressBefore := p.stress
	p.stress -= pool * 50
	if p.stress < 0 {
		p.stress = 0
	}
	p.focus -= spend

	g.emit(EventAffectResolved, AffectResolvedPayload{
		Mode:        "self_regulate",
		TargetSeat:  p.Seat,
		TargetID:    p.ID,
		FocusSpent:  spend,
		StressDelta: p.stress - stressBefore,
		Emotions:    p.emotions,
	})
}

// applyDirectNudge is the raise-coupled emoter path: a small intent-directed
// push tied to bet size, independent of the affect-phase contest. Gated by
// EnableDirectEmoterAttacks and skippable without changing betting legality.
func (g *Game) applyDirectNudge(raiser *Player, plan *AttackPlan, amount int64) {
	target := g.players[plan.TargetSeat]

	sizing := float64(amount) / float64(10*g.cfg.MinRaise)
	if sizing > 1 {
		sizing = 1
	}
	nudge := (0.1 + 0.15*sizing) * (0.75 + 0.5*plan.Confidence)
	applied := g.applyCappedDelta(target, nudge)
	target.emotions.applyIntent(plan.Emotional, applied)

	g.emit(EventAffectResolved, AffectResolvedPayload{
		Mode:         "direct",
		TargetSeat:   target.Seat,
		TargetID:     target.ID,
		Attackers:    []int{raiser.Seat},
		Intent:       plan.Emotional,
		RawDelta:     nudge,
		AppliedDelta: applied,
		Emotions:     target.emotions,
	})
}

// applyCappedDelta scales a raw contest delta by the target's standing
// resistance and charges it against the per-hand pile-on cap.
func (g *Game) applyCappedDelta(target *Player, raw float64) float64 {
	scaled := raw * (1 - 0.5*clamp01(target.resistanceBonus))
	room := g.cfg.Affect.HandDeltaCap - target.handAffectLoad
	if room < 0 {
		room = 0
	}
	applied := clampAbs(scaled, room)
	if applied < 0 {
		target.handAffectLoad += -applied
	} else {
		target.handAffectLoad += applied
	}
	return applied
}

func (g *Game) attackBase(p *Player, plan *AttackPlan) float64 {
	tuning := g.cfg.Affect
	base := 0.6*float64(p.skillAffect)/100 +
		0.4*float64(p.will)/100 +
		tuning.TempoWeight*float64(p.tempo) +
		0.1*p.emotions.Confidence -
		0.05*p.stress/100
	if plan != nil {
		base *= 0.75 + 0.5*plan.Confidence
	}
	return base
}

func (g *Game) defenseScore(p *Player) float64 {
	tuning := g.cfg.Affect
	score := 0.5*float64(p.will)/100 +
		0.2*p.focus/100 +
		p.resistanceTotal() -
		tuning.ExposureWeight*float64(p.exposure) -
		0.15*p.stress/100
	if score < 0.05 {
		score = 0.05
	}
	return score
}

func contestIntent(d Decision) EmotionalIntent {
	if d.Plan != nil && d.Plan.Emotional.valid() {
		return d.Plan.Emotional
	}
	if d.Intent.valid() {
		return d.Intent
	}
	return IntentFear
}

func sortSubsBySeat(s []affectSubmission) {
	sort.Slice(s, func(i, j int) bool { return s[i].seat < s[j].seat })
}
