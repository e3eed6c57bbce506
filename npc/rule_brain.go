package npc

import (
	"math/rand"

	"github.com/domjancik/damage-game/card"
	"github.com/domjancik/damage-game/damage"
)

// RuleBrain makes decisions based on a PersonalityProfile with tunable
// parameters. The same brain covers both the betting and affect windows.
type RuleBrain struct {
	Persona *Persona
	rng     *rand.Rand
}

// NewRuleBrain creates a RuleBrain from a persona definition.
func NewRuleBrain(persona *Persona, seed int64) *RuleBrain {
	return &RuleBrain{
		Persona: persona,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (b *RuleBrain) Name() string { return b.Persona.Name }

// Decide implements Brain. It selects a legal action based on personality
// parameters and the current table state.
func (b *RuleBrain) Decide(view GameView) damage.Decision {
	if view.Window == damage.WindowAffect {
		return b.decideAffect(view)
	}
	return b.decideBetting(view)
}

func (b *RuleBrain) decideBetting(view GameView) damage.Decision {
	p := b.Persona.Brain

	// Add noise to the parameters for this decision.
	aggression := clamp01(p.Aggression + (b.rng.Float64()-0.5)*p.Randomness*0.4)
	tightness := clamp01(p.Tightness + (b.rng.Float64()-0.5)*p.Randomness*0.3)

	legal := view.LegalKinds
	if len(legal) == 0 {
		return damage.Decision{Kind: damage.KindFold}
	}
	canCheck := contains(legal, damage.KindCheck)
	canCall := contains(legal, damage.KindCall)
	canRaise := contains(legal, damage.KindRaise)
	canPass := contains(legal, damage.KindPass)

	strength := b.estimateHandStrength(view)

	// First round: tight players dump marginal hands unless the look is free.
	if view.Street == 0 {
		foldThreshold := tightness * 0.55
		if strength < foldThreshold {
			if canCheck {
				if canPass && view.MyExposure > 0 && b.rng.Float64() < p.Composure*0.5 {
					return damage.Decision{Kind: damage.KindPass}
				}
				return damage.Decision{Kind: damage.KindCheck}
			}
			return damage.Decision{Kind: damage.KindFold}
		}
	}

	aggressivePlay := strength > (1.0-aggression)*0.5

	// Strong hand: raise, carrying the attack plan the raise requires.
	// Passive personas trap with the same hand more often than they bet it.
	if aggressivePlay && canRaise && b.rng.Float64() < aggression*(0.3+0.5*strength) {
		if plan := b.attackPlan(view, aggression); plan != nil {
			return damage.Decision{
				Kind:       damage.KindRaise,
				Amount:     b.raiseAmount(view, aggression),
				TargetSeat: plan.TargetSeat,
				Plan:       plan,
			}
		}
	}

	// Bluff attempt.
	if !aggressivePlay && canRaise && b.rng.Float64() < p.Bluffing*0.25 {
		if plan := b.attackPlan(view, 0.4); plan != nil {
			return damage.Decision{
				Kind:       damage.KindRaise,
				Amount:     b.raiseAmount(view, 0.4),
				TargetSeat: plan.TargetSeat,
				Plan:       plan,
			}
		}
	}

	// Marginal hand: take the free card, banking exposure when composed.
	if canCheck {
		if canPass && view.MyExposure > 0 && b.rng.Float64() < p.Composure*0.5 {
			return damage.Decision{Kind: damage.KindPass}
		}
		return damage.Decision{Kind: damage.KindCheck}
	}
	if canCall {
		callThreshold := tightness * 0.4
		if strength > callThreshold || b.rng.Float64() < (1.0-tightness)*0.5 {
			return damage.Decision{Kind: damage.KindCall}
		}
		return damage.Decision{Kind: damage.KindFold}
	}

	// Fallback: first legal kind.
	return damage.Decision{Kind: legal[0]}
}

func (b *RuleBrain) decideAffect(view GameView) damage.Decision {
	p := b.Persona.Brain

	// Compose first: rattled but disciplined players turn inward.
	rattled := view.Stress > 60 || view.Emotions.Tilt > 0.5 || view.Emotions.Fear > 0.6
	if rattled && view.Focus > 0 && b.rng.Float64() < p.Composure {
		return damage.Decision{Kind: damage.KindSelfRegulate}
	}

	// Guard when someone at the table is running hotter than us.
	if b.outpaced(view) && b.rng.Float64() < p.Composure*0.5 {
		return damage.Decision{Kind: damage.KindGuard}
	}

	if b.rng.Float64() < p.Hostility*0.7 {
		if target := b.pickTarget(view); target >= 0 {
			return damage.Decision{
				Kind:       damage.KindAttack,
				TargetSeat: target,
				Intent:     b.affectIntent(),
			}
		}
	}

	// Occasionally pile on a likely attack instead of leading one.
	if b.rng.Float64() < p.Hostility*0.15 {
		if target := b.pickTarget(view); target >= 0 {
			return damage.Decision{
				Kind:       damage.KindAssist,
				TargetSeat: target,
				Intent:     b.affectIntent(),
			}
		}
	}

	return damage.Decision{Kind: damage.KindNone}
}

// estimateHandStrength returns a 0.0-1.0 heuristic. Complete hands evaluate
// exactly; two-card hands fall back to a hole-card read.
func (b *RuleBrain) estimateHandStrength(view GameView) float64 {
	if len(view.Hand) == 5 {
		if rank, err := damage.EvaluateFive(view.Hand); err == nil {
			return madeStrength(rank)
		}
	}
	if len(view.Hand) == 2 && len(view.Community) == 5 {
		seven := make([]card.Card, 0, 7)
		seven = append(seven, view.Hand...)
		seven = append(seven, view.Community...)
		if rank, _, err := damage.EvaluateBestOfSeven(seven); err == nil {
			return madeStrength(rank)
		}
	}
	if len(view.Hand) < 2 {
		return 0.3
	}

	c0, c1 := view.Hand[0], view.Hand[1]
	rank0, rank1 := c0.HighRank(), c1.HighRank()

	strength := (float64(rank0) + float64(rank1)) / 28.0

	if rank0 == rank1 {
		strength += 0.25
	}
	if c0.Suit() == c1.Suit() {
		strength += 0.05
	}
	gap := rank0 - rank1
	if gap < 0 {
		gap = -gap
	}
	if gap <= 2 {
		strength += 0.05
	}

	// Mid-board: credit pairing the community, plus noise in place of a real
	// equity calculation.
	if view.Street > 0 {
		strength += b.boardBonus(view)
		strength += (b.rng.Float64() - 0.5) * 0.15
	}

	return clamp01(strength)
}

func madeStrength(rank damage.HandRank) float64 {
	base := float64(rank.Category-1) / 9.0
	kicker := float64(rank.TieBreaks[0]) / 140.0
	return clamp01(base + kicker)
}

func (b *RuleBrain) boardBonus(view GameView) float64 {
	bonus := 0.0
	for _, h := range view.Hand {
		for _, c := range view.Community {
			if c.Rank() == h.Rank() {
				bonus += 0.18
			}
		}
	}
	if bonus > 0.4 {
		bonus = 0.4
	}
	return bonus
}

// raiseAmount sizes the raise delta between the minimum and roughly a
// pot-sized raise, capped by what the stack can legally cover.
func (b *RuleBrain) raiseAmount(view GameView, aggression float64) int64 {
	raise := view.MinRaise + int64(float64(view.Pot)*aggression*0.8)
	if limit := view.MyStack + view.MyBet - view.CurrentBet; raise > limit {
		raise = limit
	}
	return raise
}

// attackPlan declares who the raise is meant to shake and how. Returns nil
// when no living rival remains in the hand.
func (b *RuleBrain) attackPlan(view GameView, aggression float64) *damage.AttackPlan {
	target := b.pickTarget(view)
	if target < 0 {
		return nil
	}
	p := b.Persona.Brain

	kinetic := damage.KineticDiscardPressure
	if aggression > 0.6 {
		kinetic = damage.KineticLockout
	} else if p.Bluffing > 0.5 {
		kinetic = damage.KineticTempoSwing
	}

	tactic := damage.TacticThreatFraming
	shift := "folds to pressure"
	switch {
	case p.Hostility > 0.6:
		tactic = damage.TacticStatusChallenge
		shift = "tilts into a bad call"
	case p.Bluffing > 0.5:
		tactic = damage.TacticBait
		shift = "calls down lighter"
	}

	channel := damage.ChannelPrivate
	if p.Hostility > 0.5 {
		channel = damage.ChannelPublic
	}

	return &damage.AttackPlan{
		Kinetic:    kinetic,
		Emotional:  b.affectIntent(),
		Tactic:     tactic,
		Channel:    channel,
		TargetSeat: target,
		Shift:      shift,
		Confidence: clamp01(0.4 + aggression*0.4 + (b.rng.Float64()-0.5)*0.2),
	}
}

// pickTarget chooses a living in-hand rival: hostile personas hunt the chip
// leader, everyone else presses the most exposed seat. Returns -1 when none.
func (b *RuleBrain) pickTarget(view GameView) int {
	target := -1
	var bestBank int64 = -1
	bestExposure := -1
	for _, sv := range view.Rivals {
		if !sv.InHand {
			continue
		}
		if b.Persona.Brain.Hostility >= 0.5 {
			if sv.Bankroll > bestBank {
				bestBank = sv.Bankroll
				target = sv.Seat
			}
			continue
		}
		if sv.Exposure > bestExposure {
			bestExposure = sv.Exposure
			target = sv.Seat
		}
	}
	return target
}

func (b *RuleBrain) affectIntent() damage.EmotionalIntent {
	p := b.Persona.Brain
	intents := []damage.EmotionalIntent{damage.IntentFear, damage.IntentTilt, damage.IntentShame}
	if p.Bluffing > 0.5 {
		intents = append(intents, damage.IntentOverconfidence, damage.IntentParanoia)
	}
	if p.Hostility > 0.6 {
		intents = append(intents, damage.IntentAnger)
	}
	return intents[b.rng.Intn(len(intents))]
}

// outpaced reports whether any rival has shown more aggression than us.
func (b *RuleBrain) outpaced(view GameView) bool {
	for _, sv := range view.Rivals {
		if sv.Tempo > view.MyTempo {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func contains(kinds []damage.DecisionKind, target damage.DecisionKind) bool {
	for _, k := range kinds {
		if k == target {
			return true
		}
	}
	return false
}
