package damage

import (
	"fmt"
	"time"
)

// CardStyle selects how hands are dealt and evaluated.
type CardStyle string

const (
	StyleDraw5  CardStyle = "draw5"
	StyleHoldem CardStyle = "holdem"
)

// RemainderSeatRule selects which winner receives the indivisible remainder
// when a split pot does not divide evenly.
type RemainderSeatRule string

const (
	// RemainderDealerRelative pays the remainder to the first winner in
	// initiative order, counting from the seat left of the dealer.
	RemainderDealerRelative RemainderSeatRule = "dealer_relative"
	// RemainderAbsoluteSeat pays the remainder to the winner with the lowest
	// seat number.
	RemainderAbsoluteSeat RemainderSeatRule = "absolute"
)

// AffectTuning holds the affect model constants. Zero value means "use
// defaults"; NewGame normalizes before validating.
type AffectTuning struct {
	// Decay is applied to every emotion dimension once per affect round,
	// before contest deltas.
	Decay float64 `json:"decay"`
	// ShockCap bounds the raw contest delta per resolution.
	ShockCap float64 `json:"shock_cap"`
	// HandDeltaCap bounds the cumulative applied delta magnitude a single
	// player can absorb within one hand.
	HandDeltaCap float64 `json:"hand_delta_cap"`
	// StakeMultiplier scales attack-vs-defense margins into raw deltas.
	StakeMultiplier float64 `json:"stake_multiplier"`
	// AssistDecay multiplies each further assistant's marginal contribution.
	AssistDecay float64 `json:"assist_decay"`
	// UnpairedAssistScale shrinks an assist that found no attacker to pair
	// with before it resolves as a direct effect.
	UnpairedAssistScale float64 `json:"unpaired_assist_scale"`
	// GuardBonus is added to resistance for the round a guard is declared.
	GuardBonus float64 `json:"guard_bonus"`
	// RegulateCap is the per-round recovery fraction self_regulate can reach
	// at full focus spend.
	RegulateCap float64 `json:"regulate_cap"`
	// RegulateFocusCost is the focus spent by one full self_regulate.
	RegulateFocusCost float64 `json:"regulate_focus_cost"`
	// TempoWeight and ExposureWeight convert the derived counters into
	// attack/defense score terms.
	TempoWeight    float64 `json:"tempo_weight"`
	ExposureWeight float64 `json:"exposure_weight"`
}

// DefaultAffectTuning returns the standard contest constants.
func DefaultAffectTuning() AffectTuning {
	return AffectTuning{
		Decay:               0.9,
		ShockCap:            0.35,
		HandDeltaCap:        0.8,
		StakeMultiplier:     1.0,
		AssistDecay:         0.6,
		UnpairedAssistScale: 0.4,
		GuardBonus:          0.25,
		RegulateCap:         0.3,
		RegulateFocusCost:   10,
		TempoWeight:         0.02,
		ExposureWeight:      0.02,
	}
}

func (t AffectTuning) isZero() bool {
	return t == AffectTuning{}
}

func (t AffectTuning) validate() error {
	if t.Decay <= 0 || t.Decay > 1 {
		return fmt.Errorf("affect decay %v outside (0,1]", t.Decay)
	}
	if t.ShockCap <= 0 || t.HandDeltaCap <= 0 {
		return fmt.Errorf("affect caps must be > 0")
	}
	if t.StakeMultiplier <= 0 {
		return fmt.Errorf("stake multiplier must be > 0")
	}
	if t.AssistDecay <= 0 || t.AssistDecay > 1 {
		return fmt.Errorf("assist decay %v outside (0,1]", t.AssistDecay)
	}
	if t.UnpairedAssistScale < 0 || t.UnpairedAssistScale > 1 {
		return fmt.Errorf("unpaired assist scale %v outside [0,1]", t.UnpairedAssistScale)
	}
	if t.GuardBonus < 0 || t.RegulateCap < 0 || t.RegulateFocusCost <= 0 {
		return fmt.Errorf("guard bonus, regulate cap and regulate focus cost must be >= 0 (cost > 0)")
	}
	return nil
}

// GameConfig is immutable per game. JSON tags match the profile file format.
type GameConfig struct {
	Players          int   `json:"players"`
	Turns            int   `json:"turns"`
	Seed             int64 `json:"seed"`
	Ante             int64 `json:"ante"`
	MinRaise         int64 `json:"min_raise"`
	StartingBankroll int64 `json:"starting_bankroll"`
	StartingLives    int   `json:"starting_lives"`

	CardStyle CardStyle `json:"card_style"`

	EnableLives               bool `json:"enable_lives"`
	EnableAffectPhase         bool `json:"enable_affect_phase"`
	EnableDirectEmoterAttacks bool `json:"enable_direct_emoter_attacks"`
	EnableBlinds              bool `json:"enable_blinds"`
	EliminateOnBankrollZero   bool `json:"eliminate_on_bankroll_zero"`

	SmallBlind int64 `json:"small_blind"`
	BigBlind   int64 `json:"big_blind"`

	RemainderSeatRule RemainderSeatRule `json:"remainder_seat_rule"`
	Affect            AffectTuning      `json:"affect"`

	// DecisionTimeout bounds each solicitation; 0 disables the deadline.
	DecisionTimeout time.Duration `json:"-"`

	// DeckOverride, when set, replaces the per-hand shuffle with a fixed deck
	// (dealt from the front). Test and replay fixtures only.
	DeckOverride []string `json:"deck_override,omitempty"`
}

// withDefaults fills unset optional fields so Validate can stay strict.
func (c GameConfig) withDefaults() GameConfig {
	if c.RemainderSeatRule == "" {
		c.RemainderSeatRule = RemainderDealerRelative
	}
	if c.Affect.isZero() {
		c.Affect = DefaultAffectTuning()
	}
	if c.EnableLives && c.StartingLives == 0 {
		c.StartingLives = 3
	}
	return c
}

// Validate is fail-fast: a bad config is reported before any hand begins.
func (c GameConfig) Validate() error {
	if c.Players < 2 || c.Players > 8 {
		return fmt.Errorf("players %d outside supported range [2,8]", c.Players)
	}
	if c.Turns < 1 {
		return fmt.Errorf("turns must be >= 1")
	}
	if c.Ante < 0 {
		return fmt.Errorf("ante must be >= 0")
	}
	if c.Ante == 0 && !c.EnableBlinds {
		return fmt.Errorf("ante must be > 0 when blinds are disabled")
	}
	if c.MinRaise <= 0 {
		return fmt.Errorf("min raise must be > 0")
	}
	if c.StartingBankroll <= 0 {
		return fmt.Errorf("starting bankroll must be > 0")
	}
	if c.EnableLives && c.StartingLives < 1 {
		return fmt.Errorf("starting lives must be >= 1 when lives are enabled")
	}
	switch c.CardStyle {
	case StyleDraw5, StyleHoldem:
	default:
		return fmt.Errorf("unknown card style %q", c.CardStyle)
	}
	if c.EnableBlinds {
		if c.SmallBlind <= 0 || c.BigBlind <= 0 || c.SmallBlind > c.BigBlind {
			return fmt.Errorf("invalid blinds: sb=%d bb=%d", c.SmallBlind, c.BigBlind)
		}
	}
	switch c.RemainderSeatRule {
	case RemainderDealerRelative, RemainderAbsoluteSeat:
	default:
		return fmt.Errorf("unknown remainder seat rule %q", c.RemainderSeatRule)
	}
	if c.DecisionTimeout < 0 {
		return fmt.Errorf("decision timeout must be >= 0")
	}
	return c.Affect.validate()
}
