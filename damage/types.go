package damage

import "fmt"

const InvalidSeat = -1

// Phase of one hand. Phases advance in declaration order; Betting loops
// internally over streets in holdem style.
type Phase byte

const (
	PhaseDeal Phase = iota
	PhaseAnte
	PhaseAffect
	PhaseBetting
	PhaseShowdown
	PhasePayout
	PhaseLifeUpdate
	PhaseHandEnd
)

var phaseNames = [...]string{
	PhaseDeal:       "deal",
	PhaseAnte:       "ante",
	PhaseAffect:     "affect",
	PhaseBetting:    "betting",
	PhaseShowdown:   "showdown",
	PhasePayout:     "payout",
	PhaseLifeUpdate: "life_update",
	PhaseHandEnd:    "hand_end",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", byte(p))
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	name := string(data)
	if len(name) >= 2 && name[0] == '"' {
		name = name[1 : len(name)-1]
	}
	parsed, err := ParsePhase(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase maps a phase name back to its value.
func ParsePhase(name string) (Phase, error) {
	for v, n := range phaseNames {
		if n == name {
			return Phase(v), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// Window identifies the kind of decision being solicited.
type Window byte

const (
	WindowBetting Window = iota + 1
	WindowAffect
)

func (w Window) String() string {
	switch w {
	case WindowBetting:
		return "betting"
	case WindowAffect:
		return "affect"
	}
	return fmt.Sprintf("window(%d)", byte(w))
}

// DecisionKind is the action vocabulary. The first five belong to betting
// windows, the rest to affect windows.
type DecisionKind string

const (
	KindFold  DecisionKind = "fold"
	KindCheck DecisionKind = "check"
	KindCall  DecisionKind = "call"
	KindRaise DecisionKind = "raise"
	KindPass  DecisionKind = "pass"

	KindAttack       DecisionKind = "attack"
	KindAssist       DecisionKind = "assist"
	KindGuard        DecisionKind = "guard"
	KindSelfRegulate DecisionKind = "self_regulate"
	KindNone         DecisionKind = "none"
)

// IsBettingKind reports whether k belongs to the betting window vocabulary.
func (k DecisionKind) IsBettingKind() bool {
	switch k {
	case KindFold, KindCheck, KindCall, KindRaise, KindPass:
		return true
	}
	return false
}

// IsAffectKind reports whether k belongs to the affect window vocabulary.
func (k DecisionKind) IsAffectKind() bool {
	switch k {
	case KindAttack, KindAssist, KindGuard, KindSelfRegulate, KindNone:
		return true
	}
	return false
}

// KineticIntent is the mechanical pressure a raise or attack claims to apply.
type KineticIntent string

const (
	KineticDiscardPressure KineticIntent = "discard_pressure"
	KineticLockout         KineticIntent = "lockout"
	KineticComboBreak      KineticIntent = "combo_break"
	KineticTempoSwing      KineticIntent = "tempo_swing"
	KineticForcedLine      KineticIntent = "forced_line"
)

func (k KineticIntent) valid() bool {
	switch k {
	case KineticDiscardPressure, KineticLockout, KineticComboBreak, KineticTempoSwing, KineticForcedLine:
		return true
	}
	return false
}

// EmotionalIntent selects which emotion dimensions an attack pushes.
type EmotionalIntent string

const (
	IntentFear           EmotionalIntent = "fear"
	IntentAnger          EmotionalIntent = "anger"
	IntentShame          EmotionalIntent = "shame"
	IntentTilt           EmotionalIntent = "tilt"
	IntentOverconfidence EmotionalIntent = "overconfidence"
	IntentParanoia       EmotionalIntent = "paranoia"
)

func (e EmotionalIntent) valid() bool {
	switch e {
	case IntentFear, IntentAnger, IntentShame, IntentTilt, IntentOverconfidence, IntentParanoia:
		return true
	}
	return false
}

// ManipulationTactic is the social framing of an attack.
type ManipulationTactic string

const (
	TacticThreatFraming   ManipulationTactic = "threat_framing"
	TacticBait            ManipulationTactic = "bait"
	TacticFalseConcession ManipulationTactic = "false_concession"
	TacticPublicIsolation ManipulationTactic = "public_isolation"
	TacticStatusChallenge ManipulationTactic = "status_challenge"
	TacticBetrayalCue     ManipulationTactic = "betrayal_cue"
)

func (m ManipulationTactic) valid() bool {
	switch m {
	case TacticThreatFraming, TacticBait, TacticFalseConcession, TacticPublicIsolation, TacticStatusChallenge, TacticBetrayalCue:
		return true
	}
	return false
}

// DeliveryChannel is how the attack is communicated at the table.
type DeliveryChannel string

const (
	ChannelPublic  DeliveryChannel = "public"
	ChannelPrivate DeliveryChannel = "private"
	ChannelMixed   DeliveryChannel = "mixed"
)

func (d DeliveryChannel) valid() bool {
	switch d {
	case ChannelPublic, ChannelPrivate, ChannelMixed:
		return true
	}
	return false
}

// AttackPlan is the structured intent attached to every raise and optionally
// to affect-phase attacks. Hand-scoped: consumed once by affect resolution.
type AttackPlan struct {
	Kinetic    KineticIntent      `json:"kinetic_intent"`
	Emotional  EmotionalIntent    `json:"emotional_intent"`
	Tactic     ManipulationTactic `json:"manipulation_plan"`
	Channel    DeliveryChannel    `json:"delivery_channel"`
	TargetSeat int                `json:"target_seat"`
	Shift      string             `json:"expected_behavior_shift,omitempty"`
	Confidence float64            `json:"confidence"`
}

// Check validates the plan's shape without table context. Target liveness is
// the validator's concern.
func (a *AttackPlan) Check() error {
	if a == nil {
		return fmt.Errorf("nil attack plan")
	}
	if !a.Kinetic.valid() {
		return fmt.Errorf("unknown kinetic intent %q", a.Kinetic)
	}
	if !a.Emotional.valid() {
		return fmt.Errorf("unknown emotional intent %q", a.Emotional)
	}
	if !a.Tactic.valid() {
		return fmt.Errorf("unknown manipulation plan %q", a.Tactic)
	}
	if !a.Channel.valid() {
		return fmt.Errorf("unknown delivery channel %q", a.Channel)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", a.Confidence)
	}
	return nil
}

// Decision is the sole agent input. Amount is the raise delta above the
// current high bet. TargetSeat and Intent are used by affect kinds; Plan is
// required on raise and optional on attack.
type Decision struct {
	Kind       DecisionKind    `json:"kind"`
	Amount     int64           `json:"amount,omitempty"`
	TargetSeat int             `json:"target_seat,omitempty"`
	Intent     EmotionalIntent `json:"intent,omitempty"`
	Plan       *AttackPlan     `json:"attack_plan,omitempty"`
}

// Emotions is the bounded per-player emotion vector. Every field stays in
// [-1, 1] after every update.
type Emotions struct {
	Fear       float64 `json:"fear"`
	Anger      float64 `json:"anger"`
	Shame      float64 `json:"shame"`
	Confidence float64 `json:"confidence"`
	Tilt       float64 `json:"tilt"`
}

func (e *Emotions) clampAll() {
	e.Fear = clamp1(e.Fear)
	e.Anger = clamp1(e.Anger)
	e.Shame = clamp1(e.Shame)
	e.Confidence = clamp1(e.Confidence)
	e.Tilt = clamp1(e.Tilt)
}

func (e *Emotions) decay(factor float64) {
	e.Fear *= factor
	e.Anger *= factor
	e.Shame *= factor
	e.Confidence *= factor
	e.Tilt *= factor
	e.clampAll()
}

// applyIntent pushes the emotion dimensions selected by intent. delta may be
// negative when a contest backfires.
func (e *Emotions) applyIntent(intent EmotionalIntent, delta float64) {
	switch intent {
	case IntentFear:
		e.Fear += delta
		e.Confidence -= 0.5 * delta
	case IntentAnger:
		e.Anger += delta
		e.Tilt += 0.5 * delta
	case IntentShame:
		e.Shame += delta
		e.Confidence -= 0.5 * delta
	case IntentTilt:
		e.Tilt += delta
	case IntentOverconfidence:
		e.Confidence += delta
		e.Tilt += 0.5 * delta
	case IntentParanoia:
		e.Fear += 0.75 * delta
		e.Tilt += 0.75 * delta
	}
	e.clampAll()
}

func clamp1(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
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

func clampAbs(v, cap float64) float64 {
	if v < -cap {
		return -cap
	}
	if v > cap {
		return cap
	}
	return v
}

func clampStress(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
