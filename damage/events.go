package damage

// EventType names every record the engine can emit.
type EventType string

const (
	EventGameStarted          EventType = "game_started"
	EventHandStarted          EventType = "hand_started"
	EventPhaseChanged         EventType = "phase_changed"
	EventCommunityDealt       EventType = "community_dealt"
	EventAffectIntent         EventType = "affect_intent"
	EventAffectResolved       EventType = "affect_resolved"
	EventAffectUnpairedAssist EventType = "affect_unpaired_assist"
	EventActionSubmitted      EventType = "action_submitted"
	EventActionRejected       EventType = "action_rejected"
	EventActionResolved       EventType = "action_resolved"
	EventFoldSavedLife        EventType = "fold_saved_life"
	EventLifeLost             EventType = "life_lost"
	EventPlayerEliminated     EventType = "player_eliminated"
	EventShowdown             EventType = "showdown"
	EventHandEnded            EventType = "hand_ended"
	EventGameEnded            EventType = "game_ended"
)

// Event is an immutable record of one state transition. Payloads are typed
// structs so that identical runs marshal byte-identically; sinks add
// wall-clock envelopes, the engine never does.
type Event struct {
	Seq     int       `json:"seq"`
	Type    EventType `json:"type"`
	Turn    int       `json:"turn"`
	Phase   Phase     `json:"phase"`
	Payload any       `json:"payload"`
}

// Sink receives events in emission order. Implementations must be fast or
// buffer internally; the engine calls Emit synchronously.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// PlayerPublic is the externally visible slice of one player's state, used
// inside hand_started, hand_ended and game_ended payloads.
type PlayerPublic struct {
	Seat     int      `json:"seat"`
	PlayerID string   `json:"player_id"`
	Alive    bool     `json:"alive"`
	Lives    int      `json:"lives"`
	Bankroll int64    `json:"bankroll"`
	Tempo    int      `json:"tempo"`
	Exposure int      `json:"exposure"`
	Emotions Emotions `json:"emotions"`
}

type GameStartedPayload struct {
	GameID  string         `json:"game_id"`
	Players int            `json:"players"`
	Turns   int            `json:"turns"`
	Seed    int64          `json:"seed"`
	Style   CardStyle      `json:"card_style"`
	Seats   []PlayerPublic `json:"seats"`
}

type HandStartedPayload struct {
	Turn       int            `json:"turn"`
	DealerSeat int            `json:"dealer_seat"`
	Ante       int64          `json:"ante"`
	Pot        int64          `json:"pot"`
	Players    []PlayerPublic `json:"players"`
}

type PhaseChangedPayload struct {
	Turn  int   `json:"turn"`
	Phase Phase `json:"phase"`
}

type CommunityDealtPayload struct {
	Street string   `json:"street"`
	Cards  []string `json:"cards"`
}

type AffectIntentPayload struct {
	Seat       int          `json:"seat"`
	PlayerID   string       `json:"player_id"`
	Kind       DecisionKind `json:"kind"`
	TargetSeat int          `json:"target_seat,omitempty"`
	Plan       *AttackPlan  `json:"attack_plan,omitempty"`
}

// AffectResolvedPayload covers contests, guards, regulation and direct
// emoter nudges; Mode tells them apart.
type AffectResolvedPayload struct {
	Mode         string          `json:"mode"`
	TargetSeat   int             `json:"target_seat"`
	TargetID     string          `json:"target_player_id"`
	Attackers    []int           `json:"attacker_seats,omitempty"`
	Assists      []int           `json:"assist_seats,omitempty"`
	Intent       EmotionalIntent `json:"intent,omitempty"`
	AttackScore  float64         `json:"attack_score,omitempty"`
	DefenseScore float64         `json:"defense_score,omitempty"`
	RawDelta     float64         `json:"raw_delta,omitempty"`
	AppliedDelta float64         `json:"applied_delta,omitempty"`
	FocusSpent   float64         `json:"focus_spent,omitempty"`
	StressDelta  float64         `json:"stress_delta,omitempty"`
	Emotions     Emotions        `json:"target_emotions"`
}

type AffectUnpairedAssistPayload struct {
	Seat         int             `json:"seat"`
	PlayerID     string          `json:"player_id"`
	TargetSeat   int             `json:"target_seat"`
	TargetID     string          `json:"target_player_id"`
	Intent       EmotionalIntent `json:"intent"`
	AppliedDelta float64         `json:"applied_delta"`
	Emotions     Emotions        `json:"target_emotions"`
}

type ActionSubmittedPayload struct {
	Seat     int      `json:"seat"`
	PlayerID string   `json:"player_id"`
	Window   string   `json:"window"`
	Action   Decision `json:"action"`
}

type ActionRejectedPayload struct {
	Seat     int             `json:"seat"`
	PlayerID string          `json:"player_id"`
	Reason   RejectionReason `json:"reason"`
	Detail   string          `json:"detail,omitempty"`
	Final    bool            `json:"final"`
}

// ActionResolvedPayload reports the applied betting action and the money
// state it produced.
type ActionResolvedPayload struct {
	Seat           int          `json:"seat"`
	PlayerID       string       `json:"player_id"`
	Kind           DecisionKind `json:"kind"`
	Amount         int64        `json:"amount,omitempty"`
	Paid           int64        `json:"paid"`
	Pot            int64        `json:"pot"`
	CurrentHighBet int64        `json:"current_high_bet"`
	Bankroll       int64        `json:"bankroll"`
	Bet            int64        `json:"bet"`
	AllIn          bool         `json:"all_in,omitempty"`
	Fallback       bool         `json:"fallback,omitempty"`
}

type FoldSavedLifePayload struct {
	Seat     int    `json:"seat"`
	PlayerID string `json:"player_id"`
	Lives    int    `json:"lives"`
}

type LifeLostPayload struct {
	Seat           int    `json:"seat"`
	PlayerID       string `json:"player_id"`
	RemainingLives int    `json:"remaining_lives"`
}

type PlayerEliminatedPayload struct {
	Seat           int    `json:"seat"`
	PlayerID       string `json:"player_id"`
	RemainingLives int    `json:"remaining_lives"`
	Reason         string `json:"reason"`
}

// PayoutShare is one winner's cut of one pot.
type PayoutShare struct {
	Seat     int    `json:"seat"`
	PlayerID string `json:"player_id"`
	Amount   int64  `json:"amount"`
}

// PotResult is one side pot's outcome.
type PotResult struct {
	Amount   int64         `json:"amount"`
	Eligible []int         `json:"eligible_seats"`
	Winners  []int         `json:"winner_seats"`
	Shares   []PayoutShare `json:"shares"`
}

// HandRanking is one revealed hand at showdown.
type HandRanking struct {
	Seat     int      `json:"seat"`
	PlayerID string   `json:"player_id"`
	Category string   `json:"category"`
	Score    uint32   `json:"score"`
	Hand     []string `json:"hand"`
	Best     []string `json:"best,omitempty"`
}

type ShowdownPayload struct {
	Pot      int64         `json:"pot"`
	Revealed bool          `json:"revealed"`
	Winners  []int         `json:"winners"`
	Payouts  []PayoutShare `json:"payouts"`
	Rankings []HandRanking `json:"rankings,omitempty"`
	Pots     []PotResult   `json:"pots"`
}

type HandEndedPayload struct {
	Turn    int            `json:"turn"`
	Players []PlayerPublic `json:"players"`
}

type GameEndedPayload struct {
	HandsPlayed int            `json:"hands_played"`
	FinalState  []PlayerPublic `json:"final_state"`
	Standings   []Standing     `json:"standings"`
}
