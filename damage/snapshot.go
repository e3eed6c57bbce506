package damage

// PlayerSnapshot is a point-in-time copy of one seat, hole cards included.
type PlayerSnapshot struct {
	Seat        int      `json:"seat"`
	PlayerID    string   `json:"player_id"`
	Alive       bool     `json:"alive"`
	Lives       int      `json:"lives"`
	Bankroll    int64    `json:"bankroll"`
	Bet         int64    `json:"bet"`
	InHand      bool     `json:"in_hand"`
	AllIn       bool     `json:"all_in"`
	Hand        []string `json:"hand,omitempty"`
	Will        int      `json:"will"`
	SkillAffect int      `json:"skill_affect"`
	Focus       float64  `json:"focus"`
	Stress      float64  `json:"stress"`
	Tempo       int      `json:"tempo"`
	Exposure    int      `json:"exposure"`
	Emotions    Emotions `json:"emotions"`
}

// Snapshot is a deep copy of the table state. It shares no memory with the
// live game and is safe to hold across hands.
type Snapshot struct {
	GameID     string           `json:"game_id"`
	Turn       int              `json:"turn"`
	Phase      Phase            `json:"phase"`
	DealerSeat int              `json:"dealer_seat"`
	Pot        int64            `json:"pot"`
	HighBet    int64            `json:"current_high_bet"`
	Community  []string         `json:"community,omitempty"`
	Players    []PlayerSnapshot `json:"players"`
	Started    bool             `json:"started"`
	Ended      bool             `json:"ended"`
}

// Snapshot captures the current table state. Intended for the table owner;
// it exposes every hole card.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	snap := Snapshot{
		GameID:     g.gameID,
		Turn:       g.turn,
		Phase:      g.phase,
		DealerSeat: g.dealerSeat,
		Pot:        g.potCollected + g.roundBetsLocked(),
		HighBet:    g.highBet,
		Community:  g.community.Strings(),
		Started:    g.started,
		Ended:      g.ended,
	}
	for _, p := range g.seatOrder() {
		snap.Players = append(snap.Players, PlayerSnapshot{
			Seat:        p.Seat,
			PlayerID:    p.ID,
			Alive:       p.alive,
			Lives:       p.lives,
			Bankroll:    p.bankroll,
			Bet:         p.bet,
			InHand:      p.inHand,
			AllIn:       p.allIn,
			Hand:        p.hand.Strings(),
			Will:        p.will,
			SkillAffect: p.skillAffect,
			Focus:       p.focus,
			Stress:      p.stress,
			Tempo:       p.tempo,
			Exposure:    p.exposure,
			Emotions:    p.emotions,
		})
	}
	return snap
}
