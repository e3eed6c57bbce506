package tournament

// Orchestrator event names. Table games emit their own engine events through
// whatever sink the game-sink factory attaches; these cover the bracket.
const (
	EventTournamentStarted = "tournament_started"
	EventRoundStarted      = "round_started"
	EventTableSpawned      = "table_spawned"
	EventTableResult       = "table_result"
	EventRoundEnded        = "round_ended"
	EventTournamentEnded   = "tournament_ended"
)

// Event is one bracket-level record. Round is 0 on the start and end
// markers.
type Event struct {
	Seq     int    `json:"seq"`
	Type    string `json:"type"`
	Round   int    `json:"round,omitempty"`
	Payload any    `json:"payload"`
}

// Sink receives bracket events in emission order.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

type StartedPayload struct {
	TournamentID    string `json:"tournament_id"`
	Entrants        int    `json:"entrants"`
	SeatFormat      int    `json:"seat_format"`
	TurnsPerGame    int    `json:"turns_per_game"`
	AdvancePerTable int    `json:"advance_per_table"`
}

type RoundStartedPayload struct {
	TournamentID  string   `json:"tournament_id"`
	Round         int      `json:"round"`
	ActivePlayers []string `json:"active_players"`
	TableCount    int      `json:"table_count"`
	Ante          int64    `json:"ante"`
}

type TableSpawnedPayload struct {
	TournamentID string   `json:"tournament_id"`
	Round        int      `json:"round"`
	TableID      string   `json:"table_id"`
	Players      []string `json:"players"`
	SeatCount    int      `json:"seat_count"`
	Ante         int64    `json:"ante"`
}

// TableResultPayload reports one finished table. Bye marks a lone entrant
// advanced without a game; GameID is empty in that case.
type TableResultPayload struct {
	TournamentID string   `json:"tournament_id"`
	Round        int      `json:"round"`
	TableID      string   `json:"table_id"`
	GameID       string   `json:"game_id,omitempty"`
	Ranking      []string `json:"ranking"`
	Advanced     []string `json:"advanced"`
	Bye          bool     `json:"bye,omitempty"`
}

type RoundEndedPayload struct {
	TournamentID    string   `json:"tournament_id"`
	Round           int      `json:"round"`
	AdvancedPlayers []string `json:"advanced_players"`
}

type EndedPayload struct {
	TournamentID     string `json:"tournament_id"`
	ChampionPlayerID string `json:"champion_player_id"`
	Rounds           int    `json:"rounds"`
}
