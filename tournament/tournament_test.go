package tournament

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/domjancik/damage-game/damage"
)

func runBracket(t *testing.T, cfg Config, opts ...Option) (*Result, []Event) {
	t.Helper()
	var events []Event
	opts = append(opts, WithSink(SinkFunc(func(ev Event) {
		events = append(events, ev)
	})))
	r, err := NewRunner(cfg, opts...)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return res, events
}

func eventsOfType(events []Event, eventType string) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func TestBracketProducesSingleChampion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Entrants = 8
	cfg.TurnsPerGame = 2

	res, events := runBracket(t, cfg, WithID("tournament_fixture"))

	if res.Champion == "" || !strings.HasPrefix(res.Champion, "E") {
		t.Fatalf("champion = %q, want an entrant id", res.Champion)
	}
	if res.Rounds != 2 {
		t.Fatalf("rounds = %d, want 2 (8 entrants on 6-seat tables)", res.Rounds)
	}
	if res.TournamentID != "tournament_fixture" {
		t.Fatalf("tournament id = %q", res.TournamentID)
	}

	counts := map[string]int{
		EventTournamentStarted: 1,
		EventRoundStarted:      2,
		EventTableSpawned:      3,
		EventTableResult:       3,
		EventRoundEnded:        2,
		EventTournamentEnded:   1,
	}
	for eventType, want := range counts {
		if got := len(eventsOfType(events, eventType)); got != want {
			t.Fatalf("%s count = %d, want %d", eventType, got, want)
		}
	}
	for i, ev := range events {
		if ev.Seq != i+1 {
			t.Fatalf("event %d has seq %d, want %d", i, ev.Seq, i+1)
		}
	}

	rounds := eventsOfType(events, EventRoundStarted)
	first := rounds[0].Payload.(RoundStartedPayload)
	second := rounds[1].Payload.(RoundStartedPayload)
	if first.Ante != 10 || second.Ante != 15 {
		t.Fatalf("antes = %d, %d; want 10 then 15", first.Ante, second.Ante)
	}
	if first.TableCount != 2 || second.TableCount != 1 {
		t.Fatalf("table counts = %d, %d; want 2 then 1", first.TableCount, second.TableCount)
	}

	for _, ev := range eventsOfType(events, EventTableResult) {
		payload := ev.Payload.(TableResultPayload)
		if payload.Bye {
			t.Fatalf("no table should be a bye with 8 entrants")
		}
		if payload.GameID == "" {
			t.Fatalf("table %s has no game id", payload.TableID)
		}
		if len(payload.Advanced) != 1 {
			t.Fatalf("table %s advanced %d players, want 1", payload.TableID, len(payload.Advanced))
		}
		if payload.Advanced[0] != payload.Ranking[0] {
			t.Fatalf("table %s advanced %q but ranked %q first", payload.TableID, payload.Advanced[0], payload.Ranking[0])
		}
	}

	ended := eventsOfType(events, EventTournamentEnded)[0].Payload.(EndedPayload)
	if ended.ChampionPlayerID != res.Champion {
		t.Fatalf("event champion %q != result champion %q", ended.ChampionPlayerID, res.Champion)
	}
}

func TestBracketIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Entrants = 6
	cfg.TurnsPerGame = 2

	resA, eventsA := runBracket(t, cfg, WithID("tournament_det"))
	resB, eventsB := runBracket(t, cfg, WithID("tournament_det"))

	if resA.Champion != resB.Champion {
		t.Fatalf("champions differ: %q vs %q", resA.Champion, resB.Champion)
	}
	rawA, err := json.Marshal(eventsA)
	if err != nil {
		t.Fatalf("marshal events A: %v", err)
	}
	rawB, err := json.Marshal(eventsB)
	if err != nil {
		t.Fatalf("marshal events B: %v", err)
	}
	if string(rawA) != string(rawB) {
		t.Fatalf("event streams differ for identical config and id")
	}
}

func TestLoneEntrantGetsBye(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Entrants = 7
	cfg.TurnsPerGame = 1

	res, events := runBracket(t, cfg, WithID("tournament_bye"))

	var bye *TableResultPayload
	for _, ev := range eventsOfType(events, EventTableResult) {
		payload := ev.Payload.(TableResultPayload)
		if payload.Bye {
			if bye != nil {
				t.Fatalf("expected exactly one bye")
			}
			b := payload
			bye = &b
		}
	}
	if bye == nil {
		t.Fatalf("7 entrants on 6-seat tables must produce a bye")
	}
	if bye.TableID != "R1T2" {
		t.Fatalf("bye table = %s, want R1T2", bye.TableID)
	}
	if len(bye.Advanced) != 1 || bye.Advanced[0] != "E7" {
		t.Fatalf("bye advanced %v, want [E7]", bye.Advanced)
	}
	if bye.GameID != "" {
		t.Fatalf("bye should not reference a game, got %q", bye.GameID)
	}
	if res.Rounds != 2 {
		t.Fatalf("rounds = %d, want 2", res.Rounds)
	}
}

func TestAllAdvanceGuardHalvesField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Entrants = 6
	cfg.AdvancePerTable = 6
	cfg.TurnsPerGame = 1

	res, events := runBracket(t, cfg, WithID("tournament_guard"))

	wantAdvanced := []int{3, 2, 1}
	roundsEnded := eventsOfType(events, EventRoundEnded)
	if len(roundsEnded) != len(wantAdvanced) {
		t.Fatalf("rounds = %d, want %d", len(roundsEnded), len(wantAdvanced))
	}
	for i, ev := range roundsEnded {
		payload := ev.Payload.(RoundEndedPayload)
		if len(payload.AdvancedPlayers) != wantAdvanced[i] {
			t.Fatalf("round %d advanced %d players, want %d", i+1, len(payload.AdvancedPlayers), wantAdvanced[i])
		}
	}
	if res.Rounds != 3 || res.Champion == "" {
		t.Fatalf("result = %+v, want 3 rounds and a champion", res)
	}
}

func TestGameSinkReceivesEngineEvents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Entrants = 2
	cfg.TurnsPerGame = 1

	perTable := make(map[string][]damage.Event)
	_, events := runBracket(t, cfg,
		WithID("tournament_sinks"),
		WithGameSink(func(round int, tableID string) damage.Sink {
			return damage.SinkFunc(func(ev damage.Event) {
				perTable[tableID] = append(perTable[tableID], ev)
			})
		}))

	stream := perTable["R1T1"]
	if len(stream) == 0 {
		t.Fatalf("expected engine events for table R1T1")
	}
	if stream[0].Type != damage.EventGameStarted {
		t.Fatalf("first engine event = %s, want game_started", stream[0].Type)
	}
	payload := stream[0].Payload.(damage.GameStartedPayload)
	if payload.GameID != "tournament_sinks_R1T1" {
		t.Fatalf("game id = %q, want tournament_sinks_R1T1", payload.GameID)
	}
	result := eventsOfType(events, EventTableResult)[0].Payload.(TableResultPayload)
	if result.GameID != "tournament_sinks_R1T1" {
		t.Fatalf("table result game id = %q", result.GameID)
	}
}

func TestEscalatedAnte(t *testing.T) {
	cases := []struct {
		base       int64
		multiplier float64
		round      int
		want       int64
	}{
		{10, 1.5, 1, 10},
		{10, 1.5, 2, 15},
		{10, 1.5, 3, 23},
		{10, 1.5, 4, 34},
		{10, 1.0, 5, 10},
		{1, 0.5, 3, 1},
	}
	for _, tc := range cases {
		if got := escalatedAnte(tc.base, tc.multiplier, tc.round); got != tc.want {
			t.Fatalf("escalatedAnte(%d, %v, %d) = %d, want %d", tc.base, tc.multiplier, tc.round, got, tc.want)
		}
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"too few entrants", func(c *Config) { c.Entrants = 1 }},
		{"bad seat format", func(c *Config) { c.SeatFormat = 5 }},
		{"negative multiplier", func(c *Config) { c.StakesMultiplier = -1 }},
		{"negative advance", func(c *Config) { c.AdvancePerTable = -2 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if _, err := NewRunner(cfg); err == nil {
				t.Fatalf("expected a config error")
			}
		})
	}
	if _, err := NewRunner(DefaultConfig(), WithID("tournament_ok")); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}
