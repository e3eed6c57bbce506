// Package tournament runs elimination brackets over engine games. Entrants
// are chunked onto 6 or 8 seat tables each round, the top finishers advance,
// and antes escalate per round until a single champion remains.
package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/domjancik/damage-game/damage"
	"github.com/domjancik/damage-game/npc"
)

// Config shapes one bracket. Table-level money and rule fields are copied
// into each game's config; Ante is the round-1 value before escalation.
type Config struct {
	Entrants         int     `json:"entrants"`
	SeatFormat       int     `json:"seat_format"`
	TurnsPerGame     int     `json:"turns_per_game"`
	Seed             int64   `json:"seed"`
	AdvancePerTable  int     `json:"advance_per_table"`
	StakesMultiplier float64 `json:"stakes_multiplier"`

	Ante             int64            `json:"ante"`
	MinRaise         int64            `json:"min_raise"`
	StartingBankroll int64            `json:"starting_bankroll"`
	CardStyle        damage.CardStyle `json:"card_style"`

	EnableLives               bool `json:"enable_lives"`
	EnableAffectPhase         bool `json:"enable_affect_phase"`
	EnableDirectEmoterAttacks bool `json:"enable_direct_emoter_attacks"`
	EnableBlinds              bool `json:"enable_blinds"`
	EliminateOnBankrollZero   bool `json:"eliminate_on_bankroll_zero"`

	SmallBlind int64 `json:"small_blind"`
	BigBlind   int64 `json:"big_blind"`

	DecisionTimeout time.Duration `json:"-"`
}

// DefaultConfig is a 16-entrant draw5 bracket on 6-seat tables.
func DefaultConfig() Config {
	return Config{
		Entrants:                  16,
		SeatFormat:                6,
		TurnsPerGame:              3,
		Seed:                      42,
		AdvancePerTable:           1,
		StakesMultiplier:          1.5,
		Ante:                      10,
		MinRaise:                  10,
		StartingBankroll:          200,
		CardStyle:                 damage.StyleDraw5,
		EnableLives:               true,
		EnableAffectPhase:         true,
		EnableDirectEmoterAttacks: true,
	}
}

func (c Config) withDefaults() Config {
	if c.SeatFormat == 0 {
		c.SeatFormat = 6
	}
	if c.TurnsPerGame == 0 {
		c.TurnsPerGame = 3
	}
	if c.AdvancePerTable == 0 {
		c.AdvancePerTable = 1
	}
	if c.StakesMultiplier == 0 {
		c.StakesMultiplier = 1.5
	}
	return c
}

func (c Config) validate() error {
	if c.Entrants < 2 {
		return fmt.Errorf("entrants must be >= 2")
	}
	if c.SeatFormat != 6 && c.SeatFormat != 8 {
		return fmt.Errorf("seat format must be 6 or 8, got %d", c.SeatFormat)
	}
	if c.TurnsPerGame < 1 {
		return fmt.Errorf("turns per game must be >= 1")
	}
	if c.AdvancePerTable < 1 {
		return fmt.Errorf("advance per table must be >= 1")
	}
	if c.StakesMultiplier <= 0 {
		return fmt.Errorf("stakes multiplier must be > 0")
	}
	return nil
}

// Result is the bracket outcome.
type Result struct {
	TournamentID string `json:"tournament_id"`
	Champion     string `json:"champion_player_id"`
	Rounds       int    `json:"rounds"`
}

// GameSinkFactory supplies an engine event sink for one table game; return
// nil to leave that game unsunk.
type GameSinkFactory func(round int, tableID string) damage.Sink

// Runner plays one bracket. Entrants are rule-brain NPCs, assigned personas
// in a stable cycle so the same entrant keeps the same temperament across
// rounds.
type Runner struct {
	cfg      Config
	id       string
	registry *npc.PersonaRegistry
	log      *slog.Logger
	sinks    []Sink
	gameSink GameSinkFactory

	personaFor map[string]*npc.Persona
	seq        int
}

// Option configures a Runner.
type Option func(*Runner)

// WithID overrides the generated tournament identifier.
func WithID(id string) Option {
	return func(r *Runner) { r.id = id }
}

// WithRegistry supplies the persona cast; defaults to the builtin registry.
func WithRegistry(reg *npc.PersonaRegistry) Option {
	return func(r *Runner) { r.registry = reg }
}

// WithLogger sets the structured logger; defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithSink registers a bracket event sink.
func WithSink(s Sink) Option {
	return func(r *Runner) { r.sinks = append(r.sinks, s) }
}

// WithGameSink attaches engine event sinks to the spawned table games.
func WithGameSink(f GameSinkFactory) Option {
	return func(r *Runner) { r.gameSink = f }
}

// NewRunner validates cfg and prepares a bracket.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.id == "" {
		stamp := time.Now().UTC().Format("20060102T150405Z")
		r.id = fmt.Sprintf("tournament_%s_%s", stamp, uuid.NewString()[:6])
	}
	if r.registry == nil {
		r.registry = npc.DefaultRegistry()
	}
	if len(r.registry.All()) == 0 {
		return nil, fmt.Errorf("persona registry is empty")
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r, nil
}

// ID returns the tournament identifier.
func (r *Runner) ID() string { return r.id }

// Persona returns the persona playing the given entrant. Personas are
// assigned when Run starts; before that this returns nil.
func (r *Runner) Persona(entrant string) *npc.Persona {
	return r.personaFor[entrant]
}

// Run plays rounds until a single entrant remains and returns the champion.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	entrants := buildEntrants(r.cfg.Entrants)
	r.assignPersonas(entrants)

	r.emit(EventTournamentStarted, 0, StartedPayload{
		TournamentID:    r.id,
		Entrants:        len(entrants),
		SeatFormat:      r.cfg.SeatFormat,
		TurnsPerGame:    r.cfg.TurnsPerGame,
		AdvancePerTable: r.cfg.AdvancePerTable,
	})
	r.log.Info("tournament started",
		"tournament_id", r.id,
		"entrants", len(entrants),
		"seat_format", r.cfg.SeatFormat)

	active := entrants
	round := 1
	for len(active) > 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tables := chunk(active, r.cfg.SeatFormat)
		ante := escalatedAnte(r.cfg.Ante, r.cfg.StakesMultiplier, round)
		r.emit(EventRoundStarted, round, RoundStartedPayload{
			TournamentID:  r.id,
			Round:         round,
			ActivePlayers: append([]string(nil), active...),
			TableCount:    len(tables),
			Ante:          ante,
		})
		r.log.Info("round started", "round", round, "tables", len(tables), "ante", ante, "active", len(active))

		var next []string
		for i, players := range tables {
			tableID := fmt.Sprintf("R%dT%d", round, i+1)
			r.emit(EventTableSpawned, round, TableSpawnedPayload{
				TournamentID: r.id,
				Round:        round,
				TableID:      tableID,
				Players:      append([]string(nil), players...),
				SeatCount:    r.cfg.SeatFormat,
				Ante:         ante,
			})

			// A lone entrant on the last table gets a bye; the engine needs
			// at least two seats.
			if len(players) == 1 {
				next = append(next, players[0])
				r.emit(EventTableResult, round, TableResultPayload{
					TournamentID: r.id,
					Round:        round,
					TableID:      tableID,
					Ranking:      append([]string(nil), players...),
					Advanced:     append([]string(nil), players...),
					Bye:          true,
				})
				r.log.Info("bye", "round", round, "table_id", tableID, "player", players[0])
				continue
			}

			summary, err := r.playTable(ctx, round, i+1, tableID, players, ante)
			if err != nil {
				return nil, fmt.Errorf("round %d table %s: %w", round, tableID, err)
			}
			ranking := rankingIDs(summary)
			slots := r.cfg.AdvancePerTable
			if slots > len(ranking) {
				slots = len(ranking)
			}
			advanced := append([]string(nil), ranking[:slots]...)
			next = append(next, advanced...)
			r.emit(EventTableResult, round, TableResultPayload{
				TournamentID: r.id,
				Round:        round,
				TableID:      tableID,
				GameID:       summary.GameID,
				Ranking:      ranking,
				Advanced:     advanced,
			})
			r.log.Info("table finished", "round", round, "table_id", tableID, "game_id", summary.GameID, "advanced", advanced)
		}

		// With every seat advancing the bracket would never shrink; cut to
		// the top half by finish order.
		if len(next) == len(active) && len(next) > 1 {
			next = next[:(len(next)+1)/2]
		}

		r.emit(EventRoundEnded, round, RoundEndedPayload{
			TournamentID:    r.id,
			Round:           round,
			AdvancedPlayers: append([]string(nil), next...),
		})
		active = next
		round++
	}

	champion := ""
	if len(active) == 1 {
		champion = active[0]
	}
	rounds := round - 1
	r.emit(EventTournamentEnded, 0, EndedPayload{
		TournamentID:     r.id,
		ChampionPlayerID: champion,
		Rounds:           rounds,
	})
	r.log.Info("tournament ended", "tournament_id", r.id, "champion", champion, "rounds", rounds)
	return &Result{TournamentID: r.id, Champion: champion, Rounds: rounds}, nil
}

func (r *Runner) playTable(ctx context.Context, round, tableIdx int, tableID string, players []string, ante int64) (*damage.GameSummary, error) {
	cfg := r.tableConfig(len(players), ante, gameSeed(r.cfg.Seed, round, tableIdx))
	opts := []damage.GameOption{damage.WithGameID(fmt.Sprintf("%s_%s", r.id, tableID))}
	if r.gameSink != nil {
		if sink := r.gameSink(round, tableID); sink != nil {
			opts = append(opts, damage.WithEventSink(sink))
		}
	}
	game, err := damage.NewGame(cfg, opts...)
	if err != nil {
		return nil, err
	}
	for seat, pid := range players {
		persona := r.personaFor[pid]
		brain := npc.NewRuleBrain(persona, brainSeed(cfg.Seed, seat))
		src := npc.NewSource(brain, 0)
		if err := game.SeatPlayer(seat, pid, src, npc.SeatOptions(persona.Brain)...); err != nil {
			return nil, err
		}
	}
	return game.Run(ctx)
}

func (r *Runner) tableConfig(players int, ante, seed int64) damage.GameConfig {
	return damage.GameConfig{
		Players:                   players,
		Turns:                     r.cfg.TurnsPerGame,
		Seed:                      seed,
		Ante:                      ante,
		MinRaise:                  r.cfg.MinRaise,
		StartingBankroll:          r.cfg.StartingBankroll,
		CardStyle:                 r.cfg.CardStyle,
		EnableLives:               r.cfg.EnableLives,
		EnableAffectPhase:         r.cfg.EnableAffectPhase,
		EnableDirectEmoterAttacks: r.cfg.EnableDirectEmoterAttacks,
		EnableBlinds:              r.cfg.EnableBlinds,
		SmallBlind:                r.cfg.SmallBlind,
		BigBlind:                  r.cfg.BigBlind,
		EliminateOnBankrollZero:   r.cfg.EliminateOnBankrollZero,
		DecisionTimeout:           r.cfg.DecisionTimeout,
	}
}

// assignPersonas cycles the cast in registry order so entrant temperaments
// are stable for the whole bracket.
func (r *Runner) assignPersonas(entrants []string) {
	cast := r.registry.All()
	r.personaFor = make(map[string]*npc.Persona, len(entrants))
	for i, pid := range entrants {
		r.personaFor[pid] = cast[i%len(cast)]
	}
}

func (r *Runner) emit(eventType string, round int, payload any) {
	r.seq++
	ev := Event{Seq: r.seq, Type: eventType, Round: round, Payload: payload}
	for _, s := range r.sinks {
		s.Emit(ev)
	}
}

func buildEntrants(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("E%d", i+1)
	}
	return out
}

func chunk(items []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}

// escalatedAnte scales the base ante by the stakes multiplier per completed
// round, never below 1.
func escalatedAnte(base int64, multiplier float64, round int) int64 {
	scaled := float64(base) * math.Pow(multiplier, float64(round-1))
	ante := int64(math.Round(scaled))
	if ante < 1 {
		ante = 1
	}
	return ante
}

func gameSeed(seed int64, round, tableIdx int) int64 {
	return seed + int64(round)*100 + int64(tableIdx)
}

func brainSeed(gameSeed int64, seat int) int64 {
	return gameSeed + int64(seat+1)*1009
}

func rankingIDs(summary *damage.GameSummary) []string {
	out := make([]string, 0, len(summary.Standings))
	for _, s := range summary.Standings {
		out = append(out, s.PlayerID)
	}
	return out
}
