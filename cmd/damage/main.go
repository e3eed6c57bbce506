// Command damage plays Damage from the terminal: one-off NPC tables,
// stored-game playback, scripted tapes and bracket tournaments.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"

	"github.com/domjancik/damage-game/damage"
	"github.com/domjancik/damage-game/eventlog"
	"github.com/domjancik/damage-game/npc"
	"github.com/domjancik/damage-game/replay"
	"github.com/domjancik/damage-game/tournament"
)

const usage = `usage: damage <command> [flags]

commands:
  run         play one table of NPCs and log the events
  replay      list stored games, print them back, or record and verify tapes
  tournament  run a multi-round bracket
  profiles    show the rule profiles and the NPC cast

environment:
  DAMAGE_SEED, DAMAGE_ANTE, DAMAGE_MIN_RAISE, DAMAGE_STARTING_BANKROLL,
  DAMAGE_LOG_DIR, DAMAGE_EVENT_STORE, DAMAGE_DECISION_TIMEOUT,
  DAMAGE_PERSONAS_FILE, DAMAGE_TOURNAMENT_ENTRANTS,
  DAMAGE_TOURNAMENT_SEAT_FORMAT, DAMAGE_TOURNAMENT_TURNS,
  DAMAGE_ADVANCE_PER_TABLE, DAMAGE_STAKES_MULTIPLIER

run 'damage <command> -h' for command flags
`

func main() {
	_ = godotenv.Load()

	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	var envCfg appEnv
	if err := env.Parse(&envCfg); err != nil {
		pterm.Error.Printfln("parse environment: %v", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd(ctx, logger, envCfg, os.Args[2:])
	case "replay":
		err = replayCmd(ctx, envCfg, os.Args[2:])
	case "tournament":
		err = tournamentCmd(ctx, logger, envCfg, os.Args[2:])
	case "profiles":
		err = profilesCmd(envCfg, os.Args[2:])
	case "help", "-h", "--help":
		fmt.Fprint(os.Stderr, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		pterm.Error.Printfln("%v", err)
		os.Exit(1)
	}
}

// openStore honors DAMAGE_EVENT_STORE. The jsonl default writes under the
// -log-dir flag instead of the env-only path the factory would pick.
func openStore(logDir string) (eventlog.Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("DAMAGE_EVENT_STORE")))
	switch mode {
	case "", eventlog.ModeJSONL, "file":
		store, err := eventlog.NewJSONLStore(logDir)
		return store, eventlog.ModeJSONL, err
	default:
		return eventlog.NewStoreFromEnv()
	}
}

// loadRegistry returns the builtin cast, extended from a personas JSON file
// when one is given.
func loadRegistry(path string) (*npc.PersonaRegistry, error) {
	registry := npc.DefaultRegistry()
	if path == "" {
		return registry, nil
	}
	if err := registry.LoadFromFile(path); err != nil {
		return nil, fmt.Errorf("load personas: %w", err)
	}
	return registry, nil
}

// fanout forwards every engine event to all attached sinks.
type fanout []damage.Sink

func (f fanout) Emit(ev damage.Event) {
	for _, s := range f {
		s.Emit(ev)
	}
}

type runOptions struct {
	profile     string
	profileFile string
	players     int
	turns       int
	seed        int64
	ante        int64
	minRaise    int64
	bankroll    int64
	logDir      string
	timeout     time.Duration
	personas    string
	quiet       bool

	// overrides records which table flags were set explicitly, either on the
	// command line or through their DAMAGE_* variable. Only those beat the
	// values of a non-default profile.
	overrides map[string]bool
}

func parseRunFlags(args []string, envCfg appEnv, lookup envLookup) (runOptions, error) {
	opts := runOptions{overrides: make(map[string]bool)}
	fs := flag.NewFlagSet("damage run", flag.ContinueOnError)
	fs.StringVar(&opts.profile, "profile", "damage-game", "builtin rule profile (see 'damage profiles')")
	fs.StringVar(&opts.profileFile, "profile-file", "", "JSON file overlaid on the profile")
	fs.IntVar(&opts.players, "players", 4, "seats at the table")
	fs.IntVar(&opts.turns, "turns", 3, "hands to play")
	fs.Int64Var(&opts.seed, "seed", envCfg.Seed, "shuffle seed")
	fs.Int64Var(&opts.ante, "ante", envCfg.Ante, "per-hand ante")
	fs.Int64Var(&opts.minRaise, "min-raise", envCfg.MinRaise, "minimum raise increment")
	fs.Int64Var(&opts.bankroll, "starting-bankroll", envCfg.StartingBankroll, "chips per player")
	fs.StringVar(&opts.logDir, "log-dir", envCfg.LogDir, "event log directory")
	fs.DurationVar(&opts.timeout, "timeout", envCfg.DecisionTimeout, "per-decision deadline (0 disables it)")
	fs.StringVar(&opts.personas, "personas", envCfg.PersonasFile, "extra personas JSON file")
	fs.BoolVar(&opts.quiet, "quiet", false, "suppress the live event feed")
	if err := fs.Parse(args); err != nil {
		return runOptions{}, err
	}

	fs.Visit(func(f *flag.Flag) { opts.overrides[f.Name] = true })
	for flagName, envName := range map[string]string{
		"ante":              "DAMAGE_ANTE",
		"min-raise":         "DAMAGE_MIN_RAISE",
		"starting-bankroll": "DAMAGE_STARTING_BANKROLL",
	} {
		if _, ok := lookup(envName); ok {
			opts.overrides[flagName] = true
		}
	}
	return opts, nil
}

// gameConfig resolves the profile, the optional profile file and the flag
// overrides into one engine config. The seed always comes from the flag so
// that default runs stay reproducible.
func (o runOptions) gameConfig() (damage.GameConfig, error) {
	cfg, err := damage.LoadProfile(o.profile)
	if err != nil {
		return damage.GameConfig{}, err
	}
	if o.profileFile != "" {
		if cfg, err = damage.ApplyProfileFile(cfg, o.profileFile); err != nil {
			return damage.GameConfig{}, err
		}
	}
	if o.overrides["players"] {
		cfg.Players = o.players
	}
	if o.overrides["turns"] {
		cfg.Turns = o.turns
	}
	if o.overrides["ante"] {
		cfg.Ante = o.ante
	}
	if o.overrides["min-raise"] {
		cfg.MinRaise = o.minRaise
	}
	if o.overrides["starting-bankroll"] {
		cfg.StartingBankroll = o.bankroll
	}
	cfg.Seed = o.seed
	cfg.DecisionTimeout = o.timeout
	return cfg, nil
}

func runCmd(ctx context.Context, logger *slog.Logger, envCfg appEnv, args []string) error {
	opts, err := parseRunFlags(args, envCfg, os.LookupEnv)
	if err != nil {
		return err
	}
	cfg, err := opts.gameConfig()
	if err != nil {
		return err
	}

	store, mode, err := openStore(opts.logDir)
	if err != nil {
		return fmt.Errorf("open event store: %w", err)
	}
	defer store.Close()

	registry, err := loadRegistry(opts.personas)
	if err != nil {
		return err
	}

	gameID := fmt.Sprintf("game_%s", time.Now().UTC().Format("20060102T150405Z"))
	storeSink := eventlog.NewStoreSink(store, gameID, logger)
	sinks := fanout{storeSink}
	if !opts.quiet {
		sinks = append(sinks, damage.SinkFunc(printEngineEvent))
	}

	game, err := damage.NewGame(cfg, damage.WithGameID(gameID), damage.WithEventSink(sinks))
	if err != nil {
		return err
	}
	roster := npc.NewRoster(registry, npc.WithRosterSeed(cfg.Seed))
	if err := roster.FillTable(game, cfg.Players); err != nil {
		return err
	}

	banner()
	pterm.Info.Printfln("Game %s: %d players, %d hands, seed %d, events to %s store",
		gameID, cfg.Players, cfg.Turns, cfg.Seed, mode)

	var spinner *pterm.SpinnerPrinter
	if opts.quiet {
		spinner, _ = pterm.DefaultSpinner.Start("Playing hands ...")
	}
	summary, err := game.Run(ctx)
	if spinner != nil {
		if err != nil {
			spinner.Fail()
		} else {
			spinner.Success()
		}
	}
	if err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	if err := storeSink.Err(); err != nil {
		logger.Warn("event store degraded", "error", err)
	}

	// The live feed already rendered the standings from game_ended.
	if opts.quiet {
		renderStandings(summary.Standings)
	}
	pterm.Success.Printfln("Replay with: damage replay -log-dir %s -game-id %s", opts.logDir, gameID)
	return nil
}

type replayOptions struct {
	logDir string
	gameID string
	list   bool
	prefix string
	tail   bool
	speed  float64
	script string
	out    string
	verify string
}

func parseReplayFlags(args []string, envCfg appEnv) (replayOptions, error) {
	var opts replayOptions
	fs := flag.NewFlagSet("damage replay", flag.ContinueOnError)
	fs.StringVar(&opts.logDir, "log-dir", envCfg.LogDir, "event log directory")
	fs.StringVar(&opts.gameID, "game-id", "", "print a stored game (for example game_20260206T093854Z)")
	fs.BoolVar(&opts.list, "list", false, "list stored game logs")
	fs.StringVar(&opts.prefix, "prefix", "", "filter -list by game id prefix (game_, tournament_)")
	fs.BoolVar(&opts.tail, "tail", false, "follow the game live instead of replaying it")
	fs.Float64Var(&opts.speed, "speed", 1, "playback speed multiplier (0 prints instantly)")
	fs.StringVar(&opts.script, "script", "", "record a script file into a tape")
	fs.StringVar(&opts.out, "out", "", "tape output path (default <script>.tape.json)")
	fs.StringVar(&opts.verify, "verify", "", "verify a recorded tape")
	if err := fs.Parse(args); err != nil {
		return replayOptions{}, err
	}
	return opts, nil
}

// mode picks the one replay action the flags select.
func (o replayOptions) mode() (string, error) {
	switch {
	case o.verify != "":
		return "verify", nil
	case o.script != "":
		return "record", nil
	case o.list:
		return "list", nil
	case o.tail && o.gameID == "":
		return "", errors.New("-tail needs -game-id")
	case o.gameID != "":
		return "show", nil
	default:
		return "", errors.New("replay needs one of -script, -verify, -list or -game-id")
	}
}

func replayCmd(ctx context.Context, envCfg appEnv, args []string) error {
	opts, err := parseReplayFlags(args, envCfg)
	if err != nil {
		return err
	}
	mode, err := opts.mode()
	if err != nil {
		return err
	}
	switch mode {
	case "verify":
		return verifyTape(ctx, opts.verify)
	case "record":
		return recordTape(ctx, opts.script, opts.out)
	case "list":
		return listGames(ctx, opts.logDir, opts.prefix)
	default:
		if opts.tail {
			return tailGame(ctx, opts.logDir, opts.gameID)
		}
		return showGame(ctx, opts.logDir, opts.gameID, opts.speed)
	}
}

func recordTape(ctx context.Context, scriptPath, out string) error {
	script, err := replay.LoadScript(scriptPath)
	if err != nil {
		return err
	}
	if out == "" {
		out = strings.TrimSuffix(scriptPath, ".json") + ".tape.json"
	}
	spinner, _ := pterm.DefaultSpinner.Start("Recording tape ...")
	tape, err := replay.Run(ctx, script)
	if err != nil {
		spinner.Fail()
		return err
	}
	if err := tape.Save(out); err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()
	pterm.Success.Printfln("Tape %s: game %s, %d events, digest %s",
		out, tape.GameID, len(tape.Events), shortDigest(tape.Digest))
	return nil
}

func verifyTape(ctx context.Context, path string) error {
	tape, err := replay.Load(path)
	if err != nil {
		return err
	}
	if err := replay.Verify(ctx, tape); err != nil {
		return err
	}
	pterm.Success.Printfln("Tape %s verified: game %s, %d events, digest %s",
		path, tape.GameID, len(tape.Events), shortDigest(tape.Digest))
	return nil
}

func listGames(ctx context.Context, logDir, prefix string) error {
	store, _, err := openStore(logDir)
	if err != nil {
		return fmt.Errorf("open event store: %w", err)
	}
	defer store.Close()

	ids, err := store.ListGames(ctx, prefix)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		pterm.Info.Println("No stored games.")
		return nil
	}
	for _, id := range ids {
		pterm.Println(pterm.LightCyan(id))
	}
	return nil
}

// tailGame follows a stored game and prints events as they are appended,
// which also works while the game is still being played. Ctrl-C stops it.
func tailGame(ctx context.Context, logDir, gameID string) error {
	store, _, err := openStore(logDir)
	if err != nil {
		return fmt.Errorf("open event store: %w", err)
	}
	defer store.Close()

	err = eventlog.Tail(ctx, store, gameID, 0, func(rec eventlog.Envelope) error {
		ev, decErr := decodeEnvelope(rec)
		if decErr != nil {
			return decErr
		}
		printEngineEvent(ev)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func showGame(ctx context.Context, logDir, gameID string, speed float64) error {
	store, _, err := openStore(logDir)
	if err != nil {
		return fmt.Errorf("open event store: %w", err)
	}
	defer store.Close()

	stream, err := store.Load(ctx, gameID)
	if err != nil {
		return err
	}
	if len(stream) == 0 {
		return fmt.Errorf("no events stored for game %q", gameID)
	}

	var delay time.Duration
	if speed > 0 {
		delay = time.Duration(float64(200*time.Millisecond) / speed)
	}
	for _, rec := range stream {
		ev, err := decodeEnvelope(rec)
		if err != nil {
			return err
		}
		printEngineEvent(ev)
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return nil
}

type tournamentOptions struct {
	entrants   int
	seatFormat int
	turns      int
	advance    int
	multiplier float64
	seed       int64
	ante       int64
	minRaise   int64
	bankroll   int64
	logDir     string
	personas   string
	quiet      bool
}

func parseTournamentFlags(args []string, envCfg appEnv) (tournamentOptions, error) {
	var opts tournamentOptions
	fs := flag.NewFlagSet("damage tournament", flag.ContinueOnError)
	fs.IntVar(&opts.entrants, "entrants", envCfg.TournamentEntrants, "field size")
	fs.IntVar(&opts.seatFormat, "seat-format", envCfg.TournamentSeatFormat, "seats per table (6 or 8)")
	fs.IntVar(&opts.turns, "turns", envCfg.TournamentTurns, "hands per table game")
	fs.IntVar(&opts.advance, "advance-per-table", envCfg.AdvancePerTable, "players advancing from each table")
	fs.Float64Var(&opts.multiplier, "stakes-multiplier", envCfg.StakesMultiplier, "ante growth per round")
	fs.Int64Var(&opts.seed, "seed", envCfg.Seed, "bracket seed")
	fs.Int64Var(&opts.ante, "ante", envCfg.Ante, "round one ante")
	fs.Int64Var(&opts.minRaise, "min-raise", envCfg.MinRaise, "minimum raise increment")
	fs.Int64Var(&opts.bankroll, "starting-bankroll", envCfg.StartingBankroll, "chips per player per game")
	fs.StringVar(&opts.logDir, "log-dir", envCfg.LogDir, "event log directory")
	fs.StringVar(&opts.personas, "personas", envCfg.PersonasFile, "extra personas JSON file")
	fs.BoolVar(&opts.quiet, "quiet", false, "suppress the bracket feed")
	if err := fs.Parse(args); err != nil {
		return tournamentOptions{}, err
	}
	return opts, nil
}

func (o tournamentOptions) config(envCfg appEnv) tournament.Config {
	cfg := tournament.DefaultConfig()
	cfg.Entrants = o.entrants
	cfg.SeatFormat = o.seatFormat
	cfg.TurnsPerGame = o.turns
	cfg.Seed = o.seed
	cfg.AdvancePerTable = o.advance
	cfg.StakesMultiplier = o.multiplier
	cfg.Ante = o.ante
	cfg.MinRaise = o.minRaise
	cfg.StartingBankroll = o.bankroll
	cfg.DecisionTimeout = envCfg.DecisionTimeout
	return cfg
}

func tournamentCmd(ctx context.Context, logger *slog.Logger, envCfg appEnv, args []string) error {
	opts, err := parseTournamentFlags(args, envCfg)
	if err != nil {
		return err
	}

	store, _, err := openStore(opts.logDir)
	if err != nil {
		return fmt.Errorf("open event store: %w", err)
	}
	defer store.Close()

	registry, err := loadRegistry(opts.personas)
	if err != nil {
		return err
	}

	// The game sink factory runs during Run, after the runner exists, so
	// capturing the variable before NewRunner assigns it is safe.
	var runner *tournament.Runner
	gameSinks := tournament.GameSinkFactory(func(round int, tableID string) damage.Sink {
		return eventlog.NewStoreSink(store, fmt.Sprintf("%s_%s", runner.ID(), tableID), logger)
	})

	bracket := &bracketLog{}
	runnerOpts := []tournament.Option{
		tournament.WithRegistry(registry),
		tournament.WithLogger(logger),
		tournament.WithSink(bracket),
		tournament.WithGameSink(gameSinks),
	}
	if !opts.quiet {
		runnerOpts = append(runnerOpts, tournament.WithSink(tournament.SinkFunc(printBracketEvent)))
	}

	runner, err = tournament.NewRunner(opts.config(envCfg), runnerOpts...)
	if err != nil {
		return err
	}
	if err := bracket.open(filepath.Join(opts.logDir, runner.ID()+".bracket.jsonl")); err != nil {
		return err
	}
	defer bracket.Close()

	banner()
	result, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("run tournament: %w", err)
	}
	if err := bracket.Err(); err != nil {
		logger.Warn("bracket log degraded", "error", err)
	}

	renderChampion(runner, result)
	pterm.Success.Printfln("Bracket log: %s", bracket.Path())
	return nil
}

func profilesCmd(envCfg appEnv, args []string) error {
	var personas string
	fs := flag.NewFlagSet("damage profiles", flag.ContinueOnError)
	fs.StringVar(&personas, "personas", envCfg.PersonasFile, "extra personas JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	registry, err := loadRegistry(personas)
	if err != nil {
		return err
	}
	renderProfiles()
	renderCast(registry)
	return nil
}
