package main

import "time"

// appEnv is the DAMAGE_* environment configuration. Flag defaults come from
// these fields, so the environment sets the baseline and command-line flags
// override it per invocation.
type appEnv struct {
	Seed             int64         `env:"DAMAGE_SEED" envDefault:"42"`
	Ante             int64         `env:"DAMAGE_ANTE" envDefault:"10"`
	MinRaise         int64         `env:"DAMAGE_MIN_RAISE" envDefault:"10"`
	StartingBankroll int64         `env:"DAMAGE_STARTING_BANKROLL" envDefault:"200"`
	LogDir           string        `env:"DAMAGE_LOG_DIR" envDefault:"runs"`
	DecisionTimeout  time.Duration `env:"DAMAGE_DECISION_TIMEOUT"`
	PersonasFile     string        `env:"DAMAGE_PERSONAS_FILE"`

	TournamentEntrants   int     `env:"DAMAGE_TOURNAMENT_ENTRANTS" envDefault:"16"`
	TournamentSeatFormat int     `env:"DAMAGE_TOURNAMENT_SEAT_FORMAT" envDefault:"6"`
	TournamentTurns      int     `env:"DAMAGE_TOURNAMENT_TURNS" envDefault:"3"`
	AdvancePerTable      int     `env:"DAMAGE_ADVANCE_PER_TABLE" envDefault:"1"`
	StakesMultiplier     float64 `env:"DAMAGE_STAKES_MULTIPLIER" envDefault:"1.5"`
}

// envLookup abstracts os.LookupEnv so flag merge rules stay testable.
type envLookup func(string) (string, bool)
