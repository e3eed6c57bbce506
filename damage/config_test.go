package damage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsFillMissingPieces(t *testing.T) {
	cfg := GameConfig{
		Players:          4,
		Turns:            1,
		Ante:             10,
		MinRaise:         10,
		StartingBankroll: 200,
		CardStyle:        StyleDraw5,
		EnableLives:      true,
	}
	norm := cfg.withDefaults()
	if norm.RemainderSeatRule != RemainderDealerRelative {
		t.Fatalf("remainder rule = %q, want dealer_relative", norm.RemainderSeatRule)
	}
	if norm.Affect.isZero() {
		t.Fatalf("affect tuning not defaulted")
	}
	if norm.StartingLives != 3 {
		t.Fatalf("starting lives = %d, want 3", norm.StartingLives)
	}
	if err := norm.Validate(); err != nil {
		t.Fatalf("normalized config invalid: %v", err)
	}
}

func TestValidateCatchesBadConfigs(t *testing.T) {
	base := DefaultConfig().withDefaults()
	cases := []struct {
		name   string
		mutate func(*GameConfig)
		want   string
	}{
		{"too few players", func(c *GameConfig) { c.Players = 1 }, "players"},
		{"too many players", func(c *GameConfig) { c.Players = 9 }, "players"},
		{"zero turns", func(c *GameConfig) { c.Turns = 0 }, "turns"},
		{"no ante no blinds", func(c *GameConfig) { c.Ante = 0 }, "ante"},
		{"zero min raise", func(c *GameConfig) { c.MinRaise = 0 }, "min raise"},
		{"zero bankroll", func(c *GameConfig) { c.StartingBankroll = 0 }, "bankroll"},
		{"negative lives", func(c *GameConfig) { c.StartingLives = -1 }, "lives"},
		{"bad style", func(c *GameConfig) { c.CardStyle = "canasta" }, "card style"},
		{"inverted blinds", func(c *GameConfig) { c.EnableBlinds = true; c.SmallBlind = 20; c.BigBlind = 10 }, "blinds"},
		{"bad remainder rule", func(c *GameConfig) { c.RemainderSeatRule = "coin_flip" }, "remainder"},
		{"bad decay", func(c *GameConfig) { c.Affect.Decay = 1.5 }, "decay"},
	}
	for _, tc := range cases {
		cfg := base
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestBuiltinProfiles(t *testing.T) {
	names := Profiles()
	if len(names) != 2 || names[0] != "damage-game" || names[1] != "poker-texasholdem" {
		t.Fatalf("profiles = %v", names)
	}

	dmg, err := LoadProfile("damage-game")
	if err != nil {
		t.Fatalf("load damage-game: %v", err)
	}
	if dmg.CardStyle != StyleDraw5 || !dmg.EnableLives || !dmg.EnableAffectPhase || dmg.Ante != 10 {
		t.Fatalf("damage-game profile wrong: %+v", dmg)
	}

	pok, err := LoadProfile("poker-texasholdem")
	if err != nil {
		t.Fatalf("load poker-texasholdem: %v", err)
	}
	if pok.CardStyle != StyleHoldem || pok.EnableLives || !pok.EnableBlinds || pok.StartingBankroll != 300 {
		t.Fatalf("poker-texasholdem profile wrong: %+v", pok)
	}

	for _, name := range names {
		cfg, _ := LoadProfile(name)
		if err := cfg.withDefaults().Validate(); err != nil {
			t.Fatalf("builtin profile %s invalid: %v", name, err)
		}
	}

	if _, err := LoadProfile("durak"); err == nil {
		t.Fatalf("expected an error for unknown profile")
	}
}

func TestApplyProfileFileOverlaysOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	body := `{"players": 6, "seed": 42, "enable_lives": false}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := ApplyProfileFile(DefaultConfig(), path)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Players != 6 || cfg.Seed != 42 || cfg.EnableLives {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.Ante != 10 || cfg.CardStyle != StyleDraw5 {
		t.Fatalf("untouched keys changed: %+v", cfg)
	}

	if _, err := ApplyProfileFile(DefaultConfig(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
