package damage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Builtin rule profiles. "damage-game" is the full ruleset with lives and the
// affect contest; "poker-texasholdem" strips the ruleset down to plain poker.
var builtinProfiles = map[string]GameConfig{
	"damage-game": {
		Players:                   4,
		Turns:                     3,
		CardStyle:                 StyleDraw5,
		EnableLives:               true,
		EnableAffectPhase:         true,
		EnableDirectEmoterAttacks: true,
		StartingLives:             3,
		Ante:                      10,
		MinRaise:                  10,
		StartingBankroll:          200,
	},
	"poker-texasholdem": {
		Players:          4,
		Turns:            3,
		CardStyle:        StyleHoldem,
		EnableBlinds:     true,
		SmallBlind:       5,
		BigBlind:         10,
		Ante:             0,
		MinRaise:         10,
		StartingBankroll: 300,
	},
}

// Profiles lists the builtin profile names in sorted order.
func Profiles() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadProfile returns a copy of the named builtin profile.
func LoadProfile(name string) (GameConfig, error) {
	cfg, ok := builtinProfiles[name]
	if !ok {
		return GameConfig{}, fmt.Errorf("unknown profile %q", name)
	}
	return cfg, nil
}

// DefaultConfig is the damage-game profile.
func DefaultConfig() GameConfig {
	cfg, _ := LoadProfile("damage-game")
	return cfg
}

// ApplyProfileFile overlays a JSON profile file onto cfg. Only keys present
// in the file are changed.
func ApplyProfileFile(cfg GameConfig, path string) (GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read profile file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse profile file %s: %w", path, err)
	}
	return cfg, nil
}
