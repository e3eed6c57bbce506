package npc

// PersonalityProfile defines the tunable parameters for a RuleBrain.
type PersonalityProfile struct {
	Aggression float64 `json:"aggression"` // 0.0-1.0: tendency to raise vs check/call
	Tightness  float64 `json:"tightness"`  // 0.0-1.0: hand range width (1.0 = only premiums)
	Bluffing   float64 `json:"bluffing"`   // 0.0-1.0: bluff raise frequency
	Hostility  float64 `json:"hostility"`  // 0.0-1.0: appetite for emotional attacks
	Composure  float64 `json:"composure"`  // 0.0-1.0: guard/self-regulate discipline
	Randomness float64 `json:"randomness"` // 0.0-1.0: decision noise
}

// Persona defines a named NPC character.
type Persona struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Tagline string             `json:"tagline"`
	Tier    int                `json:"tier"` // 1=boss, 2=supporting, 3=filler
	Brain   PersonalityProfile `json:"brain"`
}

// DefaultPersonas returns the built-in cast, ordered by ID.
func DefaultPersonas() []*Persona {
	return []*Persona{
		{
			ID:      "brick",
			Name:    "Brick",
			Tagline: "Hasn't blinked since the ante.",
			Tier:    2,
			Brain: PersonalityProfile{
				Aggression: 0.30,
				Tightness:  0.70,
				Bluffing:   0.10,
				Hostility:  0.15,
				Composure:  0.90,
				Randomness: 0.05,
			},
		},
		{
			ID:      "echo",
			Name:    "Echo",
			Tagline: "Plays whatever you played last hand.",
			Tier:    3,
			Brain: PersonalityProfile{
				Aggression: 0.50,
				Tightness:  0.45,
				Bluffing:   0.35,
				Hostility:  0.40,
				Composure:  0.45,
				Randomness: 0.60,
			},
		},
		{
			ID:      "ledger",
			Name:    "Ledger",
			Tagline: "Counts your stack before you do.",
			Tier:    2,
			Brain: PersonalityProfile{
				Aggression: 0.45,
				Tightness:  0.80,
				Bluffing:   0.20,
				Hostility:  0.30,
				Composure:  0.75,
				Randomness: 0.10,
			},
		},
		{
			ID:      "needle",
			Name:    "Needle",
			Tagline: "Finds the nerve, then presses.",
			Tier:    1,
			Brain: PersonalityProfile{
				Aggression: 0.70,
				Tightness:  0.40,
				Bluffing:   0.45,
				Hostility:  0.90,
				Composure:  0.50,
				Randomness: 0.20,
			},
		},
		{
			ID:      "siren",
			Name:    "Siren",
			Tagline: "You'll call. You always call.",
			Tier:    1,
			Brain: PersonalityProfile{
				Aggression: 0.55,
				Tightness:  0.55,
				Bluffing:   0.70,
				Hostility:  0.65,
				Composure:  0.70,
				Randomness: 0.25,
			},
		},
		{
			ID:      "switch",
			Name:    "Switch",
			Tagline: "Two gears, no clutch.",
			Tier:    3,
			Brain: PersonalityProfile{
				Aggression: 0.85,
				Tightness:  0.25,
				Bluffing:   0.60,
				Hostility:  0.55,
				Composure:  0.25,
				Randomness: 0.45,
			},
		},
	}
}
