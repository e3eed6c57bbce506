package replay

import (
	"fmt"
	"strings"

	"github.com/domjancik/damage-game/card"
	"github.com/domjancik/damage-game/damage"
)

type normalizedSeat struct {
	seat     int
	playerID string
	opts     []damage.SeatOption
	betting  []damage.Decision
	affect   []damage.Decision
}

type normalizedScript struct {
	cfg    damage.GameConfig
	gameID string
	seats  []normalizedSeat
}

// normalizeScript validates authoring mistakes up front: bad vocabulary, bad
// seats, bad decks. Context-dependent legality (raise sizes, live targets)
// is left to the engine validator and shows up in the tape as
// action_rejected events instead of failing the run.
func normalizeScript(s Script) (normalizedScript, error) {
	var out normalizedScript

	cfg, err := resolveConfig(s)
	if err != nil {
		return out, err
	}
	out.cfg = cfg
	out.gameID = strings.TrimSpace(s.GameID)
	if out.gameID == "" {
		out.gameID = fmt.Sprintf("tape_%d", cfg.Seed)
	}

	if len(s.Seats) == 0 {
		return out, scriptErr(-1, -1, "no_seats", "script has no seats")
	}
	seen := make(map[int]bool, len(s.Seats))
	for i, seat := range s.Seats {
		if seat.Seat < 0 || seat.Seat >= cfg.Players {
			return out, scriptErr(seat.Seat, -1, "seat_out_of_range",
				"seats[%d]: seat %d outside [0,%d)", i, seat.Seat, cfg.Players)
		}
		if seen[seat.Seat] {
			return out, scriptErr(seat.Seat, -1, "duplicate_seat", "seat %d scripted twice", seat.Seat)
		}
		seen[seat.Seat] = true
		ns, err := normalizeSeat(seat)
		if err != nil {
			return out, err
		}
		out.seats = append(out.seats, ns)
	}
	for seatNo := 0; seatNo < cfg.Players; seatNo++ {
		if !seen[seatNo] {
			return out, scriptErr(seatNo, -1, "missing_seat",
				"config seats %d players but seat %d is not scripted", cfg.Players, seatNo)
		}
	}
	return out, nil
}

func resolveConfig(s Script) (damage.GameConfig, error) {
	var cfg damage.GameConfig
	switch {
	case s.Config != nil:
		cfg = *s.Config
	case s.Profile != "":
		loaded, err := damage.LoadProfile(s.Profile)
		if err != nil {
			return cfg, scriptErr(-1, -1, "unknown_profile", "%v", err)
		}
		cfg = loaded
	default:
		cfg = damage.DefaultConfig()
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if len(s.Deck) > 0 {
		cfg.DeckOverride = s.Deck
	}
	if cfg.Seed == 0 {
		return cfg, scriptErr(-1, -1, "missing_seed", "a nonzero seed is required for a reproducible tape")
	}
	if len(cfg.DeckOverride) > 0 {
		deck := append([]string(nil), cfg.DeckOverride...)
		used := make(map[card.Card]bool, len(deck))
		for i := range deck {
			deck[i] = strings.TrimSpace(deck[i])
			c, err := card.Parse(deck[i])
			if err != nil {
				return cfg, scriptErr(-1, -1, "invalid_deck_card", "deck[%d]: %v", i, err)
			}
			if used[c] {
				return cfg, scriptErr(-1, -1, "duplicate_deck_card", "deck[%d]: %s appears twice", i, c)
			}
			used[c] = true
		}
		cfg.DeckOverride = deck
	}
	return cfg, nil
}

func normalizeSeat(s SeatScript) (normalizedSeat, error) {
	ns := normalizedSeat{
		seat:     s.Seat,
		playerID: strings.TrimSpace(s.PlayerID),
	}
	if ns.playerID == "" {
		ns.playerID = fmt.Sprintf("P%d", s.Seat)
	}
	if s.Will != nil {
		ns.opts = append(ns.opts, damage.WithWill(*s.Will))
	}
	if s.SkillAffect != nil {
		ns.opts = append(ns.opts, damage.WithSkillAffect(*s.SkillAffect))
	}
	if s.Focus != nil {
		ns.opts = append(ns.opts, damage.WithFocus(*s.Focus))
	}
	if s.Resistance != nil {
		ns.opts = append(ns.opts, damage.WithResistance(*s.Resistance))
	}

	for i, d := range s.Betting {
		if err := checkStep(s.Seat, i, d, damage.WindowBetting); err != nil {
			return ns, err
		}
	}
	for i, d := range s.Affect {
		if err := checkStep(s.Seat, i, d, damage.WindowAffect); err != nil {
			return ns, err
		}
	}
	ns.betting = append([]damage.Decision(nil), s.Betting...)
	ns.affect = append([]damage.Decision(nil), s.Affect...)
	return ns, nil
}

func checkStep(seat, step int, d damage.Decision, w damage.Window) error {
	switch w {
	case damage.WindowBetting:
		if !d.Kind.IsBettingKind() {
			return scriptErr(seat, step, "wrong_window", "kind %q is not a betting decision", d.Kind)
		}
		if d.Kind == damage.KindRaise {
			if d.Amount <= 0 {
				return scriptErr(seat, step, "invalid_raise", "raise amount must be > 0")
			}
			if err := d.Plan.Check(); err != nil {
				return scriptErr(seat, step, "invalid_plan", "%v", err)
			}
		}
	case damage.WindowAffect:
		if !d.Kind.IsAffectKind() {
			return scriptErr(seat, step, "wrong_window", "kind %q is not an affect decision", d.Kind)
		}
		if d.Plan != nil {
			if err := d.Plan.Check(); err != nil {
				return scriptErr(seat, step, "invalid_plan", "%v", err)
			}
		}
	}
	return nil
}
