package npc

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/domjancik/damage-game/damage"
)

// Source adapts a Brain to the engine's DecisionSource interface.
type Source struct {
	brain Brain
	delay time.Duration
}

// NewSource wraps a brain. A positive thinkDelay makes the NPC pause before
// answering, honoring context cancellation while it waits.
func NewSource(brain Brain, thinkDelay time.Duration) *Source {
	return &Source{brain: brain, delay: thinkDelay}
}

func (s *Source) Solicit(ctx context.Context, req damage.SolicitRequest) (damage.Decision, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return damage.Decision{}, ctx.Err()
		case <-timer.C:
		}
	}
	return s.brain.Decide(ViewFromRequest(req)), nil
}

// Instance represents an active NPC seated at a table.
type Instance struct {
	PlayerID   string
	Seat       int
	Persona    *Persona
	Brain      Brain
	ThinkDelay time.Duration
}

// Roster manages NPC lifecycle at a table: spawning brains, seating them,
// and remembering which player IDs are bots.
type Roster struct {
	registry *PersonaRegistry

	mu        sync.RWMutex
	instances map[string]*Instance // keyed by PlayerID
	rng       *rand.Rand
}

// RosterOption configures a Roster.
type RosterOption func(*Roster)

// WithRosterSeed fixes the roster's brain-seed stream so repeated fills
// produce identical NPCs.
func WithRosterSeed(seed int64) RosterOption {
	return func(r *Roster) { r.rng = rand.New(rand.NewSource(seed)) }
}

// NewRoster creates an NPC roster backed by the given persona registry.
func NewRoster(registry *PersonaRegistry, opts ...RosterOption) *Roster {
	r := &Roster{
		registry:  registry,
		instances: make(map[string]*Instance),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the underlying PersonaRegistry.
func (r *Roster) Registry() *PersonaRegistry { return r.registry }

// SeatOptions maps a personality onto the engine's seat stats: composure
// shapes will and resistance, hostility and aggression shape affect skill.
func SeatOptions(p PersonalityProfile) []damage.SeatOption {
	return []damage.SeatOption{
		damage.WithWill(40 + int(p.Composure*40)),
		damage.WithSkillAffect(35 + int(p.Hostility*35+p.Aggression*15)),
		damage.WithResistance(p.Composure * 0.4),
	}
}

// Seat spawns a brain for the persona and sits it at the given seat.
func (r *Roster) Seat(g *damage.Game, seat int, persona *Persona) (*Instance, error) {
	if persona == nil {
		return nil, fmt.Errorf("seat %d: nil persona", seat)
	}

	r.mu.Lock()
	seed := r.rng.Int63()
	r.mu.Unlock()

	brain := NewRuleBrain(persona, seed)
	playerID := fmt.Sprintf("npc_%s_%d", persona.ID, seat)

	err := g.SeatPlayer(seat, playerID, NewSource(brain, 0), SeatOptions(persona.Brain)...)
	if err != nil {
		return nil, fmt.Errorf("seat NPC %s at %d: %w", persona.Name, seat, err)
	}

	inst := &Instance{
		PlayerID: playerID,
		Seat:     seat,
		Persona:  persona,
		Brain:    brain,
	}
	r.mu.Lock()
	r.instances[playerID] = inst
	r.mu.Unlock()
	return inst, nil
}

// FillTable seats personas from the registry into seats [0, players), cycling
// through the cast in ID order when the table is larger than the cast.
func (r *Roster) FillTable(g *damage.Game, players int) error {
	cast := r.registry.All()
	if len(cast) == 0 {
		return fmt.Errorf("fill table: registry is empty")
	}
	for seat := 0; seat < players; seat++ {
		if _, err := r.Seat(g, seat, cast[seat%len(cast)]); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the NPC instance for a given playerID, or nil.
func (r *Roster) Get(playerID string) *Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.instances[playerID]
}

// IsNPC checks if a playerID belongs to an NPC.
func (r *Roster) IsNPC(playerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.instances[playerID] != nil
}

// Release removes an NPC from tracking.
func (r *Roster) Release(playerID string) {
	r.mu.Lock()
	delete(r.instances, playerID)
	r.mu.Unlock()
}
