// Package replay turns scripted games into reproducible event tapes.
//
// A Script pins everything a run depends on: the rule config, the rng seed,
// and one decision queue per seat and window. Run plays the script through
// the engine and records every event; the resulting Tape carries a
// blake2b-256 digest of the event stream, so a tape can be integrity-checked
// offline and re-verified against the engine at any time.
package replay

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/domjancik/damage-game/damage"
)

// TapeVersion is bumped whenever the tape layout changes incompatibly.
const TapeVersion = 1

// Script is a fully scripted game. Config wins over Profile when both are
// set; with neither the default ruleset is used. Seed must end up nonzero,
// otherwise the tape would depend on wall-clock shuffles.
type Script struct {
	GameID  string             `json:"game_id,omitempty"`
	Profile string             `json:"profile,omitempty"`
	Config  *damage.GameConfig `json:"config,omitempty"`
	Seed    int64              `json:"seed,omitempty"`
	Deck    []string           `json:"deck,omitempty"`
	Seats   []SeatScript       `json:"seats"`
}

// SeatScript scripts one seat. Betting and affect decisions queue separately
// per window; an exhausted queue falls back to safe defaults (none for
// affect, check when free and fold when facing a bet). Stat pointers left
// nil keep the engine's seat defaults.
type SeatScript struct {
	Seat     int    `json:"seat"`
	PlayerID string `json:"player_id,omitempty"`

	Will        *int     `json:"will,omitempty"`
	SkillAffect *int     `json:"skill_affect,omitempty"`
	Focus       *float64 `json:"focus,omitempty"`
	Resistance  *float64 `json:"resistance,omitempty"`

	Betting []damage.Decision `json:"betting,omitempty"`
	Affect  []damage.Decision `json:"affect,omitempty"`
}

// Tape is the reproducible record of one scripted game. Events keep the
// engine's exact JSON encoding per event; Digest hashes their canonical
// compact form, so saving with indentation never invalidates it.
type Tape struct {
	TapeVersion int                 `json:"tape_version"`
	GameID      string              `json:"game_id"`
	Seed        int64               `json:"seed"`
	Script      Script              `json:"script"`
	Summary     *damage.GameSummary `json:"summary,omitempty"`
	Events      []json.RawMessage   `json:"events"`
	Digest      string              `json:"digest"`
}

// DecodedEvents unmarshals the raw event stream. Payloads come back as
// generic JSON values, not the engine's typed payload structs.
func (t *Tape) DecodedEvents() ([]damage.Event, error) {
	out := make([]damage.Event, len(t.Events))
	for i, raw := range t.Events {
		if err := json.Unmarshal(raw, &out[i]); err != nil {
			return nil, fmt.Errorf("decode event %d: %w", i, err)
		}
	}
	return out, nil
}

// CheckDigest recomputes the digest from the tape's events and compares it
// with the recorded one.
func (t *Tape) CheckDigest() error {
	got, err := digestEvents(t.Events)
	if err != nil {
		return err
	}
	if got != t.Digest {
		return fmt.Errorf("%w: recorded %s, recomputed %s", ErrDigestMismatch, t.Digest, got)
	}
	return nil
}

// Save writes the tape as indented JSON.
func (t *Tape) Save(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tape: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write tape: %w", err)
	}
	return nil
}

// Load reads a tape written by Save and checks its digest.
func Load(path string) (*Tape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tape: %w", err)
	}
	var t Tape
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse tape %s: %w", path, err)
	}
	if err := t.CheckDigest(); err != nil {
		return nil, fmt.Errorf("tape %s: %w", path, err)
	}
	return &t, nil
}

// LoadScript reads a script file.
func LoadScript(path string) (Script, error) {
	var s Script
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read script: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse script %s: %w", path, err)
	}
	return s, nil
}

// digestEvents hashes the compacted encoding of every event, newline
// separated. json.Compact strips only insignificant whitespace and keeps key
// order, so any re-encoding of the same events digests identically.
func digestEvents(events []json.RawMessage) (string, error) {
	var buf bytes.Buffer
	for i, ev := range events {
		if err := json.Compact(&buf, ev); err != nil {
			return "", fmt.Errorf("compact event %d: %w", i, err)
		}
		buf.WriteByte('\n')
	}
	sum := blake2b.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}
