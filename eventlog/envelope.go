// Package eventlog persists engine event streams. Streams append to JSONL
// files by default; SQLite and Postgres backends share the same Store
// interface for server deployments.
package eventlog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/domjancik/damage-game/damage"
)

// SchemaVersion identifies the persisted envelope layout.
const SchemaVersion = "0.1"

// Envelope wraps one engine event with provenance for storage. Payload holds
// the event payload as marshaled JSON, so a loaded envelope is byte-exact
// with what was stored.
type Envelope struct {
	SchemaVersion string           `json:"schema_version"`
	GameID        string           `json:"game_id"`
	Seq           int              `json:"seq"`
	Type          damage.EventType `json:"type"`
	Turn          int              `json:"turn"`
	Phase         damage.Phase     `json:"phase"`
	TS            time.Time        `json:"ts"`
	Payload       json.RawMessage  `json:"payload,omitempty"`
}

// Wrap converts an engine event into a storable envelope.
func Wrap(gameID string, ev damage.Event) (Envelope, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", ev.Type, err)
	}
	return Envelope{
		SchemaVersion: SchemaVersion,
		GameID:        gameID,
		Seq:           ev.Seq,
		Type:          ev.Type,
		Turn:          ev.Turn,
		Phase:         ev.Phase,
		TS:            time.Now().UTC(),
		Payload:       payload,
	}, nil
}
