package eventlog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/domjancik/damage-game/damage"
)

const sinkAppendTimeout = 3 * time.Second

// StoreSink adapts a Store to the engine's event sink. The engine emits
// synchronously, so append failures are logged rather than surfaced; Err
// reports the first one for callers that want to fail a run on it.
type StoreSink struct {
	store Store
	log   *slog.Logger

	mu     sync.Mutex
	gameID string
	err    error
}

// NewStoreSink wires a store to one game's event stream. Pass an empty
// gameID to capture it from the game_started event.
func NewStoreSink(store Store, gameID string, log *slog.Logger) *StoreSink {
	if log == nil {
		log = slog.Default()
	}
	return &StoreSink{store: store, gameID: gameID, log: log}
}

func (s *StoreSink) Emit(ev damage.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameID == "" {
		if started, ok := ev.Payload.(damage.GameStartedPayload); ok {
			s.gameID = started.GameID
		}
	}
	if s.gameID == "" {
		s.log.Warn("event before game_started, dropping", "type", ev.Type, "seq", ev.Seq)
		return
	}

	env, err := Wrap(s.gameID, ev)
	if err != nil {
		s.fail(ev, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sinkAppendTimeout)
	defer cancel()
	if err := s.store.Append(ctx, env); err != nil {
		s.fail(ev, err)
	}
}

func (s *StoreSink) fail(ev damage.Event, err error) {
	if s.err == nil {
		s.err = err
	}
	s.log.Error("append event failed", "game", s.gameID, "seq", ev.Seq, "type", ev.Type, "err", err)
}

// Err returns the first append failure, if any.
func (s *StoreSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
