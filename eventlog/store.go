package eventlog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store is an append-only event stream keyed by game ID. Appending the same
// (game, seq) pair twice is a no-op, so crash-replayed games do not duplicate
// history. ListGames filters by game ID prefix; the empty prefix lists
// everything ("game_" and "tournament_" select the two log families).
type Store interface {
	Append(ctx context.Context, env Envelope) error
	Load(ctx context.Context, gameID string) ([]Envelope, error)
	ListGames(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Tail delivers every stored envelope for a game in order, then keeps polling
// the store and delivering new appends until ctx is canceled or fn returns an
// error. interval <= 0 uses a 400ms poll.
func Tail(ctx context.Context, s Store, gameID string, interval time.Duration, fn func(Envelope) error) error {
	if interval <= 0 {
		interval = 400 * time.Millisecond
	}
	delivered := 0
	for {
		evs, err := s.Load(ctx, gameID)
		if err != nil {
			return err
		}
		for _, env := range evs[delivered:] {
			if err := fn(env); err != nil {
				return err
			}
		}
		delivered = len(evs)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// MemoryStore keeps streams in process memory. Useful for tests and
// single-run tooling that only needs the stream transiently.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string][]Envelope
	seen  map[string]map[int]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string][]Envelope),
		seen:  make(map[string]map[int]struct{}),
	}
}

func (s *MemoryStore) Append(_ context.Context, env Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seqs := s.seen[env.GameID]
	if seqs == nil {
		seqs = make(map[int]struct{})
		s.seen[env.GameID] = seqs
	}
	if _, dup := seqs[env.Seq]; dup {
		return nil
	}
	seqs[env.Seq] = struct{}{}
	s.games[env.GameID] = append(s.games[env.GameID], env)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, gameID string) ([]Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stream := s.games[gameID]
	out := make([]Envelope, len(stream))
	copy(out, stream)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (s *MemoryStore) ListGames(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.games))
	for id := range s.games {
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
