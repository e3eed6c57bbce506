package eventlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const jsonlSuffix = ".events.jsonl"

// JSONLStore appends one JSON object per line to <dir>/<game_id>.events.jsonl.
// Files stay open between appends; Close flushes and releases them. Appends
// are not deduplicated, the per-game file is the unit of uniqueness.
type JSONLStore struct {
	dir string

	mu    sync.Mutex
	files map[string]*os.File
}

func NewJSONLStore(dir string) (*JSONLStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("empty event log directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create event log directory: %w", err)
	}
	return &JSONLStore{
		dir:   dir,
		files: make(map[string]*os.File),
	}, nil
}

// Dir returns the directory the store writes into.
func (s *JSONLStore) Dir() string { return s.dir }

func (s *JSONLStore) Append(_ context.Context, env Envelope) error {
	if env.GameID == "" {
		return fmt.Errorf("append: empty game id")
	}
	line, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.fileLocked(env.GameID)
	if err != nil {
		return err
	}
	_, err = f.Write(line)
	return err
}

func (s *JSONLStore) fileLocked(gameID string) (*os.File, error) {
	if f, ok := s.files[gameID]; ok {
		return f, nil
	}
	f, err := os.OpenFile(s.path(gameID), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	s.files[gameID] = f
	return f, nil
}

func (s *JSONLStore) path(gameID string) string {
	// Game IDs become file names; flatten anything path-like.
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, gameID)
	return filepath.Join(s.dir, safe+jsonlSuffix)
}

func (s *JSONLStore) Load(_ context.Context, gameID string) ([]Envelope, error) {
	f, err := os.Open(s.path(gameID))
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	var out []Envelope
	dec := json.NewDecoder(f)
	for {
		var env Envelope
		if err := dec.Decode(&env); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode event log line %d: %w", len(out)+1, err)
		}
		out = append(out, env)
	}
	return out, nil
}

func (s *JSONLStore) ListGames(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), jsonlSuffix) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), jsonlSuffix)
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for id, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.files, id)
	}
	return firstErr
}
