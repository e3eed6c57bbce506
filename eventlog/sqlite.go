package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/domjancik/damage-game/damage"
)

// SQLiteStore persists event streams in a local SQLite database. A single
// connection with WAL keeps concurrent table writers from tripping over the
// file lock.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteEventSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Append(ctx context.Context, env Envelope) error {
	if ctx == nil {
		ctx = context.Background()
	}
	payload := string(env.Payload)
	if payload == "" {
		payload = "null"
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO game_events (
    schema_version, game_id, seq, event_type, turn, phase, payload_json, ts_ms, created_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (game_id, seq) DO NOTHING
`, env.SchemaVersion, env.GameID, env.Seq, string(env.Type), env.Turn, env.Phase.String(),
		payload, env.TS.UTC().UnixMilli(), time.Now().UTC().UnixMilli())
	return err
}

func (s *SQLiteStore) Load(ctx context.Context, gameID string) ([]Envelope, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT schema_version, seq, event_type, turn, phase, payload_json, ts_ms
FROM game_events
WHERE game_id = ?
ORDER BY seq ASC
`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEnvelopes(rows, gameID)
}

func (s *SQLiteStore) ListGames(ctx context.Context, prefix string) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT DISTINCT game_id
FROM game_events
ORDER BY game_id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGameIDs(rows, prefix)
}

// rowScanner is the overlap of database/sql and pgx result sets, enough for
// the shared envelope loader.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanGameIDs filters a DISTINCT game_id result set by prefix in Go rather
// than SQL LIKE, since "_" in IDs like "game_" is a LIKE wildcard.
func scanGameIDs(rows rowScanner, prefix string) ([]string, error) {
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	return out, rows.Err()
}

// scanEnvelopes is shared by the SQLite and Postgres loaders; both select the
// same columns in the same order.
func scanEnvelopes(rows rowScanner, gameID string) ([]Envelope, error) {
	var out []Envelope
	for rows.Next() {
		var env Envelope
		var eventType, phaseName, payload string
		var tsMs int64
		if err := rows.Scan(&env.SchemaVersion, &env.Seq, &eventType, &env.Turn, &phaseName, &payload, &tsMs); err != nil {
			return nil, err
		}
		env.GameID = gameID
		env.Type = damage.EventType(eventType)
		phase, err := damage.ParsePhase(phaseName)
		if err != nil {
			return nil, fmt.Errorf("game %s seq %d: %w", gameID, env.Seq, err)
		}
		env.Phase = phase
		env.TS = time.UnixMilli(tsMs).UTC()
		env.Payload = []byte(payload)
		out = append(out, env)
	}
	return out, rows.Err()
}

func ensureSQLiteEventSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS game_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    schema_version TEXT NOT NULL DEFAULT '',
    game_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    event_type TEXT NOT NULL,
    turn INTEGER NOT NULL DEFAULT 0,
    phase TEXT NOT NULL DEFAULT '',
    payload_json TEXT NOT NULL DEFAULT 'null',
    ts_ms INTEGER NOT NULL,
    created_at_ms INTEGER NOT NULL,
    UNIQUE (game_id, seq)
)`,
		`CREATE INDEX IF NOT EXISTS idx_game_events_game_seq ON game_events(game_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_game_events_created_at ON game_events(created_at_ms)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
