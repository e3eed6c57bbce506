package eventlog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists event streams in Postgres for multi-process
// deployments. The schema is created on first connect.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if err := ensurePostgresEventSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, env Envelope) error {
	if ctx == nil {
		ctx = context.Background()
	}
	payload := string(env.Payload)
	if payload == "" {
		payload = "null"
	}
	_, err := s.pool.Exec(ctx, `
INSERT INTO game_events (
    schema_version, game_id, seq, event_type, turn, phase, payload_json, ts_ms, created_at_ms
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (game_id, seq) DO NOTHING
`, env.SchemaVersion, env.GameID, env.Seq, string(env.Type), env.Turn, env.Phase.String(),
		payload, env.TS.UTC().UnixMilli(), time.Now().UTC().UnixMilli())
	return err
}

func (s *PostgresStore) Load(ctx context.Context, gameID string) ([]Envelope, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.pool.Query(ctx, `
SELECT schema_version, seq, event_type, turn, phase, payload_json, ts_ms
FROM game_events
WHERE game_id = $1
ORDER BY seq ASC
`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEnvelopes(rows, gameID)
}

func (s *PostgresStore) ListGames(ctx context.Context, prefix string) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.pool.Query(ctx, `
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

func ensurePostgresEventSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS game_events (
    id BIGSERIAL PRIMARY KEY,
    schema_version TEXT NOT NULL DEFAULT '',
    game_id TEXT NOT NULL,
    seq BIGINT NOT NULL,
    event_type TEXT NOT NULL,
    turn INTEGER NOT NULL DEFAULT 0,
    phase TEXT NOT NULL DEFAULT '',
    payload_json JSONB NOT NULL DEFAULT 'null',
    ts_ms BIGINT NOT NULL,
    created_at_ms BIGINT NOT NULL,
    UNIQUE (game_id, seq)
)`,
		`CREATE INDEX IF NOT EXISTS idx_game_events_game_seq ON game_events(game_id, seq)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
