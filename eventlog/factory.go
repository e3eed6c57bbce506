package eventlog

import (
	"fmt"
	"os"
	"strings"
)

const (
	ModeJSONL    = "jsonl"
	ModeMemory   = "memory"
	ModeSQLite   = "sqlite"
	ModePostgres = "postgres"
)

const defaultEventDir = "runs"

func storeModeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("DAMAGE_EVENT_STORE")))
	switch raw {
	case "", ModeJSONL, "file":
		return ModeJSONL
	case ModeMemory, "mem":
		return ModeMemory
	case ModeSQLite, "db":
		return ModeSQLite
	case ModePostgres, "postgresql", "pg":
		return ModePostgres
	default:
		return raw
	}
}

// NewStoreFromEnv builds the store selected by DAMAGE_EVENT_STORE:
// jsonl (default, directory from DAMAGE_LOG_DIR), memory, sqlite
// (DAMAGE_EVENT_DB path) or postgres (DAMAGE_EVENT_DSN / DATABASE_URL).
func NewStoreFromEnv() (Store, string, error) {
	mode := storeModeFromEnv()

	switch mode {
	case ModeJSONL:
		dir := strings.TrimSpace(os.Getenv("DAMAGE_LOG_DIR"))
		if dir == "" {
			dir = defaultEventDir
		}
		store, err := NewJSONLStore(dir)
		return store, mode, err
	case ModeMemory:
		return NewMemoryStore(), mode, nil
	case ModeSQLite:
		path := strings.TrimSpace(os.Getenv("DAMAGE_EVENT_DB"))
		if path == "" {
			path = "damage_events.db"
		}
		store, err := NewSQLiteStore(path)
		return store, mode, err
	case ModePostgres:
		dsn := strings.TrimSpace(os.Getenv("DAMAGE_EVENT_DSN"))
		if dsn == "" {
			dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
		}
		store, err := NewPostgresStore(dsn)
		return store, mode, err
	default:
		return nil, mode, fmt.Errorf("invalid DAMAGE_EVENT_STORE %q (supported: %s, %s, %s, %s)",
			mode, ModeJSONL, ModeMemory, ModeSQLite, ModePostgres)
	}
}
