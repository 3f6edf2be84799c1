package persist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DB wraps the embedded SQLite save database.
type DB struct {
	SQL *sql.DB
	log *zap.Logger
}

// Open opens (or creates) the save database at path.
func Open(ctx context.Context, path string, log *zap.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open save db: %w", err)
	}
	// Single-writer simulation; one connection avoids SQLITE_BUSY entirely.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping save db: %w", err)
	}
	return &DB{SQL: db, log: log}, nil
}

func (db *DB) Close() error {
	return db.SQL.Close()
}
