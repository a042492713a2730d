// Package postgres implements the ledger store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB and implements the domain repository ports.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS config (key TEXT PRIMARY KEY, value TEXT NOT NULL);",
		"CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY, name TEXT UNIQUE NOT NULL, start_weight DOUBLE PRECISION NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS weigh_ins (id BIGSERIAL PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id), week_start TEXT NOT NULL, weight DOUBLE PRECISION NOT NULL, created_at TIMESTAMPTZ NOT NULL, UNIQUE(user_id, week_start));",
		"CREATE INDEX IF NOT EXISTS idx_weigh_ins_user_id ON weigh_ins(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_weigh_ins_week_start ON weigh_ins(week_start);",
		"CREATE TABLE IF NOT EXISTS pot_contributions (week_start TEXT PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id), amount NUMERIC(10,2) NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS audit_log (id UUID PRIMARY KEY, entity TEXT NOT NULL, entity_id BIGINT NOT NULL, old_value TEXT, new_value TEXT, changed_by TEXT NOT NULL, changed_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity, entity_id);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
