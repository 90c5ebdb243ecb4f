// Package migrate brings the database schema up to date at process start.
// Every statement is idempotent (IF NOT EXISTS), so running the full set on
// every boot is safe; "already exists" is success, not failure.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Step is one named schema statement.
type Step struct {
	Name string
	SQL  string
}

// Steps returns the full schema, tables first, then the indexes backing the
// common filtered queries (status, references, time windows) and the
// compound indexes for the two-field lookups.
func Steps() []Step {
	return []Step{
		{"users table", `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user',
    is_active     BOOLEAN NOT NULL DEFAULT TRUE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
		{"assistants table", `
CREATE TABLE IF NOT EXISTS assistants (
    id              UUID PRIMARY KEY,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    voice_type      TEXT NOT NULL DEFAULT '',
    language        TEXT NOT NULL DEFAULT 'en-US',
    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
    ai_config       JSONB NOT NULL DEFAULT '{}'::jsonb,
    specializations JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
		{"clients table", `
CREATE TABLE IF NOT EXISTS clients (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL,
    email       TEXT NOT NULL UNIQUE,
    phone       TEXT NOT NULL DEFAULT '',
    company     TEXT NOT NULL DEFAULT '',
    preferences JSONB NOT NULL DEFAULT '{}'::jsonb,
    is_active   BOOLEAN NOT NULL DEFAULT TRUE,
    notes       JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
		{"schedules table", `
CREATE TABLE IF NOT EXISTS schedules (
    id               UUID PRIMARY KEY,
    assistant_id     UUID NOT NULL,
    client_id        UUID NOT NULL,
    scheduled_at     TIMESTAMPTZ NOT NULL,
    duration_minutes INT NOT NULL,
    status           TEXT NOT NULL DEFAULT 'scheduled',
    notes            TEXT NOT NULL DEFAULT '',
    call_settings    JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_by       UUID,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
		{"calls table", `
CREATE TABLE IF NOT EXISTS calls (
    id               UUID PRIMARY KEY,
    schedule_id      UUID,
    assistant_id     UUID NOT NULL,
    client_id        UUID NOT NULL,
    start_time       TIMESTAMPTZ NOT NULL,
    end_time         TIMESTAMPTZ,
    duration_seconds INT NOT NULL DEFAULT 0,
    status           TEXT NOT NULL DEFAULT 'in-progress',
    logs             JSONB NOT NULL DEFAULT '[]'::jsonb,
    metrics          JSONB NOT NULL DEFAULT '{}'::jsonb,
    summary          TEXT NOT NULL DEFAULT '',
    tags             JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
		{"activity table", `
CREATE TABLE IF NOT EXISTS activity_events (
    id            UUID PRIMARY KEY,
    action        TEXT NOT NULL,
    actor_user_id TEXT NOT NULL DEFAULT '',
    actor_role    TEXT NOT NULL DEFAULT '',
    ip_address    TEXT NOT NULL DEFAULT '',
    entity_type   TEXT NOT NULL DEFAULT '',
    entity_id     TEXT NOT NULL DEFAULT '',
    message       TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
		{"schedules time index", `CREATE INDEX IF NOT EXISTS idx_schedules_scheduled_at ON schedules (scheduled_at)`},
		{"schedules status+time index", `CREATE INDEX IF NOT EXISTS idx_schedules_status_time ON schedules (status, scheduled_at)`},
		{"schedules assistant+time index", `CREATE INDEX IF NOT EXISTS idx_schedules_assistant_time ON schedules (assistant_id, scheduled_at)`},
		{"schedules client+time index", `CREATE INDEX IF NOT EXISTS idx_schedules_client_time ON schedules (client_id, scheduled_at)`},
		{"calls time index", `CREATE INDEX IF NOT EXISTS idx_calls_start_time ON calls (start_time)`},
		{"calls status+time index", `CREATE INDEX IF NOT EXISTS idx_calls_status_time ON calls (status, start_time)`},
		{"calls assistant+time index", `CREATE INDEX IF NOT EXISTS idx_calls_assistant_time ON calls (assistant_id, start_time)`},
		{"calls client+time index", `CREATE INDEX IF NOT EXISTS idx_calls_client_time ON calls (client_id, start_time)`},
		{"calls schedule+time index", `CREATE INDEX IF NOT EXISTS idx_calls_schedule_time ON calls (schedule_id, start_time)`},
		{"activity time index", `CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity_events (created_at)`},
	}
}

// Run applies every step in order, logging each one.
func Run(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	for _, step := range Steps() {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return fmt.Errorf("migrate %s: %w", step.Name, err)
		}
		if log != nil {
			log.Debug("schema step applied", "step", step.Name)
		}
	}
	if log != nil {
		log.Info("schema up to date", "steps", len(Steps()))
	}
	return nil
}

// Status reports which of the expected tables exist.
func Status(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	tables := []string{"users", "assistants", "clients", "schedules", "calls", "activity_events"}
	out := make(map[string]bool, len(tables))
	for _, table := range tables {
		var exists bool
		const q = `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`
		if err := db.QueryRowContext(ctx, q, table).Scan(&exists); err != nil {
			return nil, fmt.Errorf("migrate status %s: %w", table, err)
		}
		out[table] = exists
	}
	return out, nil
}
