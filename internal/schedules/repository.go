package schedules

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("schedule not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Repository is the persistence contract for schedules.
// Reads resolve assistant/client display names (populate); lists sort by
// scheduled_at descending.
type Repository interface {
	Create(ctx context.Context, s Schedule) (Schedule, error)
	FindAll(ctx context.Context) ([]Schedule, error)
	FindByID(ctx context.Context, id string) (Schedule, error)
	FindByStatus(ctx context.Context, status Status) ([]Schedule, error)
	FindUpcoming(ctx context.Context, now time.Time) ([]Schedule, error)
	Update(ctx context.Context, id string, upd Update) (Schedule, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Schedule, error)
	Remove(ctx context.Context, id string) (Schedule, error)
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

// Joined select resolving display names; dangling references yield empty
// names rather than errors (no FK constraints, matching the document-store
// heritage of this data model).
const scheduleSelect = `
SELECT s.id, s.assistant_id, s.client_id,
       COALESCE(a.name, ''), COALESCE(c.name, ''),
       s.scheduled_at, s.duration_minutes, s.status, s.notes, s.call_settings,
       COALESCE(s.created_by, ''), s.created_at, s.updated_at
FROM schedules s
LEFT JOIN assistants a ON a.id = s.assistant_id
LEFT JOIN clients c ON c.id = s.client_id
`

func scanSchedule(row interface{ Scan(...any) error }) (Schedule, error) {
	var s Schedule
	var settings []byte
	err := row.Scan(
		&s.ID,
		&s.AssistantID,
		&s.ClientID,
		&s.AssistantName,
		&s.ClientName,
		&s.ScheduledAt,
		&s.DurationMinutes,
		&s.Status,
		&s.Notes,
		&settings,
		&s.CreatedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return Schedule{}, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &s.CallSettings); err != nil {
			return Schedule{}, err
		}
	}
	if s.CallSettings == nil {
		s.CallSettings = map[string]any{}
	}
	return s, nil
}

func (r *PostgresRepo) Create(ctx context.Context, s Schedule) (Schedule, error) {
	settings, err := json.Marshal(s.CallSettings)
	if err != nil {
		return Schedule{}, err
	}

	const q = `
INSERT INTO schedules (id, assistant_id, client_id, scheduled_at, duration_minutes, status, notes, call_settings, created_by, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`
	if _, err := r.db.ExecContext(ctx, q,
		s.ID, s.AssistantID, s.ClientID, s.ScheduledAt, s.DurationMinutes, s.Status, s.Notes, settings, nullIfEmpty(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	); err != nil {
		return Schedule{}, err
	}
	return r.FindByID(ctx, s.ID)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Schedule, error) {
	return r.queryMany(ctx, scheduleSelect+`ORDER BY s.scheduled_at DESC`)
}

func (r *PostgresRepo) FindByStatus(ctx context.Context, status Status) ([]Schedule, error) {
	return r.queryMany(ctx, scheduleSelect+`WHERE s.status = $1 ORDER BY s.scheduled_at DESC`, status)
}

func (r *PostgresRepo) FindUpcoming(ctx context.Context, now time.Time) ([]Schedule, error) {
	return r.queryMany(ctx, scheduleSelect+`WHERE s.scheduled_at >= $1 AND s.status = $2 ORDER BY s.scheduled_at DESC`, now, StatusScheduled)
}

func (r *PostgresRepo) queryMany(ctx context.Context, q string, args ...any) ([]Schedule, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (Schedule, error) {
	s, err := scanSchedule(r.db.QueryRowContext(ctx, scheduleSelect+`WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Schedule{}, ErrNotFound
		}
		return Schedule{}, err
	}
	return s, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id string, upd Update) (Schedule, error) {
	var settings []byte
	var err error
	if upd.CallSettings != nil {
		if settings, err = json.Marshal(*upd.CallSettings); err != nil {
			return Schedule{}, err
		}
	}

	const q = `
UPDATE schedules
SET scheduled_at     = COALESCE($2, scheduled_at),
    duration_minutes = COALESCE($3, duration_minutes),
    notes            = COALESCE($4, notes),
    call_settings    = COALESCE($5, call_settings),
    updated_at       = NOW()
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, id, upd.ScheduledAt, upd.DurationMinutes, upd.Notes, settings)
	if err != nil {
		return Schedule{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Schedule{}, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id string, status Status) (Schedule, error) {
	const q = `UPDATE schedules SET status = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, status)
	if err != nil {
		return Schedule{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Schedule{}, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresRepo) Remove(ctx context.Context, id string) (Schedule, error) {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id); err != nil {
		return Schedule{}, err
	}
	return s, nil
}
