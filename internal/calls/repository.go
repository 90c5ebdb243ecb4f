package calls

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("call not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrCallFinished    = errors.New("call already finished")
)

type Repository interface {
	Create(ctx context.Context, c Call) (Call, error)
	FindAll(ctx context.Context) ([]Call, error)
	FindByID(ctx context.Context, id string) (Call, error)
	FindCompleted(ctx context.Context) ([]Call, error)
	FindRecent(ctx context.Context, limit int) ([]Call, error)
	FindByAssistant(ctx context.Context, assistantID string) ([]Call, error)
	FindByClient(ctx context.Context, clientID string) ([]Call, error)
	AppendLog(ctx context.Context, id string, entry LogEntry, metrics CallMetrics) (Call, error)
	Finish(ctx context.Context, id string, status Status, endTime time.Time, durationSeconds int, summary string) (Call, error)
	Correct(ctx context.Context, id string, upd Update) (Call, error)
	Remove(ctx context.Context, id string) (Call, error)
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

// Dangling assistant/client references scan as empty names; the analytics
// layer maps those to "Unknown".
const callSelect = `
SELECT k.id, COALESCE(k.schedule_id::text, ''), k.assistant_id, k.client_id,
       COALESCE(a.name, ''), COALESCE(c.name, ''),
       k.start_time, k.end_time, k.duration_seconds, k.status,
       k.logs, k.metrics, k.summary, k.tags,
       k.created_at, k.updated_at
FROM calls k
LEFT JOIN assistants a ON a.id = k.assistant_id
LEFT JOIN clients c ON c.id = k.client_id
`

func scanCall(row interface{ Scan(...any) error }) (Call, error) {
	var c Call
	var logs, metrics, tags []byte
	err := row.Scan(
		&c.ID,
		&c.ScheduleID,
		&c.AssistantID,
		&c.ClientID,
		&c.AssistantName,
		&c.ClientName,
		&c.StartTime,
		&c.EndTime,
		&c.DurationSeconds,
		&c.Status,
		&logs,
		&metrics,
		&c.Summary,
		&tags,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return Call{}, err
	}
	if len(logs) > 0 {
		if err := json.Unmarshal(logs, &c.Logs); err != nil {
			return Call{}, err
		}
	}
	if len(metrics) > 0 {
		if err := json.Unmarshal(metrics, &c.Metrics); err != nil {
			return Call{}, err
		}
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &c.Tags); err != nil {
			return Call{}, err
		}
	}
	if c.Logs == nil {
		c.Logs = []LogEntry{}
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c, nil
}

func (r *PostgresRepo) Create(ctx context.Context, c Call) (Call, error) {
	logs, err := json.Marshal(c.Logs)
	if err != nil {
		return Call{}, err
	}
	metrics, err := json.Marshal(c.Metrics)
	if err != nil {
		return Call{}, err
	}
	tags, err := json.Marshal(c.Tags)
	if err != nil {
		return Call{}, err
	}

	const q = `
INSERT INTO calls (id, schedule_id, assistant_id, client_id, start_time, end_time, duration_seconds, status, logs, metrics, summary, tags, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`
	if _, err := r.db.ExecContext(ctx, q,
		c.ID, nullIfEmpty(c.ScheduleID), c.AssistantID, c.ClientID, c.StartTime, c.EndTime, c.DurationSeconds, c.Status, logs, metrics, c.Summary, tags, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return Call{}, err
	}
	return r.FindByID(ctx, c.ID)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Call, error) {
	return r.queryMany(ctx, callSelect+`ORDER BY k.start_time DESC`)
}

func (r *PostgresRepo) FindCompleted(ctx context.Context) ([]Call, error) {
	return r.queryMany(ctx, callSelect+`WHERE k.status = $1 ORDER BY k.start_time DESC`, StatusCompleted)
}

func (r *PostgresRepo) FindRecent(ctx context.Context, limit int) ([]Call, error) {
	return r.queryMany(ctx, callSelect+`ORDER BY k.start_time DESC LIMIT $1`, limit)
}

func (r *PostgresRepo) FindByAssistant(ctx context.Context, assistantID string) ([]Call, error) {
	return r.queryMany(ctx, callSelect+`WHERE k.assistant_id = $1 ORDER BY k.start_time DESC`, assistantID)
}

func (r *PostgresRepo) FindByClient(ctx context.Context, clientID string) ([]Call, error) {
	return r.queryMany(ctx, callSelect+`WHERE k.client_id = $1 ORDER BY k.start_time DESC`, clientID)
}

func (r *PostgresRepo) queryMany(ctx context.Context, q string, args ...any) ([]Call, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Call, 0)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (Call, error) {
	c, err := scanCall(r.db.QueryRowContext(ctx, callSelect+`WHERE k.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Call{}, ErrNotFound
		}
		return Call{}, err
	}
	return c, nil
}

func (r *PostgresRepo) AppendLog(ctx context.Context, id string, entry LogEntry, metrics CallMetrics) (Call, error) {
	entryJSON, err := json.Marshal([]LogEntry{entry})
	if err != nil {
		return Call{}, err
	}
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return Call{}, err
	}

	const q = `
UPDATE calls
SET logs = COALESCE(logs, '[]'::jsonb) || $2::jsonb,
    metrics = $3,
    updated_at = NOW()
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, id, entryJSON, metricsJSON)
	if err != nil {
		return Call{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Call{}, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresRepo) Finish(ctx context.Context, id string, status Status, endTime time.Time, durationSeconds int, summary string) (Call, error) {
	const q = `
UPDATE calls
SET status = $2, end_time = $3, duration_seconds = $4,
    summary = CASE WHEN $5 <> '' THEN $5 ELSE summary END,
    updated_at = NOW()
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, id, status, endTime, durationSeconds, summary)
	if err != nil {
		return Call{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Call{}, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresRepo) Correct(ctx context.Context, id string, upd Update) (Call, error) {
	var tags []byte
	var err error
	if upd.Tags != nil {
		if tags, err = json.Marshal(*upd.Tags); err != nil {
			return Call{}, err
		}
	}

	const q = `
UPDATE calls
SET summary          = COALESCE($2, summary),
    tags             = COALESCE($3, tags),
    duration_seconds = COALESCE($4, duration_seconds),
    updated_at       = NOW()
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q, id, upd.Summary, tags, upd.DurationSeconds)
	if err != nil {
		return Call{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Call{}, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresRepo) Remove(ctx context.Context, id string) (Call, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return Call{}, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM calls WHERE id = $1`, id); err != nil {
		return Call{}, err
	}
	return c, nil
}
