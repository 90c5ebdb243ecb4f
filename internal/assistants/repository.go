package assistants

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

var (
	ErrNotFound        = errors.New("assistant not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Repository is the persistence contract for assistants.
type Repository interface {
	Create(ctx context.Context, a Assistant) (Assistant, error)
	FindAll(ctx context.Context) ([]Assistant, error)
	FindActive(ctx context.Context) ([]Assistant, error)
	FindByID(ctx context.Context, id string) (Assistant, error)
	Update(ctx context.Context, id string, upd Update) (Assistant, error)
	Remove(ctx context.Context, id string) (Assistant, error)
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const assistantColumns = `id, name, description, voice_type, language, is_active, ai_config, specializations, created_at, updated_at`

func scanAssistant(row interface{ Scan(...any) error }) (Assistant, error) {
	var a Assistant
	var cfg, specs []byte
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.VoiceType,
		&a.Language,
		&a.IsActive,
		&cfg,
		&specs,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return Assistant{}, err
	}
	if err := unmarshalJSONB(cfg, &a.AIConfig); err != nil {
		return Assistant{}, err
	}
	if err := unmarshalJSONB(specs, &a.Specializations); err != nil {
		return Assistant{}, err
	}
	if a.AIConfig == nil {
		a.AIConfig = map[string]any{}
	}
	if a.Specializations == nil {
		a.Specializations = []string{}
	}
	return a, nil
}

func unmarshalJSONB(b []byte, dst any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}

func marshalJSONB(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (r *PostgresRepo) Create(ctx context.Context, a Assistant) (Assistant, error) {
	cfg, err := marshalJSONB(a.AIConfig)
	if err != nil {
		return Assistant{}, err
	}
	specs, err := marshalJSONB(a.Specializations)
	if err != nil {
		return Assistant{}, err
	}

	const q = `
INSERT INTO assistants (id, name, description, voice_type, language, is_active, ai_config, specializations, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING ` + assistantColumns
	return scanAssistant(r.db.QueryRowContext(ctx, q,
		a.ID, a.Name, a.Description, a.VoiceType, a.Language, a.IsActive, cfg, specs, a.CreatedAt, a.UpdatedAt,
	))
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Assistant, error) {
	const q = `SELECT ` + assistantColumns + ` FROM assistants ORDER BY created_at DESC`
	return r.queryMany(ctx, q)
}

func (r *PostgresRepo) FindActive(ctx context.Context) ([]Assistant, error) {
	const q = `SELECT ` + assistantColumns + ` FROM assistants WHERE is_active = TRUE ORDER BY created_at DESC`
	return r.queryMany(ctx, q)
}

func (r *PostgresRepo) queryMany(ctx context.Context, q string, args ...any) ([]Assistant, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Assistant, 0)
	for rows.Next() {
		a, err := scanAssistant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (Assistant, error) {
	const q = `SELECT ` + assistantColumns + ` FROM assistants WHERE id = $1`
	a, err := scanAssistant(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assistant{}, ErrNotFound
		}
		return Assistant{}, err
	}
	return a, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id string, upd Update) (Assistant, error) {
	var cfg, specs []byte
	var err error
	if upd.AIConfig != nil {
		if cfg, err = marshalJSONB(*upd.AIConfig); err != nil {
			return Assistant{}, err
		}
	}
	if upd.Specializations != nil {
		if specs, err = marshalJSONB(*upd.Specializations); err != nil {
			return Assistant{}, err
		}
	}

	const q = `
UPDATE assistants
SET name            = COALESCE($2, name),
    description     = COALESCE($3, description),
    voice_type      = COALESCE($4, voice_type),
    language        = COALESCE($5, language),
    is_active       = COALESCE($6, is_active),
    ai_config       = COALESCE($7, ai_config),
    specializations = COALESCE($8, specializations),
    updated_at      = NOW()
WHERE id = $1
RETURNING ` + assistantColumns
	a, err := scanAssistant(r.db.QueryRowContext(ctx, q,
		id, upd.Name, upd.Description, upd.VoiceType, upd.Language, upd.IsActive, cfg, specs,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assistant{}, ErrNotFound
		}
		return Assistant{}, err
	}
	return a, nil
}

func (r *PostgresRepo) Remove(ctx context.Context, id string) (Assistant, error) {
	const q = `DELETE FROM assistants WHERE id = $1 RETURNING ` + assistantColumns
	a, err := scanAssistant(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assistant{}, ErrNotFound
		}
		return Assistant{}, err
	}
	return a, nil
}
