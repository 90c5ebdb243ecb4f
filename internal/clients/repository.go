package clients

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"assistant-platform/pkg/utils"
)

var (
	ErrNotFound        = errors.New("client not found")
	ErrEmailTaken      = errors.New("email already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Repository is the persistence contract for clients.
// Implementations must surface unique-email violations as ErrEmailTaken.
type Repository interface {
	Create(ctx context.Context, c Client) (Client, error)
	FindAll(ctx context.Context) ([]Client, error)
	FindByID(ctx context.Context, id string) (Client, error)
	FindByEmail(ctx context.Context, email string) (Client, error)
	Update(ctx context.Context, id string, upd Update) (Client, error)
	Remove(ctx context.Context, id string) (Client, error)
}

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const clientColumns = `id, name, email, phone, company, preferences, is_active, notes, created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (Client, error) {
	var c Client
	var prefs, notes []byte
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&prefs,
		&c.IsActive,
		&notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return Client{}, err
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &c.Preferences); err != nil {
			return Client{}, err
		}
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &c.Notes); err != nil {
			return Client{}, err
		}
	}
	if c.Preferences == nil {
		c.Preferences = map[string]any{}
	}
	if c.Notes == nil {
		c.Notes = []string{}
	}
	return c, nil
}

func (r *PostgresRepo) Create(ctx context.Context, c Client) (Client, error) {
	prefs, err := json.Marshal(c.Preferences)
	if err != nil {
		return Client{}, err
	}
	notes, err := json.Marshal(c.Notes)
	if err != nil {
		return Client{}, err
	}

	const q = `
INSERT INTO clients (id, name, email, phone, company, preferences, is_active, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING ` + clientColumns
	out, err := scanClient(r.db.QueryRowContext(ctx, q,
		c.ID, c.Name, c.Email, c.Phone, c.Company, prefs, c.IsActive, notes, c.CreatedAt, c.UpdatedAt,
	))
	if err != nil {
		if utils.IsUniqueViolation(err) {
			return Client{}, ErrEmailTaken
		}
		return Client{}, err
	}
	return out, nil
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	c, err := scanClient(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return c, nil
}

func (r *PostgresRepo) FindByEmail(ctx context.Context, email string) (Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`
	c, err := scanClient(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return c, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id string, upd Update) (Client, error) {
	var prefs, notes []byte
	var err error
	if upd.Preferences != nil {
		if prefs, err = json.Marshal(*upd.Preferences); err != nil {
			return Client{}, err
		}
	}
	if upd.Notes != nil {
		if notes, err = json.Marshal(*upd.Notes); err != nil {
			return Client{}, err
		}
	}

	const q = `
UPDATE clients
SET name        = COALESCE($2, name),
    email       = COALESCE($3, email),
    phone       = COALESCE($4, phone),
    company     = COALESCE($5, company),
    preferences = COALESCE($6, preferences),
    is_active   = COALESCE($7, is_active),
    notes       = COALESCE($8, notes),
    updated_at  = NOW()
WHERE id = $1
RETURNING ` + clientColumns
	c, err := scanClient(r.db.QueryRowContext(ctx, q,
		id, upd.Name, upd.Email, upd.Phone, upd.Company, prefs, upd.IsActive, notes,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		if utils.IsUniqueViolation(err) {
			return Client{}, ErrEmailTaken
		}
		return Client{}, err
	}
	return c, nil
}

func (r *PostgresRepo) Remove(ctx context.Context, id string) (Client, error) {
	const q = `DELETE FROM clients WHERE id = $1 RETURNING ` + clientColumns
	c, err := scanClient(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return c, nil
}
