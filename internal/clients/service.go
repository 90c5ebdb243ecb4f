package clients

import (
	"context"
	"strings"
	"time"

	"assistant-platform/internal/users"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Client, error) {
	email := users.NormalizeEmail(req.Email)
	if strings.TrimSpace(req.Name) == "" || email == "" || !strings.Contains(email, "@") {
		return Client{}, ErrInvalidArgument
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	prefs := req.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	notes := req.Notes
	if notes == nil {
		notes = []string{}
	}

	now := s.clock().UTC()
	c := Client{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		Phone:       req.Phone,
		Company:     req.Company,
		Preferences: prefs,
		IsActive:    active,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) FindAll(ctx context.Context) ([]Client, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) FindByID(ctx context.Context, id string) (Client, error) {
	if id == "" {
		return Client{}, ErrInvalidArgument
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (Client, error) {
	return s.repo.FindByEmail(ctx, users.NormalizeEmail(email))
}

func (s *Service) Update(ctx context.Context, id string, upd Update) (Client, error) {
	if id == "" {
		return Client{}, ErrInvalidArgument
	}
	if upd.Email != nil {
		normalized := users.NormalizeEmail(*upd.Email)
		if normalized == "" || !strings.Contains(normalized, "@") {
			return Client{}, ErrInvalidArgument
		}
		upd.Email = &normalized
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *Service) Remove(ctx context.Context, id string) (Client, error) {
	if id == "" {
		return Client{}, ErrInvalidArgument
	}
	return s.repo.Remove(ctx, id)
}
