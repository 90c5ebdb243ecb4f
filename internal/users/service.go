package users

import (
	"context"
	"strings"
	"time"

	"assistant-platform/pkg/password"

	"github.com/google/uuid"
)

// Service owns user lifecycle rules: email normalization, password hashing,
// role defaulting. Handlers and the auth flow go through here, never straight
// to the repository.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (User, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return User{}, ErrInvalidArgument
	}
	if req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return User{}, ErrInvalidArgument
	}
	role := req.Role
	if role == "" {
		role = RoleUser
	}
	if !IsValidRole(role) {
		return User{}, ErrInvalidArgument
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return User{}, err
	}

	now := s.clock().UTC()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.repo.Create(ctx, u)
}

func (s *Service) FindAll(ctx context.Context) ([]User, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) FindByID(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, ErrInvalidArgument
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.FindByEmail(ctx, NormalizeEmail(email))
}

func (s *Service) Update(ctx context.Context, id string, upd Update) (User, error) {
	if id == "" {
		return User{}, ErrInvalidArgument
	}
	if upd.Role != nil && !IsValidRole(*upd.Role) {
		return User{}, ErrInvalidArgument
	}

	var hash *string
	if upd.Password != nil {
		if *upd.Password == "" {
			return User{}, ErrInvalidArgument
		}
		h, err := password.Hash(*upd.Password)
		if err != nil {
			return User{}, err
		}
		hash = &h
	}
	return s.repo.Update(ctx, id, upd, hash)
}

func (s *Service) Remove(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, ErrInvalidArgument
	}
	return s.repo.Remove(ctx, id)
}
