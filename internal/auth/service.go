package auth

import (
	"context"
	"errors"
	"time"

	"assistant-platform/internal/users"
	"assistant-platform/pkg/password"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is the login/registration result: a signed bearer token plus the
// sanitized identity (the password hash never serializes).
type Session struct {
	AccessToken string     `json:"access_token"`
	User        users.User `json:"user"`
}

// Service implements the credential flows on top of the user store and the
// token manager.
type Service struct {
	users  *users.Service
	tokens *Manager
	clock  func() time.Time
}

func NewService(userSvc *users.Service, tokens *Manager) *Service {
	return &Service{users: userSvc, tokens: tokens, clock: time.Now}
}

func (s *Service) Login(ctx context.Context, email, plaintext string) (Session, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := password.Verify(plaintext, u.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	return s.issueSession(u)
}

// Register creates the account and behaves like an immediate login.
// Duplicate emails surface as users.ErrEmailTaken.
func (s *Service) Register(ctx context.Context, req users.CreateRequest) (Session, error) {
	u, err := s.users.Create(ctx, req)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(u)
}

// VerifyToken validates a presented token and resolves the current user
// record behind it. A valid token whose user row has since been removed is
// rejected.
func (s *Service) VerifyToken(ctx context.Context, token string) (users.User, error) {
	claims, err := s.tokens.Verify(token, s.clock())
	if err != nil {
		return users.User{}, err
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return users.User{}, ErrTokenInvalid
		}
		return users.User{}, err
	}
	return u, nil
}

func (s *Service) issueSession(u users.User) (Session, error) {
	tok, err := s.tokens.Issue(s.clock().UTC(), u)
	if err != nil {
		return Session{}, err
	}
	return Session{AccessToken: tok, User: u}, nil
}
