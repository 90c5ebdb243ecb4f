package schedules

import (
	"context"
	"fmt"
	"time"

	"assistant-platform/internal/assistants"
	"assistant-platform/internal/clients"

	"github.com/google/uuid"
)

// Service owns the schedule lifecycle. Creation verifies that both referenced
// records exist; status changes go through Transition which enforces the
// state machine.
type Service struct {
	repo       Repository
	assistants *assistants.Service
	clients    *clients.Service
	clock      func() time.Time
}

func NewService(repo Repository, asvc *assistants.Service, csvc *clients.Service) *Service {
	return &Service{repo: repo, assistants: asvc, clients: csvc, clock: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Schedule, error) {
	return s.CreateBy(ctx, req, "")
}

// CreateBy records the acting user on the schedule.
func (s *Service) CreateBy(ctx context.Context, req CreateRequest, userID string) (Schedule, error) {
	if req.AssistantID == "" || req.ClientID == "" {
		return Schedule{}, ErrInvalidArgument
	}
	if req.ScheduledAt.IsZero() || req.DurationMinutes <= 0 {
		return Schedule{}, ErrInvalidArgument
	}

	if _, err := s.assistants.FindByID(ctx, req.AssistantID); err != nil {
		return Schedule{}, fmt.Errorf("assistant %s: %w", req.AssistantID, err)
	}
	if _, err := s.clients.FindByID(ctx, req.ClientID); err != nil {
		return Schedule{}, fmt.Errorf("client %s: %w", req.ClientID, err)
	}

	settings := req.CallSettings
	if settings == nil {
		settings = map[string]any{}
	}

	now := s.clock().UTC()
	sch := Schedule{
		ID:              uuid.NewString(),
		AssistantID:     req.AssistantID,
		ClientID:        req.ClientID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Status:          StatusScheduled,
		Notes:           req.Notes,
		CallSettings:    settings,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.repo.Create(ctx, sch)
}

func (s *Service) FindAll(ctx context.Context) ([]Schedule, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) FindByID(ctx context.Context, id string) (Schedule, error) {
	if id == "" {
		return Schedule{}, ErrInvalidArgument
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) FindByStatus(ctx context.Context, status Status) ([]Schedule, error) {
	if !IsValidStatus(status) {
		return nil, ErrInvalidArgument
	}
	return s.repo.FindByStatus(ctx, status)
}

func (s *Service) FindUpcoming(ctx context.Context) ([]Schedule, error) {
	return s.repo.FindUpcoming(ctx, s.clock().UTC())
}

func (s *Service) Update(ctx context.Context, id string, upd Update) (Schedule, error) {
	if id == "" {
		return Schedule{}, ErrInvalidArgument
	}
	if upd.DurationMinutes != nil && *upd.DurationMinutes <= 0 {
		return Schedule{}, ErrInvalidArgument
	}
	return s.repo.Update(ctx, id, upd)
}

// Transition moves a schedule to target, enforcing the lifecycle rules.
// Invalid moves, including any attempt to leave a terminal state, return
// ErrInvalidTransition wrapped with both states for the caller's message.
func (s *Service) Transition(ctx context.Context, id string, target Status) (Schedule, error) {
	if id == "" || !IsValidStatus(target) {
		return Schedule{}, ErrInvalidArgument
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	if !CanTransition(current.Status, target) {
		return Schedule{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, target)
	}
	return s.repo.UpdateStatus(ctx, id, target)
}

func (s *Service) Cancel(ctx context.Context, id string) (Schedule, error) {
	return s.Transition(ctx, id, StatusCancelled)
}

func (s *Service) Remove(ctx context.Context, id string) (Schedule, error) {
	if id == "" {
		return Schedule{}, ErrInvalidArgument
	}
	return s.repo.Remove(ctx, id)
}
