package assistants

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Assistant, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.VoiceType) == "" {
		return Assistant{}, ErrInvalidArgument
	}

	lang := req.Language
	if lang == "" {
		lang = defaultLanguage
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	cfg := req.AIConfig
	if cfg == nil {
		cfg = map[string]any{}
	}
	specs := req.Specializations
	if specs == nil {
		specs = []string{}
	}

	now := s.clock().UTC()
	a := Assistant{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		VoiceType:       req.VoiceType,
		Language:        lang,
		IsActive:        active,
		AIConfig:        cfg,
		Specializations: specs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) FindAll(ctx context.Context) ([]Assistant, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) FindActive(ctx context.Context) ([]Assistant, error) {
	return s.repo.FindActive(ctx)
}

func (s *Service) FindByID(ctx context.Context, id string) (Assistant, error) {
	if id == "" {
		return Assistant{}, ErrInvalidArgument
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, upd Update) (Assistant, error) {
	if id == "" {
		return Assistant{}, ErrInvalidArgument
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *Service) Remove(ctx context.Context, id string) (Assistant, error) {
	if id == "" {
		return Assistant{}, ErrInvalidArgument
	}
	return s.repo.Remove(ctx, id)
}
