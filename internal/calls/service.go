package calls

import (
	"context"
	"fmt"
	"time"

	"assistant-platform/internal/schedules"

	"github.com/google/uuid"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// Service owns the call record lifecycle and analytics. A call is born from
// a schedule (which it moves to in-progress), accumulates log entries while
// live, and is finalized by Complete or Fail; after that only Correct may
// touch it.
type Service struct {
	repo      Repository
	schedules *schedules.Service
	clock     func() time.Time
}

func NewService(repo Repository, ssvc *schedules.Service) *Service {
	return &Service{repo: repo, schedules: ssvc, clock: time.Now}
}

// Start begins the call for a schedule. The schedule moves to in-progress
// first; if that transition is illegal (already running, cancelled, done)
// no call record is created.
func (s *Service) Start(ctx context.Context, scheduleID string) (Call, error) {
	if scheduleID == "" {
		return Call{}, ErrInvalidArgument
	}
	sch, err := s.schedules.Transition(ctx, scheduleID, schedules.StatusInProgress)
	if err != nil {
		return Call{}, err
	}

	now := s.clock().UTC()
	c := Call{
		ID:          uuid.NewString(),
		ScheduleID:  sch.ID,
		AssistantID: sch.AssistantID,
		ClientID:    sch.ClientID,
		StartTime:   now,
		Status:      StatusInProgress,
		Logs:        []LogEntry{},
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.repo.Create(ctx, c)
}

// AppendLog adds a transcript entry to a live call and refreshes the
// incremental metrics.
func (s *Service) AppendLog(ctx context.Context, id string, entry LogEntry) (Call, error) {
	if id == "" || entry.Message == "" {
		return Call{}, ErrInvalidArgument
	}
	switch entry.Speaker {
	case SpeakerAssistant, SpeakerClient, SpeakerSystem:
	default:
		return Call{}, fmt.Errorf("%w: speaker %q", ErrInvalidArgument, entry.Speaker)
	}
	if entry.Type == "" {
		entry.Type = "message"
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.clock().UTC()
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Call{}, err
	}
	if c.Status != StatusInProgress {
		return Call{}, ErrCallFinished
	}

	m := c.Metrics
	m.TotalMessages++
	switch entry.Speaker {
	case SpeakerAssistant:
		m.AssistantMessages++
	case SpeakerClient:
		m.ClientMessages++
	}
	return s.repo.AppendLog(ctx, id, entry, m)
}

// Complete finalizes a live call and moves its schedule to completed.
func (s *Service) Complete(ctx context.Context, id, summary string) (Call, error) {
	return s.finish(ctx, id, StatusCompleted, summary, schedules.StatusCompleted)
}

// Fail finalizes a live call as failed; the schedule is cancelled since the
// planned call will not happen as intended.
func (s *Service) Fail(ctx context.Context, id, summary string) (Call, error) {
	return s.finish(ctx, id, StatusFailed, summary, schedules.StatusCancelled)
}

func (s *Service) finish(ctx context.Context, id string, status Status, summary string, scheduleTarget schedules.Status) (Call, error) {
	if id == "" {
		return Call{}, ErrInvalidArgument
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Call{}, err
	}
	if c.Status != StatusInProgress {
		return Call{}, ErrCallFinished
	}

	end := s.clock().UTC()
	duration := int(end.Sub(c.StartTime) / time.Second)
	if duration < 0 {
		duration = 0
	}

	c, err = s.repo.Finish(ctx, id, status, end, duration, summary)
	if err != nil {
		return Call{}, err
	}
	if c.ScheduleID != "" {
		if _, err := s.schedules.Transition(ctx, c.ScheduleID, scheduleTarget); err != nil {
			return Call{}, fmt.Errorf("call finalized but schedule %s: %w", c.ScheduleID, err)
		}
	}
	return c, nil
}

// Correct applies an administrative fix-up to a finished call.
func (s *Service) Correct(ctx context.Context, id string, upd Update) (Call, error) {
	if id == "" {
		return Call{}, ErrInvalidArgument
	}
	if upd.DurationSeconds != nil && *upd.DurationSeconds < 0 {
		return Call{}, ErrInvalidArgument
	}
	return s.repo.Correct(ctx, id, upd)
}

func (s *Service) FindAll(ctx context.Context) ([]Call, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) FindByID(ctx context.Context, id string) (Call, error) {
	if id == "" {
		return Call{}, ErrInvalidArgument
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) FindCompleted(ctx context.Context) ([]Call, error) {
	return s.repo.FindCompleted(ctx)
}

// FindRecent clamps limit into [1, 100], defaulting to 10.
func (s *Service) FindRecent(ctx context.Context, limit int) ([]Call, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.repo.FindRecent(ctx, limit)
}

func (s *Service) FindByAssistant(ctx context.Context, assistantID string) ([]Call, error) {
	if assistantID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.FindByAssistant(ctx, assistantID)
}

func (s *Service) FindByClient(ctx context.Context, clientID string) ([]Call, error) {
	if clientID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.FindByClient(ctx, clientID)
}

func (s *Service) Remove(ctx context.Context, id string) (Call, error) {
	if id == "" {
		return Call{}, ErrInvalidArgument
	}
	return s.repo.Remove(ctx, id)
}

// GetAnalytics aggregates over every completed call. Average is zero for an
// empty set; group counts fall back to "Unknown" for dangling references.
func (s *Service) GetAnalytics(ctx context.Context) (Analytics, error) {
	completed, err := s.repo.FindCompleted(ctx)
	if err != nil {
		return Analytics{}, err
	}

	out := Analytics{
		CallsByAssistant: map[string]int{},
		CallsByClient:    map[string]int{},
	}
	for _, c := range completed {
		out.TotalCalls++
		out.TotalDuration += c.DurationSeconds
		out.CallsByAssistant[nameOrUnknown(c.AssistantName)]++
		out.CallsByClient[nameOrUnknown(c.ClientName)]++
	}
	if out.TotalCalls > 0 {
		out.AverageDuration = float64(out.TotalDuration) / float64(out.TotalCalls)
	}
	return out, nil
}

func nameOrUnknown(name string) string {
	if name == "" {
		return unknownName
	}
	return name
}
