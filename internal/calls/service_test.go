package calls

import (
	"context"
	"errors"
	"testing"
	"time"

	"assistant-platform/internal/assistants"
	"assistant-platform/internal/clients"
	"assistant-platform/internal/schedules"
)

type fixture struct {
	calls     *Service
	schedules *schedules.Service
	repo      *MemoryRepo

	assistantID string
	clientID    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	asvc := assistants.NewService(assistants.NewMemoryRepo())
	csvc := clients.NewService(clients.NewMemoryRepo())

	a, err := asvc.Create(ctx, assistants.CreateRequest{Name: "A1", Description: "support", VoiceType: "en-US-Neural2-F"})
	if err != nil {
		t.Fatalf("seed assistant: %v", err)
	}
	c, err := csvc.Create(ctx, clients.CreateRequest{Name: "Bob", Email: "bob@x.com"})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}

	ssvc := schedules.NewService(schedules.NewMemoryRepo(), asvc, csvc)

	repo := NewMemoryRepo()
	repo.AssistantName = func(id string) string {
		if id == a.ID {
			return a.Name
		}
		return ""
	}
	repo.ClientName = func(id string) string {
		if id == c.ID {
			return c.Name
		}
		return ""
	}

	return &fixture{
		calls:       NewService(repo, ssvc),
		schedules:   ssvc,
		repo:        repo,
		assistantID: a.ID,
		clientID:    c.ID,
	}
}

func (f *fixture) newSchedule(t *testing.T) schedules.Schedule {
	t.Helper()
	sch, err := f.schedules.Create(context.Background(), schedules.CreateRequest{
		AssistantID:     f.assistantID,
		ClientID:        f.clientID,
		ScheduledAt:     time.Now().Add(time.Hour),
		DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	return sch
}

func TestStart_MovesScheduleInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sch := f.newSchedule(t)
	call, err := f.calls.Start(ctx, sch.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if call.Status != StatusInProgress {
		t.Fatalf("expected in-progress call, got %q", call.Status)
	}
	if call.AssistantID != f.assistantID || call.ClientID != f.clientID {
		t.Fatalf("call did not inherit schedule references")
	}

	got, err := f.schedules.FindByID(ctx, sch.ID)
	if err != nil {
		t.Fatalf("find schedule: %v", err)
	}
	if got.Status != schedules.StatusInProgress {
		t.Fatalf("expected schedule in-progress, got %q", got.Status)
	}
}

func TestStart_RejectsCancelledSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sch := f.newSchedule(t)
	if _, err := f.schedules.Cancel(ctx, sch.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.calls.Start(ctx, sch.ID); !errors.Is(err, schedules.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAppendLog_UpdatesMetrics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	call, err := f.calls.Start(ctx, f.newSchedule(t).ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := f.calls.AppendLog(ctx, call.ID, LogEntry{Speaker: SpeakerAssistant, Message: "hello"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := f.calls.AppendLog(ctx, call.ID, LogEntry{Speaker: SpeakerClient, Message: "hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := f.calls.AppendLog(ctx, call.ID, LogEntry{Speaker: SpeakerClient, Message: "I need to reschedule"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if len(got.Logs) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(got.Logs))
	}
	if got.Metrics.TotalMessages != 3 || got.Metrics.AssistantMessages != 1 || got.Metrics.ClientMessages != 2 {
		t.Fatalf("unexpected metrics: %+v", got.Metrics)
	}
	if got.Logs[0].Type != "message" || got.Logs[0].Timestamp.IsZero() {
		t.Fatalf("entry defaults not applied: %+v", got.Logs[0])
	}
}

func TestAppendLog_RejectsBadEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	call, err := f.calls.Start(ctx, f.newSchedule(t).ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := f.calls.AppendLog(ctx, call.ID, LogEntry{Speaker: "narrator", Message: "hm"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for bad speaker, got %v", err)
	}
	if _, err := f.calls.AppendLog(ctx, call.ID, LogEntry{Speaker: SpeakerClient}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty message, got %v", err)
	}
}

func TestComplete_ComputesDurationAndClosesSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sch := f.newSchedule(t)
	call, err := f.calls.Start(ctx, sch.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	f.calls.clock = func() time.Time { return call.StartTime.Add(150 * time.Second) }

	got, err := f.calls.Complete(ctx, call.ID, "resolved")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.Status != StatusCompleted || got.DurationSeconds != 150 || got.Summary != "resolved" {
		t.Fatalf("unexpected finished call: status=%q duration=%d summary=%q", got.Status, got.DurationSeconds, got.Summary)
	}
	if got.EndTime == nil {
		t.Fatalf("expected end time set")
	}

	s, err := f.schedules.FindByID(ctx, sch.ID)
	if err != nil {
		t.Fatalf("find schedule: %v", err)
	}
	if s.Status != schedules.StatusCompleted {
		t.Fatalf("expected schedule completed, got %q", s.Status)
	}

	// finished calls reject further lifecycle actions
	if _, err := f.calls.AppendLog(ctx, call.ID, LogEntry{Speaker: SpeakerClient, Message: "late"}); !errors.Is(err, ErrCallFinished) {
		t.Fatalf("expected ErrCallFinished on append, got %v", err)
	}
	if _, err := f.calls.Complete(ctx, call.ID, ""); !errors.Is(err, ErrCallFinished) {
		t.Fatalf("expected ErrCallFinished on repeat complete, got %v", err)
	}
}

func TestFail_CancelsSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sch := f.newSchedule(t)
	call, err := f.calls.Start(ctx, sch.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	got, err := f.calls.Fail(ctx, call.ID, "line dropped")
	if err != nil {
		t.Fatalf("fail: %v", err)
	}
	if got.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", got.Status)
	}

	s, err := f.schedules.FindByID(ctx, sch.ID)
	if err != nil {
		t.Fatalf("find schedule: %v", err)
	}
	if s.Status != schedules.StatusCancelled {
		t.Fatalf("expected schedule cancelled, got %q", s.Status)
	}
}

func TestGetAnalytics_EmptySet(t *testing.T) {
	f := newFixture(t)

	got, err := f.calls.GetAnalytics(context.Background())
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if got.TotalCalls != 0 || got.TotalDuration != 0 || got.AverageDuration != 0 {
		t.Fatalf("expected all-zero analytics, got %+v", got)
	}
	if got.CallsByAssistant == nil || got.CallsByClient == nil {
		t.Fatalf("expected non-nil grouping maps")
	}
}

func TestGetAnalytics_Aggregates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, duration := range []int{100, 200} {
		call, err := f.calls.Start(ctx, f.newSchedule(t).ID)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		f.calls.clock = func() time.Time { return call.StartTime.Add(time.Duration(duration) * time.Second) }
		if _, err := f.calls.Complete(ctx, call.ID, ""); err != nil {
			t.Fatalf("complete: %v", err)
		}
		f.calls.clock = time.Now
	}

	// a failed call must not count
	call, err := f.calls.Start(ctx, f.newSchedule(t).ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.calls.Fail(ctx, call.ID, ""); err != nil {
		t.Fatalf("fail: %v", err)
	}

	got, err := f.calls.GetAnalytics(ctx)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if got.TotalCalls != 2 || got.TotalDuration != 300 || got.AverageDuration != 150 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.CallsByAssistant["A1"] != 2 {
		t.Fatalf("expected 2 calls grouped under A1, got %v", got.CallsByAssistant)
	}
	if got.CallsByClient["Bob"] != 2 {
		t.Fatalf("expected 2 calls grouped under Bob, got %v", got.CallsByClient)
	}
}

func TestGetAnalytics_UnknownFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	call, err := f.calls.Start(ctx, f.newSchedule(t).ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.calls.Complete(ctx, call.ID, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// sever the references: the resolvers now fail for every id
	f.repo.AssistantName = func(string) string { return "" }
	f.repo.ClientName = func(string) string { return "" }

	got, err := f.calls.GetAnalytics(ctx)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if got.CallsByAssistant["Unknown"] != 1 || got.CallsByClient["Unknown"] != 1 {
		t.Fatalf("expected Unknown grouping, got %+v", got)
	}
}

func TestFindRecent_ClampsLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		sch, err := f.schedules.Create(ctx, schedules.CreateRequest{
			AssistantID:     f.assistantID,
			ClientID:        f.clientID,
			ScheduledAt:     time.Now().Add(time.Duration(i+1) * time.Hour),
			DurationMinutes: 15,
		})
		if err != nil {
			t.Fatalf("schedule %d: %v", i, err)
		}
		if _, err := f.calls.Start(ctx, sch.ID); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
	}

	got, err := f.calls.FindRecent(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != defaultRecentLimit {
		t.Fatalf("expected default limit %d, got %d", defaultRecentLimit, len(got))
	}

	got, err = f.calls.FindRecent(ctx, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5, got %d", len(got))
	}
}

func TestCorrect_UpdatesAnnotations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	call, err := f.calls.Start(ctx, f.newSchedule(t).ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.calls.Complete(ctx, call.ID, "first pass"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	summary := "corrected summary"
	tags := []string{"billing", "escalated"}
	duration := 42
	got, err := f.calls.Correct(ctx, call.ID, Update{Summary: &summary, Tags: &tags, DurationSeconds: &duration})
	if err != nil {
		t.Fatalf("correct: %v", err)
	}
	if got.Summary != summary || got.DurationSeconds != 42 || len(got.Tags) != 2 {
		t.Fatalf("correction not applied: %+v", got)
	}

	bad := -1
	if _, err := f.calls.Correct(ctx, call.ID, Update{DurationSeconds: &bad}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestFindByAssistantAndClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	call, err := f.calls.Start(ctx, f.newSchedule(t).ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	byAssistant, err := f.calls.FindByAssistant(ctx, f.assistantID)
	if err != nil {
		t.Fatalf("by assistant: %v", err)
	}
	byClient, err := f.calls.FindByClient(ctx, f.clientID)
	if err != nil {
		t.Fatalf("by client: %v", err)
	}
	if len(byAssistant) != 1 || byAssistant[0].ID != call.ID {
		t.Fatalf("unexpected by-assistant result")
	}
	if len(byClient) != 1 || byClient[0].ID != call.ID {
		t.Fatalf("unexpected by-client result")
	}

	if none, err := f.calls.FindByAssistant(ctx, "other"); err != nil || len(none) != 0 {
		t.Fatalf("expected empty result, got %v/%v", none, err)
	}
}
