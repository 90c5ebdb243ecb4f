package activity

import (
	"context"
	"errors"
	"testing"
)

func TestAppend_FillsDefaults(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	if err := svc.Append(context.Background(), Event{Action: "schedule.cancelled", EntityID: "s1"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	events := repo.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID == "" || events[0].CreatedAt.IsZero() {
		t.Fatalf("defaults not applied: %+v", events[0])
	}
}

func TestAppend_RequiresAction(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	if err := svc.Append(context.Background(), Event{}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestRecord_SwallowsFailures(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	// must not panic or propagate
	svc.Record(context.Background(), Event{})
}

func TestRecent_ReturnsNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	for _, action := range []string{"user.created", "client.updated", "schedule.cancelled"} {
		if err := svc.Append(ctx, Event{Action: action}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := svc.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].Action != "schedule.cancelled" {
		t.Fatalf("unexpected recent events: %+v", got)
	}
}
