package schedules

import "time"

// Status is the lifecycle state of a planned call.
//
// Transitions are one-directional: scheduled → in-progress → completed,
// with cancelled reachable from any non-terminal state. Nothing ever moves
// back to scheduled.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func IsValidStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether current → target is one of the allowed
// lifecycle moves. Terminal states (completed, cancelled) accept nothing,
// so cancelling an already-cancelled schedule is rejected rather than
// treated as a no-op.
func CanTransition(current, target Status) bool {
	switch current {
	case StatusScheduled:
		return target == StatusInProgress || target == StatusCancelled
	case StatusInProgress:
		return target == StatusCompleted || target == StatusCancelled
	default:
		return false
	}
}

// Schedule represents one planned call between an assistant and a client.
// AssistantName/ClientName are resolved by lookup at read time and are empty
// when the referenced record no longer exists.
type Schedule struct {
	ID          string `json:"id" db:"id"`
	AssistantID string `json:"assistant_id" db:"assistant_id"`
	ClientID    string `json:"client_id" db:"client_id"`

	AssistantName string `json:"assistant_name,omitempty" db:"-"`
	ClientName    string `json:"client_name,omitempty" db:"-"`

	ScheduledAt     time.Time `json:"scheduled_at" db:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`

	Status Status `json:"status" db:"status"`
	Notes  string `json:"notes" db:"notes"`

	CallSettings map[string]any `json:"call_settings" db:"call_settings"`

	// CreatedBy references the user who scheduled the call.
	CreatedBy string `json:"created_by,omitempty" db:"created_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateRequest struct {
	AssistantID     string         `json:"assistant_id"`
	ClientID        string         `json:"client_id"`
	ScheduledAt     time.Time      `json:"scheduled_at"`
	DurationMinutes int            `json:"duration_minutes"`
	Notes           string         `json:"notes,omitempty"`
	CallSettings    map[string]any `json:"call_settings,omitempty"`
}

// Update lists the legally mutable fields; nil pointers keep stored values.
// Status is deliberately absent: status changes go through Transition so the
// lifecycle rules cannot be bypassed by a partial update.
type Update struct {
	ScheduledAt     *time.Time      `json:"scheduled_at,omitempty"`
	DurationMinutes *int            `json:"duration_minutes,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CallSettings    *map[string]any `json:"call_settings,omitempty"`
}
