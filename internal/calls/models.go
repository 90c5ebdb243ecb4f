package calls

import "time"

type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// LogEntry is one line of a call's conversation transcript.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	// Speaker is "assistant", "client" or "system".
	Speaker string `json:"speaker"`
	Message string `json:"message"`
	// Type defaults to "message"; other values mark events (transfer, hold).
	Type string `json:"type"`
}

const (
	SpeakerAssistant = "assistant"
	SpeakerClient    = "client"
	SpeakerSystem    = "system"
)

// CallMetrics is maintained incrementally as log entries arrive.
type CallMetrics struct {
	TotalMessages     int `json:"total_messages"`
	AssistantMessages int `json:"assistant_messages"`
	ClientMessages    int `json:"client_messages"`
}

// Call is the record of one call's progress and outcome. Once the call
// reaches a terminal status it is immutable except through Correct, the
// administrative fix-up path.
type Call struct {
	ID          string `json:"id" db:"id"`
	ScheduleID  string `json:"schedule_id,omitempty" db:"schedule_id"`
	AssistantID string `json:"assistant_id" db:"assistant_id"`
	ClientID    string `json:"client_id" db:"client_id"`

	AssistantName string `json:"assistant_name,omitempty" db:"-"`
	ClientName    string `json:"client_name,omitempty" db:"-"`

	StartTime time.Time  `json:"start_time" db:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty" db:"end_time"`

	// DurationSeconds is computed at completion: end minus start.
	DurationSeconds int `json:"duration_seconds" db:"duration_seconds"`

	Status  Status      `json:"status" db:"status"`
	Logs    []LogEntry  `json:"logs" db:"logs"`
	Metrics CallMetrics `json:"metrics" db:"metrics"`
	Summary string      `json:"summary,omitempty" db:"summary"`
	Tags    []string    `json:"tags" db:"tags"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Update is the administrative correction shape. Only annotation fields are
// correctable; identity, timing and status are not.
type Update struct {
	Summary         *string   `json:"summary,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
}

// Analytics summarizes the completed-call population. Group counts key on
// the resolved display name, with "Unknown" standing in for dangling
// references.
type Analytics struct {
	TotalCalls       int            `json:"total_calls"`
	TotalDuration    int            `json:"total_duration"`
	AverageDuration  float64        `json:"average_duration"`
	CallsByAssistant map[string]int `json:"calls_by_assistant"`
	CallsByClient    map[string]int `json:"calls_by_client"`
}

const unknownName = "Unknown"
