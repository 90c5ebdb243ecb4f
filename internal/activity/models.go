package activity

import "time"

// Event is an immutable, append-only activity log record.
//
// Invariants:
// - Events are never updated or deleted.
// - Actor and ip capture are best-effort; do not block request flows on
//   activity logging failures.

type Event struct {
	ID string `json:"id" db:"id"`

	// Action names what happened, as entity.verb ("schedule.cancelled",
	// "user.created").
	Action string `json:"action" db:"action"`

	// ActorUserID is the authenticated user causing the event (if applicable).
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Target entity.
	EntityType string `json:"entity_type,omitempty" db:"entity_type"`
	EntityID   string `json:"entity_id,omitempty" db:"entity_id"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
