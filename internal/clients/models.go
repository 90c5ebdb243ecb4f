package clients

import "time"

// Client is a contact record. Email is unique across all clients and follows
// the same normalization policy as user emails (trimmed, lowercased).
type Client struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Email   string `json:"email" db:"email"`
	Phone   string `json:"phone" db:"phone"`
	Company string `json:"company" db:"company"`

	Preferences map[string]any `json:"preferences" db:"preferences"`

	IsActive bool `json:"is_active" db:"is_active"`

	// Notes is an append-friendly list of free-text remarks.
	Notes []string `json:"notes" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateRequest struct {
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone,omitempty"`
	Company     string         `json:"company,omitempty"`
	Preferences map[string]any `json:"preferences,omitempty"`
	IsActive    *bool          `json:"is_active,omitempty"`
	Notes       []string       `json:"notes,omitempty"`
}

// Update lists the legally mutable fields; nil pointers keep stored values.
type Update struct {
	Name        *string         `json:"name,omitempty"`
	Email       *string         `json:"email,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Company     *string         `json:"company,omitempty"`
	Preferences *map[string]any `json:"preferences,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
	Notes       *[]string       `json:"notes,omitempty"`
}
