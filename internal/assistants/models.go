package assistants

import "time"

// Assistant is a configuration record for one AI voice assistant.
// AIConfig is free-form (model, temperature, prompt knobs) and persists as
// JSONB; nothing in this service interprets it.
type Assistant struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`

	// VoiceType identifies the TTS voice (e.g. "en-US-Neural2-F").
	VoiceType string `json:"voice_type" db:"voice_type"`
	Language  string `json:"language" db:"language"`

	IsActive bool `json:"is_active" db:"is_active"`

	AIConfig        map[string]any `json:"ai_config" db:"ai_config"`
	Specializations []string       `json:"specializations" db:"specializations"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const defaultLanguage = "en-US"

type CreateRequest struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	VoiceType       string         `json:"voice_type"`
	Language        string         `json:"language,omitempty"`
	IsActive        *bool          `json:"is_active,omitempty"`
	AIConfig        map[string]any `json:"ai_config,omitempty"`
	Specializations []string       `json:"specializations,omitempty"`
}

// Update lists the legally mutable fields; nil pointers keep stored values.
type Update struct {
	Name            *string         `json:"name,omitempty"`
	Description     *string         `json:"description,omitempty"`
	VoiceType       *string         `json:"voice_type,omitempty"`
	Language        *string         `json:"language,omitempty"`
	IsActive        *bool           `json:"is_active,omitempty"`
	AIConfig        *map[string]any `json:"ai_config,omitempty"`
	Specializations *[]string       `json:"specializations,omitempty"`
}
