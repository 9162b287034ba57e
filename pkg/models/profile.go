package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the locally persisted record of a user's linked Twitter/X
// identity. At most one exists per UserID.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	TwitterID     string    `json:"twitter_id,omitempty"`
	TwitterHandle string    `json:"twitter_handle"`
	DisplayName   string    `json:"display_name"`
	AvatarURL     string    `json:"avatar_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ExternalProfile is the identity extracted from a session exchange. Only
// ExternalUserID is required.
type ExternalProfile struct {
	ExternalUserID string `json:"external_user_id"`
	TwitterID      string `json:"twitter_id,omitempty"`
	Handle         string `json:"handle,omitempty"`
	DisplayName    string `json:"display_name,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
}
