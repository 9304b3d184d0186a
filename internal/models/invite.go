package models

import (
	"time"

	"github.com/google/uuid"
)

// InviteToken is a team's shareable join code. Exhausted and expired rows
// persist; RevokedAt marks tokens replaced by regeneration.
type InviteToken struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	TeamID    uuid.UUID  `json:"team_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	MaxUses   *int       `json:"max_uses,omitempty"`
	UseCount  int        `json:"use_count"`
	RevokedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}
