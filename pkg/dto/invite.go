package dto

import "time"

type RegenerateInviteRequest struct {
	// ExpiresIn is a Go duration string, e.g. "48h". Empty means no expiry.
	ExpiresIn string `json:"expires_in,omitempty"`
	// MaxUses nil means unlimited.
	MaxUses *int `json:"max_uses,omitempty"`
}

type InviteTokenResponse struct {
	Code      string     `json:"code"`
	Link      string     `json:"link"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	MaxUses   *int       `json:"max_uses,omitempty"`
	UseCount  int        `json:"use_count"`
	CreatedAt time.Time  `json:"created_at"`
}
