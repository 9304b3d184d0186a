package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChallengeRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Points     int    `json:"points"`
	Flag       string `json:"flag"`
}

type SetChallengeActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// ChallengeResponse is the restricted projection: no flag, ever.
type ChallengeResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	Points     int       `json:"points"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
