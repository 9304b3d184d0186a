package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission is one row of the append-only attempt log.
type Submission struct {
	ID            uuid.UUID `json:"id"`
	TeamID        uuid.UUID `json:"team_id"`
	ChallengeID   uuid.UUID `json:"challenge_id"`
	SubmittedBy   uuid.UUID `json:"submitted_by"`
	SubmittedFlag string    `json:"submitted_flag"`
	IsCorrect     bool      `json:"is_correct"`
	PointsAwarded int       `json:"points_awarded"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// SubmissionResult is what a team member sees after submitting a flag.
type SubmissionResult struct {
	IsCorrect     bool `json:"is_correct"`
	PointsAwarded int  `json:"points_awarded"`
	AlreadySolved bool `json:"already_solved"`
}

// FreezeState pins the public scoreboard to FrozenAt while submissions keep
// being recorded underneath.
type FreezeState struct {
	IsFrozen bool       `json:"is_frozen"`
	FrozenAt *time.Time `json:"frozen_at,omitempty"`
}
