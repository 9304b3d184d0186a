package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitFlagRequest struct {
	TeamID uuid.UUID `json:"team_id"`
	Flag   string    `json:"flag"`
}

type SubmitFlagResponse struct {
	IsCorrect     bool `json:"is_correct"`
	PointsAwarded int  `json:"points_awarded"`
	AlreadySolved bool `json:"already_solved"`
}

type SubmissionLogEntry struct {
	ID            uuid.UUID `json:"id"`
	ChallengeID   uuid.UUID `json:"challenge_id"`
	SubmittedBy   uuid.UUID `json:"submitted_by"`
	SubmittedFlag string    `json:"submitted_flag"`
	IsCorrect     bool      `json:"is_correct"`
	PointsAwarded int       `json:"points_awarded"`
	SubmittedAt   time.Time `json:"submitted_at"`
}
