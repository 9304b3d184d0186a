package models

import (
	"time"

	"github.com/google/uuid"
)

type LeaderboardEntry struct {
	Rank              int        `json:"rank"`
	TeamID            uuid.UUID  `json:"team_id"`
	TeamName          string     `json:"team_name"`
	TotalPoints       int        `json:"total_points"`
	EasySolves        int        `json:"easy_solves"`
	MediumSolves      int        `json:"medium_solves"`
	HardSolves        int        `json:"hard_solves"`
	IncorrectAttempts int        `json:"incorrect_attempts"`
	LastSolveAt       *time.Time `json:"last_solve_at,omitempty"`
}

type SolvedChallenge struct {
	ChallengeID   uuid.UUID `json:"challenge_id"`
	ChallengeName string    `json:"challenge_name"`
	Category      string    `json:"category"`
	Difficulty    string    `json:"difficulty"`
	PointsAwarded int       `json:"points_awarded"`
	SolvedAt      time.Time `json:"solved_at"`
}

type IncorrectAttempt struct {
	ChallengeID   uuid.UUID `json:"challenge_id"`
	ChallengeName string    `json:"challenge_name"`
	SubmittedBy   uuid.UUID `json:"submitted_by"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type TeamDetail struct {
	TeamID            uuid.UUID          `json:"team_id"`
	TeamName          string             `json:"team_name"`
	TotalPoints       int                `json:"total_points"`
	Solves            []SolvedChallenge  `json:"solves"`
	IncorrectAttempts []IncorrectAttempt `json:"incorrect_attempts"`
}
