package dto

import (
	"time"

	"github.com/google/uuid"
)

type ScoreboardEntry struct {
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

type ScoreboardResponse struct {
	Entries []ScoreboardEntry `json:"entries"`
	// ComputedAt discloses cache staleness on the public read path.
	ComputedAt time.Time `json:"computed_at"`
	IsFrozen   bool      `json:"is_frozen"`
	FrozenAt   *time.Time `json:"frozen_at,omitempty"`
}

type ToggleFreezeRequest struct {
	IsFrozen bool `json:"is_frozen"`
}

type FreezeStateResponse struct {
	IsFrozen bool       `json:"is_frozen"`
	FrozenAt *time.Time `json:"frozen_at,omitempty"`
}
