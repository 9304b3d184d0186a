package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTeamRequest struct {
	Name string `json:"name"`
}

type TransferCaptainRequest struct {
	TargetUserID uuid.UUID `json:"target_user_id"`
}

type TeamResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CaptainID uuid.UUID `json:"captain_id"`
	CreatedAt time.Time `json:"created_at"`
}

type TeamMemberResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsCaptain bool      `json:"is_captain"`
	JoinedAt  time.Time `json:"joined_at"`
}

type TeamWithMembersResponse struct {
	Team    TeamResponse         `json:"team"`
	Members []TeamMemberResponse `json:"members"`
}
