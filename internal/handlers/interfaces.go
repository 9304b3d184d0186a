package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, name string, captainID uuid.UUID) (*models.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	GetUserTeam(ctx context.Context, userID uuid.UUID) (*models.Team, error)
	GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	Leave(ctx context.Context, userID uuid.UUID) error
	TransferCaptain(ctx context.Context, actingUserID, targetUserID uuid.UUID) error
	RemoveMember(ctx context.Context, actingUserID, targetUserID uuid.UUID) error
}

// InviteServiceInterface defines the methods used by handlers from InviteService
type InviteServiceInterface interface {
	Regenerate(ctx context.Context, actingUserID, teamID uuid.UUID, expiresIn *time.Duration, maxUses *int) (*models.InviteToken, error)
	GetTeamToken(ctx context.Context, actingUserID, teamID uuid.UUID) (*models.InviteToken, error)
	Redeem(ctx context.Context, code string, userID uuid.UUID) (*models.Team, error)
}

// SubmissionServiceInterface defines the methods used by handlers from SubmissionService
type SubmissionServiceInterface interface {
	Submit(ctx context.Context, userID, teamID, challengeID uuid.UUID, rawFlag string) (*models.SubmissionResult, error)
	TeamSubmissions(ctx context.Context, teamID uuid.UUID) ([]models.Submission, error)
}

// ChallengeServiceInterface defines the methods used by handlers from ChallengeService
type ChallengeServiceInterface interface {
	Create(ctx context.Context, name, category, difficulty string, points int, flag string) (*models.Challenge, error)
	SetActive(ctx context.Context, challengeID uuid.UUID, active bool) error
	ListPublic(ctx context.Context) ([]models.Challenge, error)
}

// LeaderboardServiceInterface defines the methods used by handlers from LeaderboardService
type LeaderboardServiceInterface interface {
	Standings(ctx context.Context, asOf *time.Time) ([]models.LeaderboardEntry, error)
	TeamDetail(ctx context.Context, teamID uuid.UUID, asOf *time.Time) (*models.TeamDetail, error)
	FreezeState(ctx context.Context) (*models.FreezeState, error)
	ToggleFreeze(ctx context.Context, frozen bool) (*models.FreezeState, error)
	Cached() ([]models.LeaderboardEntry, time.Time, bool)
}
