package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Create(ctx context.Context, name string, captainID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, name, captainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetUserTeam(ctx context.Context, userID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockTeamService) Leave(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTeamService) TransferCaptain(ctx context.Context, actingUserID, targetUserID uuid.UUID) error {
	args := m.Called(ctx, actingUserID, targetUserID)
	return args.Error(0)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, actingUserID, targetUserID uuid.UUID) error {
	args := m.Called(ctx, actingUserID, targetUserID)
	return args.Error(0)
}

// MockInviteService mocks the InviteService
type MockInviteService struct {
	mock.Mock
}

func (m *MockInviteService) Regenerate(ctx context.Context, actingUserID, teamID uuid.UUID, expiresIn *time.Duration, maxUses *int) (*models.InviteToken, error) {
	args := m.Called(ctx, actingUserID, teamID, expiresIn, maxUses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InviteToken), args.Error(1)
}

func (m *MockInviteService) GetTeamToken(ctx context.Context, actingUserID, teamID uuid.UUID) (*models.InviteToken, error) {
	args := m.Called(ctx, actingUserID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InviteToken), args.Error(1)
}

func (m *MockInviteService) Redeem(ctx context.Context, code string, userID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

// MockSubmissionService mocks the SubmissionService
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, userID, teamID, challengeID uuid.UUID, rawFlag string) (*models.SubmissionResult, error) {
	args := m.Called(ctx, userID, teamID, challengeID, rawFlag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmissionResult), args.Error(1)
}

func (m *MockSubmissionService) TeamSubmissions(ctx context.Context, teamID uuid.UUID) ([]models.Submission, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

// MockChallengeService mocks the ChallengeService
type MockChallengeService struct {
	mock.Mock
}

func (m *MockChallengeService) Create(ctx context.Context, name, category, difficulty string, points int, flag string) (*models.Challenge, error) {
	args := m.Called(ctx, name, category, difficulty, points, flag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Challenge), args.Error(1)
}

func (m *MockChallengeService) SetActive(ctx context.Context, challengeID uuid.UUID, active bool) error {
	args := m.Called(ctx, challengeID, active)
	return args.Error(0)
}

func (m *MockChallengeService) ListPublic(ctx context.Context) ([]models.Challenge, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Challenge), args.Error(1)
}

// MockLeaderboardService mocks the LeaderboardService
type MockLeaderboardService struct {
	mock.Mock
}

func (m *MockLeaderboardService) Standings(ctx context.Context, asOf *time.Time) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardService) TeamDetail(ctx context.Context, teamID uuid.UUID, asOf *time.Time) (*models.TeamDetail, error) {
	args := m.Called(ctx, teamID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamDetail), args.Error(1)
}

func (m *MockLeaderboardService) FreezeState(ctx context.Context) (*models.FreezeState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FreezeState), args.Error(1)
}

func (m *MockLeaderboardService) ToggleFreeze(ctx context.Context, frozen bool) (*models.FreezeState, error) {
	args := m.Called(ctx, frozen)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FreezeState), args.Error(1)
}

func (m *MockLeaderboardService) Cached() ([]models.LeaderboardEntry, time.Time, bool) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Get(1).(time.Time), args.Bool(2)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Get(1).(time.Time), args.Bool(2)
}
