package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/clubctf-api/internal/database"
	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email: fmt.Sprintf("user%d@example.com", f.counter),
		Name:  fmt.Sprintf("Test User %d", f.counter),
		Role:  models.RoleMember,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, role)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, role, created_at, updated_at
	`, user.Email, user.Name, user.Role).Scan(
		&user.ID, &user.Email, &user.Name, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// AsOfficer marks the user as a club officer
func AsOfficer() UserOption {
	return func(u *models.User) {
		u.Role = models.RoleOfficer
	}
}

// CreateTeam creates a team with the given captain, the captain's membership
// and a default invite token, mirroring what TeamService.Create persists.
func (f *Fixtures) CreateTeam(t *testing.T, name string, captain *models.User) *models.Team {
	t.Helper()
	ctx := context.Background()

	team := &models.Team{}
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO teams (name, captain_id)
		VALUES ($1, $2)
		RETURNING id, name, captain_id, created_at
	`, name, captain.ID).Scan(&team.ID, &team.Name, &team.CaptainID, &team.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	_, err = f.db.Pool.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)
	`, team.ID, captain.ID)
	if err != nil {
		t.Fatalf("failed to add captain membership: %v", err)
	}

	f.counter++
	_, err = f.db.Pool.Exec(ctx, `
		INSERT INTO invite_tokens (code, team_id) VALUES ($1, $2)
	`, fmt.Sprintf("TESTCODE%012d", f.counter), team.ID)
	if err != nil {
		t.Fatalf("failed to create invite token: %v", err)
	}

	return team
}

// AddMember adds a user to an existing team
func (f *Fixtures) AddMember(t *testing.T, team *models.Team, user *models.User) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)
	`, team.ID, user.ID)
	if err != nil {
		t.Fatalf("failed to add team member: %v", err)
	}
}

// TeamInviteCode returns the team's live invite code
func (f *Fixtures) TeamInviteCode(t *testing.T, team *models.Team) string {
	t.Helper()
	ctx := context.Background()

	var code string
	err := f.db.Pool.QueryRow(ctx, `
		SELECT code FROM invite_tokens WHERE team_id = $1 AND revoked_at IS NULL
	`, team.ID).Scan(&code)
	if err != nil {
		t.Fatalf("failed to get invite code: %v", err)
	}
	return code
}

// LimitInvite constrains the team's live invite token
func (f *Fixtures) LimitInvite(t *testing.T, team *models.Team, maxUses *int, expiresAt *time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		UPDATE invite_tokens SET max_uses = $1, expires_at = $2
		WHERE team_id = $3 AND revoked_at IS NULL
	`, maxUses, expiresAt, team.ID)
	if err != nil {
		t.Fatalf("failed to limit invite token: %v", err)
	}
}

// CreateChallenge creates a test challenge with default values
func (f *Fixtures) CreateChallenge(t *testing.T, opts ...ChallengeOption) *models.Challenge {
	t.Helper()
	f.counter++

	challenge := &models.Challenge{
		Name:       fmt.Sprintf("challenge-%d", f.counter),
		Category:   "misc",
		Difficulty: models.DifficultyEasy,
		Points:     100,
		Flag:       fmt.Sprintf("flag{test_%d}", f.counter),
		IsActive:   true,
	}

	for _, opt := range opts {
		opt(challenge)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO challenges (name, category, difficulty, points, flag, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, category, difficulty, points, flag, is_active, created_at, updated_at
	`, challenge.Name, challenge.Category, challenge.Difficulty, challenge.Points, challenge.Flag, challenge.IsActive).Scan(
		&challenge.ID, &challenge.Name, &challenge.Category, &challenge.Difficulty,
		&challenge.Points, &challenge.Flag, &challenge.IsActive,
		&challenge.CreatedAt, &challenge.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create challenge: %v", err)
	}

	return challenge
}

// ChallengeOption configures a test challenge
type ChallengeOption func(*models.Challenge)

// WithDifficulty sets the challenge difficulty
func WithDifficulty(difficulty string) ChallengeOption {
	return func(c *models.Challenge) {
		c.Difficulty = difficulty
	}
}

// WithPoints sets the challenge point value
func WithPoints(points int) ChallengeOption {
	return func(c *models.Challenge) {
		c.Points = points
	}
}

// WithFlag sets the challenge flag
func WithFlag(flag string) ChallengeOption {
	return func(c *models.Challenge) {
		c.Flag = flag
	}
}

// Inactive retires the challenge
func Inactive() ChallengeOption {
	return func(c *models.Challenge) {
		c.IsActive = false
	}
}

// RecordSolve inserts a scored correct submission for a team
func (f *Fixtures) RecordSolve(t *testing.T, team *models.Team, challenge *models.Challenge, by uuid.UUID, at time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO submissions (team_id, challenge_id, submitted_by, submitted_flag, is_correct, points_awarded, submitted_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $6)
	`, team.ID, challenge.ID, by, challenge.Flag, challenge.Points, at)
	if err != nil {
		t.Fatalf("failed to record solve: %v", err)
	}
}

// RecordIncorrect inserts a wrong submission for a team
func (f *Fixtures) RecordIncorrect(t *testing.T, team *models.Team, challenge *models.Challenge, by uuid.UUID, at time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO submissions (team_id, challenge_id, submitted_by, submitted_flag, is_correct, points_awarded, submitted_at)
		VALUES ($1, $2, $3, 'flag{nope}', FALSE, 0, $4)
	`, team.ID, challenge.ID, by, at)
	if err != nil {
		t.Fatalf("failed to record incorrect submission: %v", err)
	}
}
