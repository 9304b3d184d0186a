package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/clubctf-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSubmissionService(t *testing.T) (*SubmissionService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewSubmissionService(db, NewChallengeService(db)), mock
}

func expectMembership(mock pgxmock.PgxPoolIface, userID, teamID uuid.UUID) {
	rows := pgxmock.NewRows([]string{"team_id"}).AddRow(teamID)
	mock.ExpectQuery(`SELECT team_id FROM team_members`).
		WithArgs(userID).
		WillReturnRows(rows)
}

func expectChallenge(mock pgxmock.PgxPoolIface, challengeID uuid.UUID, flag string, points int, active bool) {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "name", "category", "difficulty", "points", "flag", "is_active", "created_at", "updated_at"}).
		AddRow(challengeID, "babyrev", "rev", "easy", points, flag, active, now, now)
	mock.ExpectQuery(`SELECT .+ FROM challenges WHERE id`).
		WithArgs(challengeID).
		WillReturnRows(rows)
}

func TestSubmissionService_Submit_Correct(t *testing.T) {
	svc, mock := setupSubmissionService(t)
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()
	challengeID := uuid.New()

	expectMembership(mock, userID, teamID)
	expectChallenge(mock, challengeID, "flag{pwned}", 300, true)

	mock.ExpectExec(`INSERT INTO submissions`).
		WithArgs(teamID, challengeID, userID, "flag{pwned}", 300).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	result, err := svc.Submit(ctx, userID, teamID, challengeID, "flag{pwned}")

	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 300, result.PointsAwarded)
	assert.False(t, result.AlreadySolved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionService_Submit_TrimsWhitespace(t *testing.T) {
	svc, mock := setupSubmissionService(t)
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()
	challengeID := uuid.New()

	expectMembership(mock, userID, teamID)
	expectChallenge(mock, challengeID, "flag{pwned}", 300, true)

	mock.ExpectExec(`INSERT INTO submissions`).
		WithArgs(teamID, challengeID, userID, "flag{pwned}", 300).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	result, err := svc.Submit(ctx, userID, teamID, challengeID, "  flag{pwned}\n")

	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionService_Submit_Incorrect(t *testing.T) {
	svc, mock := setupSubmissionService(t)
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()
	challengeID := uuid.New()

	expectMembership(mock, userID, teamID)
	expectChallenge(mock, challengeID, "flag{pwned}", 300, true)

	mock.ExpectExec(`INSERT INTO submissions`).
		WithArgs(teamID, challengeID, userID, "flag{nope}").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	result, err := svc.Submit(ctx, userID, teamID, challengeID, "flag{nope}")

	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.PointsAwarded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionService_Submit_AlreadySolved(t *testing.T) {
	svc, mock := setupSubmissionService(t)
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()
	challengeID := uuid.New()

	expectMembership(mock, userID, teamID)
	expectChallenge(mock, challengeID, "flag{pwned}", 300, true)

	// The scored insert loses to the partial unique index; the attempt is
	// re-recorded with zero points.
	mock.ExpectExec(`INSERT INTO submissions`).
		WithArgs(teamID, challengeID, userID, "flag{pwned}", 300).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: scoredSubmissionIndex})

	mock.ExpectExec(`INSERT INTO submissions`).
		WithArgs(teamID, challengeID, userID, "flag{pwned}").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	result, err := svc.Submit(ctx, userID, teamID, challengeID, "flag{pwned}")

	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.True(t, result.AlreadySolved)
	assert.Equal(t, 0, result.PointsAwarded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionService_Submit_NotOnTeam(t *testing.T) {
	svc, mock := setupSubmissionService(t)
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()
	otherTeamID := uuid.New()
	challengeID := uuid.New()

	// The user belongs to a different team than the one they claim.
	rows := pgxmock.NewRows([]string{"team_id"}).AddRow(otherTeamID)
	mock.ExpectQuery(`SELECT team_id FROM team_members`).
		WithArgs(userID).
		WillReturnRows(rows)

	_, err := svc.Submit(ctx, userID, teamID, challengeID, "flag{x}")

	assert.ErrorIs(t, err, ErrNotOnTeam)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionService_Submit_MembershipLookupError(t *testing.T) {
	svc, mock := setupSubmissionService(t)
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()
	challengeID := uuid.New()

	// A dropped connection must surface as a failure the caller can retry,
	// not masquerade as a membership verdict.
	mock.ExpectQuery(`SELECT team_id FROM team_members`).
		WithArgs(userID).
		WillReturnError(assert.AnError)

	_, err := svc.Submit(ctx, userID, teamID, challengeID, "flag{x}")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotOnTeam)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionService_Submit_ChallengeInactive(t *testing.T) {
	svc, mock := setupSubmissionService(t)
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()
	challengeID := uuid.New()

	expectMembership(mock, userID, teamID)
	expectChallenge(mock, challengeID, "flag{pwned}", 300, false)

	_, err := svc.Submit(ctx, userID, teamID, challengeID, "flag{pwned}")

	assert.ErrorIs(t, err, ErrChallengeInactive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionService_TeamSubmissions(t *testing.T) {
	svc, mock := setupSubmissionService(t)
	ctx := context.Background()
	teamID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "team_id", "challenge_id", "submitted_by", "submitted_flag", "is_correct", "points_awarded", "submitted_at"}).
		AddRow(uuid.New(), teamID, uuid.New(), uuid.New(), "flag{right}", true, 100, now).
		AddRow(uuid.New(), teamID, uuid.New(), uuid.New(), "flag{wrong}", false, 0, now.Add(-time.Minute))

	mock.ExpectQuery(`SELECT .+ FROM submissions.+ORDER BY submitted_at DESC`).
		WithArgs(teamID).
		WillReturnRows(rows)

	submissions, err := svc.TeamSubmissions(ctx, teamID)

	require.NoError(t, err)
	require.Len(t, submissions, 2)
	assert.Equal(t, "flag{right}", submissions[0].SubmittedFlag)
	assert.False(t, submissions[1].IsCorrect)
	assert.NoError(t, mock.ExpectationsWereMet())
}
