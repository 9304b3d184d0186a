package integration

import (
	"context"
	"sync"
	"testing"

	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/dimitrije/clubctf-api/internal/services"
	"github.com/dimitrije/clubctf-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionService_Integration_CorrectFlag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewSubmissionService(tdb.DB, services.NewChallengeService(tdb.DB))
	ctx := context.Background()

	captain := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, "Solvers", captain)
	challenge := fixtures.CreateChallenge(t, testutil.WithFlag("flag{correct}"), testutil.WithPoints(250))

	result, err := svc.Submit(ctx, captain.ID, team.ID, challenge.ID, "flag{correct}")

	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.False(t, result.AlreadySolved)
	assert.Equal(t, 250, result.PointsAwarded)
}

func TestSubmissionService_Integration_IncorrectFlag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewSubmissionService(tdb.DB, services.NewChallengeService(tdb.DB))
	ctx := context.Background()

	captain := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, "Guessers", captain)
	challenge := fixtures.CreateChallenge(t, testutil.WithFlag("flag{correct}"))

	result, err := svc.Submit(ctx, captain.ID, team.ID, challenge.ID, "flag{wrong}")

	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.PointsAwarded)

	// The wrong attempt is kept for the audit log
	log, err := svc.TeamSubmissions(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.False(t, log[0].IsCorrect)
}

func TestSubmissionService_Integration_ResolveScoresOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewSubmissionService(tdb.DB, services.NewChallengeService(tdb.DB))
	ctx := context.Background()

	captain := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, "Repeaters", captain)
	challenge := fixtures.CreateChallenge(t, testutil.WithFlag("flag{once}"), testutil.WithPoints(100))

	first, err := svc.Submit(ctx, captain.ID, team.ID, challenge.ID, "flag{once}")
	require.NoError(t, err)
	assert.Equal(t, 100, first.PointsAwarded)

	second, err := svc.Submit(ctx, captain.ID, team.ID, challenge.ID, "flag{once}")
	require.NoError(t, err)
	assert.True(t, second.IsCorrect)
	assert.True(t, second.AlreadySolved)
	assert.Equal(t, 0, second.PointsAwarded)
}

func TestSubmissionService_Integration_ConcurrentSolveScoresOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewSubmissionService(tdb.DB, services.NewChallengeService(tdb.DB))
	ctx := context.Background()

	captain := fixtures.CreateUser(t)
	teammate := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, "Racers", captain)
	fixtures.AddMember(t, team, teammate)
	challenge := fixtures.CreateChallenge(t, testutil.WithFlag("flag{race}"), testutil.WithPoints(500))

	const attempts = 10
	var wg sync.WaitGroup
	results := make([]*models.SubmissionResult, attempts)
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		userID := captain.ID
		if i%2 == 1 {
			userID = teammate.ID
		}
		wg.Add(1)
		go func(i int, uid uuid.UUID) {
			defer wg.Done()
			results[i], errs[i] = svc.Submit(ctx, uid, team.ID, challenge.ID, "flag{race}")
		}(i, userID)
	}
	wg.Wait()

	scored := 0
	for i := 0; i < attempts; i++ {
		require.NoError(t, errs[i])
		assert.True(t, results[i].IsCorrect)
		if results[i].PointsAwarded > 0 {
			scored++
			assert.Equal(t, 500, results[i].PointsAwarded)
		} else {
			assert.True(t, results[i].AlreadySolved)
		}
	}

	assert.Equal(t, 1, scored, "exactly one submission should score")
}

func TestSubmissionService_Integration_InactiveChallenge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewSubmissionService(tdb.DB, services.NewChallengeService(tdb.DB))
	ctx := context.Background()

	captain := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, "Latecomers", captain)
	challenge := fixtures.CreateChallenge(t, testutil.Inactive())

	_, err := svc.Submit(ctx, captain.ID, team.ID, challenge.ID, "flag{anything}")
	assert.ErrorIs(t, err, services.ErrChallengeInactive)
}

func TestSubmissionService_Integration_NotOnTeam(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewSubmissionService(tdb.DB, services.NewChallengeService(tdb.DB))
	ctx := context.Background()

	captain := fixtures.CreateUser(t)
	outsider := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, "Gatekeepers", captain)
	challenge := fixtures.CreateChallenge(t)

	_, err := svc.Submit(ctx, outsider.ID, team.ID, challenge.ID, "flag{anything}")
	assert.ErrorIs(t, err, services.ErrNotOnTeam)
}
