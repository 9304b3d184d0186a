package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dimitrije/clubctf-api/internal/database"
	"github.com/dimitrije/clubctf-api/internal/metrics"
	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/google/uuid"
)

var ErrTeamNotFound = errors.New("team not found")

// LeaderboardService derives standings from the submission log. It is purely
// a read path: freezing pins the public cutoff while submissions keep being
// recorded underneath. Standings for teams deleted after scoring are dropped
// (inner join against teams).
type LeaderboardService struct {
	db *database.DB

	mu         sync.RWMutex
	cached     []models.LeaderboardEntry
	computedAt time.Time
}

func NewLeaderboardService(db *database.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// cutoff resolves the submission-time boundary for a standings read: an
// explicit asOf wins, then the freeze timestamp, then now.
func (s *LeaderboardService) cutoff(ctx context.Context, asOf *time.Time) (time.Time, error) {
	if asOf != nil {
		return *asOf, nil
	}
	state, err := s.FreezeState(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if state.IsFrozen && state.FrozenAt != nil {
		return *state.FrozenAt, nil
	}
	return time.Now(), nil
}

// Standings computes the ranked, tie-broken scoreboard as of the resolved
// cutoff. Primary order is total points descending; ties break on earlier
// last solve.
func (s *LeaderboardService) Standings(ctx context.Context, asOf *time.Time) ([]models.LeaderboardEntry, error) {
	cutoff, err := s.cutoff(ctx, asOf)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.name,
		       COALESCE(SUM(s.points_awarded), 0) AS total_points,
		       COUNT(*) FILTER (WHERE s.is_correct AND s.points_awarded > 0 AND c.difficulty = 'easy') AS easy_solves,
		       COUNT(*) FILTER (WHERE s.is_correct AND s.points_awarded > 0 AND c.difficulty = 'medium') AS medium_solves,
		       COUNT(*) FILTER (WHERE s.is_correct AND s.points_awarded > 0 AND c.difficulty = 'hard') AS hard_solves,
		       COUNT(*) FILTER (WHERE s.id IS NOT NULL AND NOT s.is_correct) AS incorrect_attempts,
		       MAX(s.submitted_at) FILTER (WHERE s.is_correct AND s.points_awarded > 0) AS last_solve_at
		FROM teams t
		LEFT JOIN submissions s ON s.team_id = t.id AND s.submitted_at <= $1
		LEFT JOIN challenges c ON c.id = s.challenge_id
		GROUP BY t.id, t.name
		ORDER BY total_points DESC, last_solve_at ASC NULLS LAST
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to compute standings: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(
			&e.TeamID, &e.TeamName, &e.TotalPoints,
			&e.EasySolves, &e.MediumSolves, &e.HardSolves,
			&e.IncorrectAttempts, &e.LastSolveAt,
		); err != nil {
			return nil, err
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, nil
}

// TeamDetail returns one team's solved challenges and incorrect attempts,
// newest first, bounded by the same cutoff rule as Standings.
func (s *LeaderboardService) TeamDetail(ctx context.Context, teamID uuid.UUID, asOf *time.Time) (*models.TeamDetail, error) {
	cutoff, err := s.cutoff(ctx, asOf)
	if err != nil {
		return nil, err
	}

	detail := models.TeamDetail{TeamID: teamID}
	err = s.db.Pool.QueryRow(ctx, `SELECT name FROM teams WHERE id = $1`, teamID).Scan(&detail.TeamName)
	if err != nil {
		return nil, ErrTeamNotFound
	}

	solveRows, err := s.db.Pool.Query(ctx, `
		SELECT s.challenge_id, c.name, c.category, c.difficulty, s.points_awarded, s.submitted_at
		FROM submissions s
		JOIN challenges c ON c.id = s.challenge_id
		WHERE s.team_id = $1 AND s.is_correct AND s.points_awarded > 0 AND s.submitted_at <= $2
		ORDER BY s.submitted_at DESC
	`, teamID, cutoff)
	if err != nil {
		return nil, err
	}
	defer solveRows.Close()

	for solveRows.Next() {
		var solve models.SolvedChallenge
		if err := solveRows.Scan(
			&solve.ChallengeID, &solve.ChallengeName, &solve.Category,
			&solve.Difficulty, &solve.PointsAwarded, &solve.SolvedAt,
		); err != nil {
			return nil, err
		}
		detail.TotalPoints += solve.PointsAwarded
		detail.Solves = append(detail.Solves, solve)
	}

	wrongRows, err := s.db.Pool.Query(ctx, `
		SELECT s.challenge_id, c.name, s.submitted_by, s.submitted_at
		FROM submissions s
		JOIN challenges c ON c.id = s.challenge_id
		WHERE s.team_id = $1 AND NOT s.is_correct AND s.submitted_at <= $2
		ORDER BY s.submitted_at DESC
	`, teamID, cutoff)
	if err != nil {
		return nil, err
	}
	defer wrongRows.Close()

	for wrongRows.Next() {
		var attempt models.IncorrectAttempt
		if err := wrongRows.Scan(
			&attempt.ChallengeID, &attempt.ChallengeName,
			&attempt.SubmittedBy, &attempt.SubmittedAt,
		); err != nil {
			return nil, err
		}
		detail.IncorrectAttempts = append(detail.IncorrectAttempts, attempt)
	}

	return &detail, nil
}

func (s *LeaderboardService) FreezeState(ctx context.Context) (*models.FreezeState, error) {
	var state models.FreezeState
	err := s.db.Pool.QueryRow(ctx, `
		SELECT is_frozen, frozen_at FROM freeze_state WHERE id
	`).Scan(&state.IsFrozen, &state.FrozenAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read freeze state: %w", err)
	}
	return &state, nil
}

// ToggleFreeze flips the public scoreboard freeze. Enabling stamps frozen_at
// exactly once: the guarded update is a no-op if the board is already frozen,
// so re-freezing never moves the pin. Disabling clears the timestamp.
func (s *LeaderboardService) ToggleFreeze(ctx context.Context, frozen bool) (*models.FreezeState, error) {
	var err error
	if frozen {
		_, err = s.db.Pool.Exec(ctx, `
			UPDATE freeze_state SET is_frozen = TRUE, frozen_at = NOW()
			WHERE id AND is_frozen = FALSE
		`)
	} else {
		_, err = s.db.Pool.Exec(ctx, `
			UPDATE freeze_state SET is_frozen = FALSE, frozen_at = NULL
			WHERE id
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle freeze: %w", err)
	}
	return s.FreezeState(ctx)
}

// Refresh recomputes the cached public standings. Run periodically from
// main; staleness is bounded by the refresh interval and disclosed through
// the computed-at timestamp.
func (s *LeaderboardService) Refresh(ctx context.Context) error {
	start := time.Now()
	entries, err := s.Standings(ctx, nil)
	if err != nil {
		return err
	}
	metrics.LeaderboardRefreshSeconds.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	s.cached = entries
	s.computedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Cached returns the last refreshed standings and when they were computed.
// ok is false before the first successful refresh.
func (s *LeaderboardService) Cached() (entries []models.LeaderboardEntry, computedAt time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached, s.computedAt, !s.computedAt.IsZero()
}
