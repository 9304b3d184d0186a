package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/clubctf-api/internal/database"
	"github.com/dimitrije/clubctf-api/internal/metrics"
	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// scoredSubmissionIndex backs the score-once invariant: at most one correct
// submission with nonzero points per (team, challenge).
const scoredSubmissionIndex = "idx_submissions_scored"

type SubmissionService struct {
	db         *database.DB
	challenges *ChallengeService
}

func NewSubmissionService(db *database.DB, challenges *ChallengeService) *SubmissionService {
	return &SubmissionService{db: db, challenges: challenges}
}

// Submit verifies a flag attempt and appends it to the submission log. A
// correct first answer scores the challenge's full points; every later
// correct answer for the same (team, challenge) pair records a zero-point
// audit row and reports AlreadySolved. The race between two teammates
// submitting the right flag at the same instant is settled by the partial
// unique index, not by a read-then-write check.
func (s *SubmissionService) Submit(ctx context.Context, userID, teamID, challengeID uuid.UUID, rawFlag string) (*models.SubmissionResult, error) {
	var memberTeamID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT team_id FROM team_members WHERE user_id = $1
	`, userID).Scan(&memberTeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotOnTeam
		}
		return nil, fmt.Errorf("failed to look up membership: %w", err)
	}
	if memberTeamID != teamID {
		return nil, ErrNotOnTeam
	}

	challenge, err := s.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if !challenge.IsActive {
		return nil, ErrChallengeInactive
	}

	submitted := strings.TrimSpace(rawFlag)
	isCorrect := submitted == challenge.Flag

	if !isCorrect {
		_, err = s.db.Pool.Exec(ctx, `
			INSERT INTO submissions (team_id, challenge_id, submitted_by, submitted_flag, is_correct, points_awarded)
			VALUES ($1, $2, $3, $4, FALSE, 0)
		`, teamID, challengeID, userID, submitted)
		if err != nil {
			return nil, fmt.Errorf("failed to record submission: %w", err)
		}
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeIncorrect).Inc()
		return &models.SubmissionResult{IsCorrect: false}, nil
	}

	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO submissions (team_id, challenge_id, submitted_by, submitted_flag, is_correct, points_awarded)
		VALUES ($1, $2, $3, $4, TRUE, $5)
	`, teamID, challengeID, userID, submitted, challenge.Points)
	if err == nil {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeCorrect).Inc()
		return &models.SubmissionResult{IsCorrect: true, PointsAwarded: challenge.Points}, nil
	}
	if !isUniqueViolation(err, scoredSubmissionIndex) {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	// Lost the scoring race or resubmitted after a solve: keep the attempt in
	// the log, award nothing.
	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO submissions (team_id, challenge_id, submitted_by, submitted_flag, is_correct, points_awarded)
		VALUES ($1, $2, $3, $4, TRUE, 0)
	`, teamID, challengeID, userID, submitted)
	if err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}
	metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeAlreadySolved).Inc()
	return &models.SubmissionResult{IsCorrect: true, PointsAwarded: 0, AlreadySolved: true}, nil
}

// TeamSubmissions lists a team's full attempt log, newest first. Officer
// audit surface.
func (s *SubmissionService) TeamSubmissions(ctx context.Context, teamID uuid.UUID) ([]models.Submission, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, team_id, challenge_id, submitted_by, submitted_flag, is_correct, points_awarded, submitted_at
		FROM submissions
		WHERE team_id = $1
		ORDER BY submitted_at DESC
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(
			&sub.ID, &sub.TeamID, &sub.ChallengeID, &sub.SubmittedBy,
			&sub.SubmittedFlag, &sub.IsCorrect, &sub.PointsAwarded, &sub.SubmittedAt,
		); err != nil {
			return nil, err
		}
		submissions = append(submissions, sub)
	}
	return submissions, nil
}
