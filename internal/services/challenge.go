package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/clubctf-api/internal/database"
	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeInactive = errors.New("challenge is no longer active")
	ErrInvalidDifficulty = errors.New("difficulty must be easy, medium or hard")
)

// ChallengeService is the engine's view of the challenge catalog. Officers
// maintain entries; deactivation is a soft delete so historical submissions
// keep resolving to their points and difficulty.
type ChallengeService struct {
	db *database.DB
}

func NewChallengeService(db *database.DB) *ChallengeService {
	return &ChallengeService{db: db}
}

func (s *ChallengeService) Create(ctx context.Context, name, category, difficulty string, points int, flag string) (*models.Challenge, error) {
	switch difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		return nil, ErrInvalidDifficulty
	}
	if points <= 0 {
		return nil, errors.New("points must be positive")
	}

	var challenge models.Challenge
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO challenges (name, category, difficulty, points, flag)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, category, difficulty, points, flag, is_active, created_at, updated_at
	`, name, category, difficulty, points, flag).Scan(
		&challenge.ID, &challenge.Name, &challenge.Category, &challenge.Difficulty,
		&challenge.Points, &challenge.Flag, &challenge.IsActive,
		&challenge.CreatedAt, &challenge.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	return &challenge, nil
}

// SetActive flips the soft-delete flag. Submissions referencing the challenge
// are never touched.
func (s *ChallengeService) SetActive(ctx context.Context, challengeID uuid.UUID, active bool) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE challenges SET is_active = $1, updated_at = NOW() WHERE id = $2
	`, active, challengeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrChallengeNotFound
	}
	return nil
}

// GetByID is the privileged read: it includes the flag and inactive entries.
// The submission path and leaderboard need it even after deactivation.
func (s *ChallengeService) GetByID(ctx context.Context, challengeID uuid.UUID) (*models.Challenge, error) {
	var challenge models.Challenge
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, category, difficulty, points, flag, is_active, created_at, updated_at
		FROM challenges WHERE id = $1
	`, challengeID).Scan(
		&challenge.ID, &challenge.Name, &challenge.Category, &challenge.Difficulty,
		&challenge.Points, &challenge.Flag, &challenge.IsActive,
		&challenge.CreatedAt, &challenge.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to look up challenge: %w", err)
	}
	return &challenge, nil
}

// ListPublic is the restricted projection: active entries only, flags never
// selected.
func (s *ChallengeService) ListPublic(ctx context.Context) ([]models.Challenge, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, category, difficulty, points, is_active, created_at, updated_at
		FROM challenges
		WHERE is_active
		ORDER BY category, points
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		var c models.Challenge
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Category, &c.Difficulty,
			&c.Points, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, nil
}
