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
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailConflict = errors.New("email is registered to a different account")
)

// userEmailConstraint backs the one-account-per-email invariant.
const userEmailConstraint = "users_email_key"

// UserService mirrors just enough profile data for membership integrity and
// officer gating. Profile storage proper lives outside the engine.
type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, email, name, role, created_at, updated_at
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, email, name, role, created_at, updated_at
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

// Ensure upserts the identity row asserted by the caller's token. The club
// application owns profiles; the engine only keeps what foreign keys need.
// A token claiming an email that already belongs to a different user id is
// refused rather than silently rebinding the address.
func (s *UserService) Ensure(ctx context.Context, id uuid.UUID, email, name string) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = NOW()
		RETURNING id, email, name, role, created_at, updated_at
	`, id, email, name).Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, userEmailConstraint) {
			return nil, ErrEmailConflict
		}
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &user, nil
}
