package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/clubctf-api/internal/database"
	"github.com/dimitrije/clubctf-api/internal/metrics"
	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrAlreadyOnTeam     = errors.New("user is already on a team")
	ErrNotOnTeam         = errors.New("user is not on a team")
	ErrNotCaptain        = errors.New("only the team captain can do this")
	ErrNotMember         = errors.New("user is not a member of this team")
	ErrCannotRemoveSelf  = errors.New("captain cannot remove themselves")
	ErrCompetitionLocked = errors.New("rosters are locked while the competition is active")
)

// membershipUserConstraint backs the one-team-per-user invariant.
const membershipUserConstraint = "team_members_user_id_key"

type TeamService struct {
	db *database.DB

	// competitionActive locks captain-initiated removals for the duration of
	// the competition window.
	competitionActive bool
}

func NewTeamService(db *database.DB, competitionActive bool) *TeamService {
	return &TeamService{db: db, competitionActive: competitionActive}
}

// Create makes a team with the creator as captain and issues its default
// invite token (unlimited uses, no expiry) in the same transaction.
func (s *TeamService) Create(ctx context.Context, name string, captainID uuid.UUID) (*models.Team, error) {
	if name == "" {
		return nil, errors.New("team name is required")
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var team models.Team
	err = tx.QueryRow(ctx, `
		INSERT INTO teams (name, captain_id)
		VALUES ($1, $2)
		RETURNING id, name, captain_id, created_at
	`, name, captainID).Scan(&team.ID, &team.Name, &team.CaptainID, &team.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id)
		VALUES ($1, $2)
	`, team.ID, captainID)
	if err != nil {
		if isUniqueViolation(err, membershipUserConstraint) {
			return nil, ErrAlreadyOnTeam
		}
		return nil, fmt.Errorf("failed to add captain as member: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO invite_tokens (code, team_id)
		VALUES ($1, $2)
	`, generateInviteCode(), team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue invite token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.TeamsCreatedTotal.Inc()
	return &team, nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, captain_id, created_at
		FROM teams WHERE id = $1
	`, teamID).Scan(&team.ID, &team.Name, &team.CaptainID, &team.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetUserTeam resolves the team a user currently belongs to.
func (s *TeamService) GetUserTeam(ctx context.Context, userID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		SELECT t.id, t.name, t.captain_id, t.created_at
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id
		WHERE tm.user_id = $1
	`, userID).Scan(&team.ID, &team.Name, &team.CaptainID, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotOnTeam
		}
		return nil, fmt.Errorf("failed to look up team: %w", err)
	}
	return &team, nil
}

func (s *TeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT tm.id, tm.team_id, tm.user_id, tm.created_at,
		       u.id, u.email, u.name, u.role, u.created_at, u.updated_at
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.created_at
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var member models.TeamMember
		var user models.User
		if err := rows.Scan(
			&member.ID, &member.TeamID, &member.UserID, &member.CreatedAt,
			&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		member.User = &user
		members = append(members, member)
	}
	return members, nil
}

// Leave removes the user's membership. A captain leaving deletes the whole
// team; memberships and invite tokens cascade, submissions stay behind for
// auditing. The team row is locked so a handover landing at the same moment
// is seen before the captain check decides between leaving and disbanding.
func (s *TeamService) Leave(ctx context.Context, userID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var teamID, captainID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT t.id, t.captain_id
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id
		WHERE tm.user_id = $1
		FOR UPDATE OF t
	`, userID).Scan(&teamID, &captainID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotOnTeam
		}
		return fmt.Errorf("failed to look up team: %w", err)
	}

	if captainID == userID {
		_, err = tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	} else {
		_, err = tx.Exec(ctx, `DELETE FROM team_members WHERE user_id = $1`, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to leave team: %w", err)
	}
	return tx.Commit(ctx)
}

// TransferCaptain reassigns captaincy within the acting captain's team. The
// team row and the target's membership row are locked for the duration so a
// concurrent leave or removal cannot strand captain_id on a non-member.
func (s *TeamService) TransferCaptain(ctx context.Context, actingUserID, targetUserID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var teamID, captainID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT t.id, t.captain_id
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id
		WHERE tm.user_id = $1
		FOR UPDATE OF t
	`, actingUserID).Scan(&teamID, &captainID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotOnTeam
		}
		return fmt.Errorf("failed to look up team: %w", err)
	}
	if captainID != actingUserID {
		return ErrNotCaptain
	}

	// Lock the target's membership row: a leave racing this handover either
	// commits first (no row left, transfer refused) or waits until the new
	// captaincy is visible.
	var membershipID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM team_members
		WHERE team_id = $1 AND user_id = $2
		FOR UPDATE
	`, teamID, targetUserID).Scan(&membershipID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotMember
		}
		return fmt.Errorf("failed to lock membership: %w", err)
	}

	// Guard on captain_id so a raced transfer cannot overwrite a newer one.
	tag, err := tx.Exec(ctx, `
		UPDATE teams SET captain_id = $1 WHERE id = $2 AND captain_id = $3
	`, targetUserID, teamID, actingUserID)
	if err != nil {
		return fmt.Errorf("failed to transfer captaincy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotCaptain
	}
	return tx.Commit(ctx)
}

// RemoveMember lets the captain drop a teammate, outside the active
// competition window. Locks the team row for the same reason Leave does.
func (s *TeamService) RemoveMember(ctx context.Context, actingUserID, targetUserID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var teamID, captainID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT t.id, t.captain_id
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id
		WHERE tm.user_id = $1
		FOR UPDATE OF t
	`, actingUserID).Scan(&teamID, &captainID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotOnTeam
		}
		return fmt.Errorf("failed to look up team: %w", err)
	}
	if captainID != actingUserID {
		return ErrNotCaptain
	}
	if targetUserID == actingUserID {
		return ErrCannotRemoveSelf
	}
	if s.competitionActive {
		return ErrCompetitionLocked
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotMember
	}
	return tx.Commit(ctx)
}
