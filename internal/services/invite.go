package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/clubctf-api/internal/database"
	"github.com/dimitrije/clubctf-api/internal/metrics"
	"github.com/dimitrije/clubctf-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidInvite   = errors.New("invite code not recognized")
	ErrInviteExpired   = errors.New("invite code has expired")
	ErrInviteExhausted = errors.New("invite code has no uses left")
	ErrTeamFull        = errors.New("team is full")
)

const inviteCodeLength = 20

// Unambiguous alphabet: no 0/O or 1/I/L, codes end up in shareable links.
const inviteCodeCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func generateInviteCode() string {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails if the OS entropy source is broken.
		panic(fmt.Sprintf("failed to read random bytes: %v", err))
	}
	for i, b := range buf {
		buf[i] = inviteCodeCharset[int(b)%len(inviteCodeCharset)]
	}
	return string(buf)
}

type InviteService struct {
	db *database.DB

	// memberCap is the team size ceiling enforced at redemption.
	memberCap int
}

func NewInviteService(db *database.DB, memberCap int) *InviteService {
	return &InviteService{db: db, memberCap: memberCap}
}

// Regenerate revokes the team's current invite token and issues a fresh one.
// The old code stops being recognized immediately, regardless of its own
// expiry or use count.
func (s *InviteService) Regenerate(ctx context.Context, actingUserID, teamID uuid.UUID, expiresIn *time.Duration, maxUses *int) (*models.InviteToken, error) {
	var captainID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT captain_id FROM teams WHERE id = $1`, teamID).Scan(&captainID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotOnTeam
		}
		return nil, fmt.Errorf("failed to look up team: %w", err)
	}
	if captainID != actingUserID {
		return nil, ErrNotCaptain
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE invite_tokens SET revoked_at = NOW()
		WHERE team_id = $1 AND revoked_at IS NULL
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke current token: %w", err)
	}

	var expiresAt *time.Time
	if expiresIn != nil {
		t := time.Now().Add(*expiresIn)
		expiresAt = &t
	}

	var token models.InviteToken
	err = tx.QueryRow(ctx, `
		INSERT INTO invite_tokens (code, team_id, expires_at, max_uses)
		VALUES ($1, $2, $3, $4)
		RETURNING id, code, team_id, expires_at, max_uses, use_count, created_at
	`, generateInviteCode(), teamID, expiresAt, maxUses).Scan(
		&token.ID, &token.Code, &token.TeamID, &token.ExpiresAt,
		&token.MaxUses, &token.UseCount, &token.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to issue invite token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &token, nil
}

// GetTeamToken returns the team's live invite token. Members only.
func (s *InviteService) GetTeamToken(ctx context.Context, actingUserID, teamID uuid.UUID) (*models.InviteToken, error) {
	var isMember bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, actingUserID).Scan(&isMember)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, ErrNotMember
	}

	var token models.InviteToken
	err = s.db.Pool.QueryRow(ctx, `
		SELECT id, code, team_id, expires_at, max_uses, use_count, created_at
		FROM invite_tokens
		WHERE team_id = $1 AND revoked_at IS NULL
	`, teamID).Scan(
		&token.ID, &token.Code, &token.TeamID, &token.ExpiresAt,
		&token.MaxUses, &token.UseCount, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidInvite
		}
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}
	return &token, nil
}

// Redeem joins a user to the token's team. The whole check-and-join sequence
// runs in one transaction: the token row is locked to serialize concurrent
// redemptions of the same code, the team row is locked before the capacity
// count, and both the use-count increment and the membership insert are
// re-validated at write time. Two racing redemptions can never both slip past
// the cap or the use limit.
func (s *InviteService) Redeem(ctx context.Context, code string, userID uuid.UUID) (*models.Team, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var token models.InviteToken
	err = tx.QueryRow(ctx, `
		SELECT id, code, team_id, expires_at, max_uses, use_count, created_at
		FROM invite_tokens
		WHERE code = $1 AND revoked_at IS NULL
		FOR UPDATE
	`, code).Scan(
		&token.ID, &token.Code, &token.TeamID, &token.ExpiresAt,
		&token.MaxUses, &token.UseCount, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			metrics.InviteRedemptionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, ErrInvalidInvite
		}
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}

	if token.ExpiresAt != nil && time.Now().After(*token.ExpiresAt) {
		metrics.InviteRedemptionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, ErrInviteExpired
	}
	if token.MaxUses != nil && token.UseCount >= *token.MaxUses {
		metrics.InviteRedemptionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, ErrInviteExhausted
	}

	var team models.Team
	err = tx.QueryRow(ctx, `
		SELECT id, name, captain_id, created_at
		FROM teams WHERE id = $1
		FOR UPDATE
	`, token.TeamID).Scan(&team.ID, &team.Name, &team.CaptainID, &team.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to lock team: %w", err)
	}

	var memberCount int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM team_members WHERE team_id = $1
	`, team.ID).Scan(&memberCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if memberCount >= s.memberCap {
		metrics.InviteRedemptionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, ErrTeamFull
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id)
		VALUES ($1, $2)
	`, team.ID, userID)
	if err != nil {
		if isUniqueViolation(err, membershipUserConstraint) {
			metrics.InviteRedemptionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, ErrAlreadyOnTeam
		}
		return nil, fmt.Errorf("failed to insert membership: %w", err)
	}

	// Commit-time re-validation of the use limit: the guarded update refuses
	// the increment if another redemption got there first.
	tag, err := tx.Exec(ctx, `
		UPDATE invite_tokens SET use_count = use_count + 1
		WHERE id = $1 AND (max_uses IS NULL OR use_count < max_uses)
	`, token.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume invite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		metrics.InviteRedemptionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, ErrInviteExhausted
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.InviteRedemptionsTotal.WithLabelValues(metrics.OutcomeJoined).Inc()
	return &team, nil
}
