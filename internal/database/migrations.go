package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'member',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(100) NOT NULL,
		captain_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// user_id is unique on its own: a user belongs to at most one team,
	// platform-wide.
	`CREATE TABLE IF NOT EXISTS team_members (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE UNIQUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS invite_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(64) UNIQUE NOT NULL,
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		expires_at TIMESTAMP WITH TIME ZONE,
		max_uses INTEGER,
		use_count INTEGER NOT NULL DEFAULT 0,
		revoked_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// One live token per team; revoked rows persist for auditing.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_invite_tokens_live_team
		ON invite_tokens(team_id) WHERE revoked_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS challenges (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(100) NOT NULL,
		category VARCHAR(50) NOT NULL,
		difficulty VARCHAR(20) NOT NULL DEFAULT 'medium',
		points INTEGER NOT NULL,
		flag VARCHAR(255) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Append-only submission log. team_id is deliberately not a foreign key:
	// rows must survive team deletion for auditing.
	`CREATE TABLE IF NOT EXISTS submissions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_id UUID NOT NULL,
		challenge_id UUID NOT NULL REFERENCES challenges(id),
		submitted_by UUID NOT NULL REFERENCES users(id),
		submitted_flag VARCHAR(500) NOT NULL,
		is_correct BOOLEAN NOT NULL DEFAULT FALSE,
		points_awarded INTEGER NOT NULL DEFAULT 0,
		submitted_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// At most one scored correct submission per (team, challenge). Concurrent
	// correct submissions race on this index; the loser records a zero-point
	// audit row.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_scored
		ON submissions(team_id, challenge_id) WHERE is_correct AND points_awarded > 0`,

	`CREATE INDEX IF NOT EXISTS idx_team_members_team_id ON team_members(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invite_tokens_code ON invite_tokens(code)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_team_id ON submissions(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_challenge_id ON submissions(challenge_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at ON submissions(submitted_at)`,

	// Singleton row: id is constrained to TRUE so a second row can never be
	// inserted.
	`CREATE TABLE IF NOT EXISTS freeze_state (
		id BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (id),
		is_frozen BOOLEAN NOT NULL DEFAULT FALSE,
		frozen_at TIMESTAMP WITH TIME ZONE
	)`,

	`INSERT INTO freeze_state (id, is_frozen) VALUES (TRUE, FALSE)
		ON CONFLICT (id) DO NOTHING`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
