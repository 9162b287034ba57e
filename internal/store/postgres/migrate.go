package postgres

import (
	"context"
	"fmt"
)

const profilesSchema = `
CREATE TABLE IF NOT EXISTS profiles (
    id             UUID PRIMARY KEY,
    user_id        TEXT NOT NULL UNIQUE,
    twitter_id     TEXT,
    twitter_handle TEXT,
    display_name   TEXT,
    avatar_url     TEXT,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS profiles_twitter_id_idx ON profiles (twitter_id);
`

// Migrate creates the profiles table if it does not exist.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, profilesSchema); err != nil {
		return fmt.Errorf("migrate profiles: %w", err)
	}
	return nil
}
