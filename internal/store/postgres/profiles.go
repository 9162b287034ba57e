package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID            uuid.UUID
	UserID        string
	TwitterID     *string
	TwitterHandle *string
	DisplayName   *string
	AvatarUrl     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const profileColumns = `id, user_id, twitter_id, twitter_handle, display_name, avatar_url, created_at, updated_at`

const getProfileByUserID = `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

func (q *Queries) GetProfileByUserID(ctx context.Context, userID string) (Profile, error) {
	row := q.db.QueryRow(ctx, getProfileByUserID, userID)
	var i Profile
	err := row.Scan(
		&i.ID, &i.UserID, &i.TwitterID, &i.TwitterHandle,
		&i.DisplayName, &i.AvatarUrl, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

// upsertProfile relies on the unique user_id constraint so concurrent calls
// for the same user converge on one row.
const upsertProfile = `
INSERT INTO profiles (id, user_id, twitter_id, twitter_handle, display_name, avatar_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (user_id) DO UPDATE SET
    twitter_id     = COALESCE(EXCLUDED.twitter_id, profiles.twitter_id),
    twitter_handle = EXCLUDED.twitter_handle,
    display_name   = EXCLUDED.display_name,
    avatar_url     = EXCLUDED.avatar_url,
    updated_at     = EXCLUDED.updated_at
RETURNING ` + profileColumns

type UpsertProfileParams struct {
	ID            uuid.UUID
	UserID        string
	TwitterID     *string
	TwitterHandle *string
	DisplayName   *string
	AvatarUrl     *string
	Now           time.Time
}

func (q *Queries) UpsertProfile(ctx context.Context, arg UpsertProfileParams) (Profile, error) {
	row := q.db.QueryRow(ctx, upsertProfile,
		arg.ID, arg.UserID, arg.TwitterID, arg.TwitterHandle,
		arg.DisplayName, arg.AvatarUrl, arg.Now,
	)
	var i Profile
	err := row.Scan(
		&i.ID, &i.UserID, &i.TwitterID, &i.TwitterHandle,
		&i.DisplayName, &i.AvatarUrl, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

const countProfilesByUserID = `SELECT count(*) FROM profiles WHERE user_id = $1`

func (q *Queries) CountProfilesByUserID(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countProfilesByUserID, userID).Scan(&n)
	return n, err
}
