// Package profile owns the one-row-per-user profile records.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maraichr/gradient/internal/metrics"
	"github.com/maraichr/gradient/internal/store/postgres"
	"github.com/maraichr/gradient/pkg/models"
)

// ErrMissingUserID is returned when an external profile has no user id.
var ErrMissingUserID = errors.New("external profile has no user id")

// Queries is the subset of the generated queries the service needs.
type Queries interface {
	GetProfileByUserID(ctx context.Context, userID string) (postgres.Profile, error)
	UpsertProfile(ctx context.Context, arg postgres.UpsertProfileParams) (postgres.Profile, error)
}

// Cache is an optional read-through cache in front of Queries.
type Cache interface {
	Get(ctx context.Context, userID string) (models.Profile, bool, error)
	Set(ctx context.Context, p models.Profile) error
	Invalidate(ctx context.Context, userID string) error
}

// Service implements profile lookup and get-or-create.
type Service struct {
	queries Queries
	cache   Cache
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a Service. cache may be nil.
func NewService(q Queries, cache Cache, logger *slog.Logger) *Service {
	return &Service{queries: q, cache: cache, logger: logger, now: time.Now}
}

// GetByUserID looks up a profile. A missing profile is reported as
// (zero, false, nil), never as an error.
func (s *Service) GetByUserID(ctx context.Context, userID string) (models.Profile, bool, error) {
	if userID == "" {
		return models.Profile{}, false, nil
	}

	if s.cache != nil {
		p, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("profile cache read failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		} else if ok {
			return p, true, nil
		}
	}

	row, err := s.queries.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, false, nil
		}
		return models.Profile{}, false, fmt.Errorf("get profile %s: %w", userID, err)
	}

	p := toModel(row)
	if s.cache != nil {
		if err := s.cache.Set(ctx, p); err != nil {
			s.logger.Warn("profile cache write failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		}
	}
	return p, true, nil
}

// GetOrCreate inserts the profile or, when one exists for the same user,
// overwrites its handle, display name and avatar and bumps updated_at.
// The upsert is a single statement keyed on the unique user_id.
func (s *Service) GetOrCreate(ctx context.Context, ext models.ExternalProfile) (models.Profile, error) {
	if ext.ExternalUserID == "" {
		return models.Profile{}, ErrMissingUserID
	}

	row, err := s.queries.UpsertProfile(ctx, postgres.UpsertProfileParams{
		ID:            uuid.New(),
		UserID:        ext.ExternalUserID,
		TwitterID:     nullable(ext.TwitterID),
		TwitterHandle: nullable(ext.Handle),
		DisplayName:   nullable(ext.DisplayName),
		AvatarUrl:     nullable(ext.AvatarURL),
		Now:           s.now().UTC(),
	})
	metrics.RecordUpsert(err)
	if err != nil {
		return models.Profile{}, fmt.Errorf("upsert profile %s: %w", ext.ExternalUserID, err)
	}

	p := toModel(row)
	s.logger.Info("profile saved",
		slog.String("user_id", p.UserID),
		slog.String("twitter_handle", p.TwitterHandle),
		slog.Bool("created", p.CreatedAt.Equal(p.UpdatedAt)))

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, p.UserID); err != nil {
			s.logger.Warn("profile cache invalidate failed", slog.String("user_id", p.UserID), slog.String("error", err.Error()))
		}
	}
	return p, nil
}

func toModel(r postgres.Profile) models.Profile {
	return models.Profile{
		ID:            r.ID,
		UserID:        r.UserID,
		TwitterID:     deref(r.TwitterID),
		TwitterHandle: deref(r.TwitterHandle),
		DisplayName:   deref(r.DisplayName),
		AvatarURL:     deref(r.AvatarUrl),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
