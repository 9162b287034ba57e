package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/maraichr/gradient/pkg/models"
)

const (
	profileKeyPrefix       = "gradient:profile:"
	defaultProfileCacheTTL = 5 * time.Minute
)

// ProfileCache is a read-through cache of profiles keyed by user id.
// Only hits are cached; a missing profile is always looked up in Postgres.
type ProfileCache struct {
	client valkey.Client
	ttl    time.Duration
}

// NewProfileCache creates a cache backed by the given Valkey client.
func NewProfileCache(client valkey.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = defaultProfileCacheTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

// Get returns the cached profile, reporting false on a miss.
func (c *ProfileCache) Get(ctx context.Context, userID string) (models.Profile, bool, error) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(profileKey(userID)).Build())
	data, err := resp.AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return models.Profile{}, false, nil
		}
		return models.Profile{}, false, fmt.Errorf("get cached profile %s: %w", userID, err)
	}

	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		// Drop the corrupt entry so the next read repopulates it.
		if delErr := c.Invalidate(ctx, userID); delErr != nil {
			return models.Profile{}, false, fmt.Errorf("decode cached profile %s: %w (%v)", userID, err, delErr)
		}
		return models.Profile{}, false, fmt.Errorf("decode cached profile %s: %w", userID, err)
	}
	return p, true, nil
}

// Set stores the profile with the cache TTL.
func (c *ProfileCache) Set(ctx context.Context, p models.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	resp := c.client.Do(ctx, c.client.B().Set().Key(profileKey(p.UserID)).Value(string(data)).Ex(c.ttl).Build())
	if err := resp.Error(); err != nil {
		return fmt.Errorf("cache profile %s: %w", p.UserID, err)
	}
	return nil
}

// Invalidate drops the cached profile for userID.
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) error {
	resp := c.client.Do(ctx, c.client.B().Del().Key(profileKey(userID)).Build())
	if err := resp.Error(); err != nil {
		return fmt.Errorf("invalidate profile %s: %w", userID, err)
	}
	return nil
}

func profileKey(userID string) string {
	return profileKeyPrefix + userID
}
