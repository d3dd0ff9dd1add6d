package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adminhub/user-management/internal/core/domain"
)

const userCacheTTL = 5 * time.Minute

// UserCache stores sanitized users keyed by id. A cache entry never carries
// the password hash: entries are written from the token→user path, which
// strips it, and the JSON encoding of domain.User omits it anyway.
// Failures degrade to a miss; the caller falls back to the repository.
type UserCache struct {
	client *redis.Client
}

// NewUserCache wraps the given Redis client.
func NewUserCache(client *redis.Client) *UserCache {
	return &UserCache{client: client}
}

// cachedUser is the wire shape of a cache entry. Spelled out explicitly
// because domain.User hides fields from JSON that the cache must round-trip.
type cachedUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Gender    string    `json:"gender"`
	BirthDate time.Time `json:"birth_date"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get returns the cached user, or (nil, false) on miss or backend error.
func (c *UserCache) Get(ctx context.Context, id int64) (*domain.User, bool) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return nil, false
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, false
	}
	return &domain.User{
		ID:        cu.ID,
		Username:  cu.Username,
		FirstName: cu.FirstName,
		LastName:  cu.LastName,
		Gender:    cu.Gender,
		BirthDate: cu.BirthDate,
		Role:      cu.Role,
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}, true
}

// Set stores the user for userCacheTTL. Errors are ignored: the cache is
// best-effort and the repository remains the source of truth.
func (c *UserCache) Set(ctx context.Context, user *domain.User) {
	raw, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Gender:    user.Gender,
		BirthDate: user.BirthDate,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(user.ID), raw, userCacheTTL).Err()
}

// Invalidate drops the cached entry after an update or delete.
func (c *UserCache) Invalidate(ctx context.Context, id int64) {
	_ = c.client.Del(ctx, c.key(id)).Err()
}

func (c *UserCache) key(id int64) string {
	return fmt.Sprintf("user:%d", id)
}
