package repo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRepository keeps refresh tokens and the access-token blacklist in
// Redis, keyed per user so logout can invalidate both sides at once.
type SessionRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userID string) (string, error)
	DeleteRefreshToken(ctx context.Context, userID string) error
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

type SessionRepo struct {
	client *redis.Client
}

func NewSessionRepo(client *redis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func refreshKey(userID string) string  { return "session:refresh:" + userID }
func blacklistKey(token string) string { return "session:blacklist:" + token }

func (r *SessionRepo) SaveRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return r.client.Set(ctx, refreshKey(userID), token, ttl).Err()
}

func (r *SessionRepo) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	token, err := r.client.Get(ctx, refreshKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}

func (r *SessionRepo) DeleteRefreshToken(ctx context.Context, userID string) error {
	return r.client.Del(ctx, refreshKey(userID)).Err()
}

func (r *SessionRepo) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return r.client.Set(ctx, blacklistKey(token), 1, ttl).Err()
}

func (r *SessionRepo) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	count, err := r.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
