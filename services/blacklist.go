package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist keeps revoked access tokens in Redis until their natural
// expiry, so a logged-out token cannot be replayed.
type TokenBlacklist struct {
	Client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{Client: client}
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}

// Add revokes a token. The entry lives only as long as the token itself
// would; a ttl that has already passed is a no-op.
func (b *TokenBlacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.Client.Set(ctx, blacklistKey(token), "revoked", ttl).Err()
}

// Contains reports whether a token has been revoked.
func (b *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	count, err := b.Client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
