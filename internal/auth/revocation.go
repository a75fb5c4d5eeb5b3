package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "qna:revoked"

// RevocationList tracks revoked token ids in Redis. Entries carry a TTL equal
// to the token's remaining lifetime, so the list never outgrows the set of
// tokens that could still be replayed.
type RevocationList struct {
	redis  *redis.Client
	prefix string
}

func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{redis: client, prefix: revocationKeyPrefix}
}

func (l *RevocationList) key(tokenID string) string {
	return l.prefix + ":" + tokenID
}

// Revoke marks a token id as revoked for the given TTL.
func (l *RevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := l.redis.Set(ctx, l.key(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revocation store unavailable: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token id is on the list.
func (l *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.redis.Exists(ctx, l.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation store unavailable: %w", err)
	}
	return n > 0, nil
}
