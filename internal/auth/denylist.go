package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist remembers revoked tokens until they would have expired anyway
type Denylist struct {
	client redis.Cmdable
	prefix string
}

func NewDenylist(client redis.Cmdable) *Denylist {
	return &Denylist{client: client, prefix: "denylist:"}
}

func (d *Denylist) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return d.prefix + hex.EncodeToString(sum[:])
}

// Revoke denies token for ttl
func (d *Denylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" || ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, d.key(token), 1, ttl).Err()
}

// IsRevoked reports whether token was revoked
func (d *Denylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
