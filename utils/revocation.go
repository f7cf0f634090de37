package utils

import (
	"context"
	"sync"
	"time"
)

// revokedKeyPrefix is shared with the host application, whose logout writes these keys.
const revokedKeyPrefix = "jwt:blacklist:"

var (
	revoked   = map[string]time.Time{}
	revokedMu sync.Mutex
)

// RevokeToken marks a token unusable until it would have expired anyway.
// Embedding hosts call it on logout; with Redis disabled it only affects this process.
func RevokeToken(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, revokedKeyPrefix+token, "1", ttl).Err(); err != nil {
			Sugar.Warnf("token revoke failed err=%v", err)
		}
		return
	}
	revokedMu.Lock()
	revoked[token] = expiresAt
	revokedMu.Unlock()
}

// IsTokenRevoked reports whether a token was revoked before its natural expiry.
// Redis errors fail open.
func IsTokenRevoked(ctx context.Context, token string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, revokedKeyPrefix+token).Result()
		if err != nil {
			Sugar.Warnf("token revocation lookup failed err=%v", err)
			return false
		}
		return n > 0
	}

	revokedMu.Lock()
	defer revokedMu.Unlock()
	expiresAt, ok := revoked[token]
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		delete(revoked, token)
		return false
	}
	return true
}
