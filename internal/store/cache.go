package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"dailydigest/internal/db"
	"dailydigest/internal/logger"
)

const tokenCachePrefix = "digest:token:"

// TokenCacheTTL bounds how long a verification result is trusted.
const TokenCacheTTL = 10 * time.Minute

// TokenCache keeps token verification results in redis, keyed by a hash of
// the token so the token itself never reaches the cache.
type TokenCache struct {
	ttl time.Duration
}

func NewTokenCache(ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = TokenCacheTTL
	}
	return &TokenCache{ttl: ttl}
}

func (c *TokenCache) Lookup(ctx context.Context, token string) (bool, bool) {
	if !db.CacheEnabled() {
		return false, false
	}

	val, err := db.CacheGet(ctx, tokenKey(token))
	if db.IsCacheMiss(err) {
		return false, false
	}
	if err != nil {
		logger.Warn(ctx, "token cache lookup failed", "error", err)
		return false, false
	}
	return val == "1", true
}

func (c *TokenCache) Remember(ctx context.Context, token string, valid bool) {
	if !db.CacheEnabled() {
		return
	}

	val := "0"
	if valid {
		val = "1"
	}
	if err := db.CacheSetTTL(ctx, tokenKey(token), val, c.ttl); err != nil {
		logger.Warn(ctx, "token cache write failed", "error", err)
	}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenCachePrefix + hex.EncodeToString(sum[:])
}
