package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/meditrack/meditrack-backend/internal/cache"
	"github.com/rs/zerolog/log"
)

// CachedVerifier wraps a Verifier with a short-lived cache of successful
// verdicts so repeated requests with the same token skip verification.
// Failed verifications are never cached.
type CachedVerifier struct {
	inner Verifier
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedVerifier creates a caching decorator around inner
func NewCachedVerifier(inner Verifier, c cache.Cache, ttl time.Duration) *CachedVerifier {
	return &CachedVerifier{inner: inner, cache: c, ttl: ttl}
}

// Verify returns a cached identity when present, otherwise delegates to
// the inner verifier and caches the result. Cache failures degrade to a
// plain verification; they are logged, never surfaced.
func (v *CachedVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	key := cache.IdentityKey(hashToken(token))

	if data, err := v.cache.Get(ctx, key); err == nil {
		var identity Identity
		if err := json.Unmarshal(data, &identity); err == nil {
			return &identity, nil
		}
		// Unreadable entry, drop it and verify normally
		if err := v.cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Msg("Failed to evict corrupt identity cache entry")
		}
	}

	identity, err := v.inner.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(identity); err == nil {
		if err := v.cache.Set(ctx, key, data, v.ttl); err != nil {
			log.Warn().Err(err).Msg("Failed to cache verified identity")
		}
	}

	return identity, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
