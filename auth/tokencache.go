package auth

import (
	"context"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/andrebq/blogd/internal/logutil"
	"github.com/cespare/xxhash/v2"
)

type (
	// TokenCache remembers tokens that already passed verification.
	TokenCache interface {
		Save(ctx context.Context, token string, username string) error
		Lookup(ctx context.Context, token string) (username string, found bool, err error)
	}

	memCache struct {
		cache *bigcache.BigCache
	}

	xxhasher struct{}

	cachedVerifier struct {
		next  TokenVerifier
		cache TokenCache
	}
)

func (xxhasher) Sum64(key string) uint64 {
	return xxhash.Sum64String(key)
}

// InMemoryTokenCache keeps verified tokens in memory for ttl.
func InMemoryTokenCache(ttl time.Duration) (TokenCache, error) {
	cfg := bigcache.DefaultConfig(ttl)
	// entries are a username keyed by a token, a few hundred bytes at most
	cfg.Shards = 64
	cfg.MaxEntriesInWindow = 10_000
	cfg.MaxEntrySize = 256
	cfg.HardMaxCacheSize = 64
	cfg.Hasher = xxhasher{}
	cache, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, err
	}
	return &memCache{
		cache: cache,
	}, nil
}

func (m *memCache) Save(ctx context.Context, token string, username string) error {
	return m.cache.Set(token, []byte(username))
}

func (m *memCache) Lookup(ctx context.Context, token string) (string, bool, error) {
	buf, err := m.cache.Get(token)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return string(buf), len(buf) > 0, nil
}

// CachedVerifier consults cache before running the signature check of next.
// Only tokens that verified successfully are saved.
func CachedVerifier(next TokenVerifier, cache TokenCache) TokenVerifier {
	if cache == nil {
		return next
	}
	return &cachedVerifier{next: next, cache: cache}
}

func (c *cachedVerifier) Verify(ctx context.Context, token string) (Claims, error) {
	log := logutil.GetOrDefault(ctx)
	if username, found, err := c.cache.Lookup(ctx, token); err != nil {
		log.Warn().Err(err).Msg("Unable to read token cache, falling back to signature check")
	} else if found {
		return Claims{Username: username}, nil
	}
	claims, err := c.next.Verify(ctx, token)
	if err != nil {
		return Claims{}, err
	}
	if err := c.cache.Save(ctx, token, claims.Username); err != nil {
		log.Warn().Err(err).Msg("Unable to save token to cache")
	}
	return claims, nil
}
