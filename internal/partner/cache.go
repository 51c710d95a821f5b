package partner

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const listCacheKey = "partnerdesk:partners:all"

// CachedDirectory adds a Redis read-through cache in front of the partner
// listing. Only ListPartners is cached: it backs the eligible-partner display
// path, where bounded staleness is acceptable. Single-partner lookups and
// certification reads always hit the backing directory because they feed
// authorization and compliance decisions.
type CachedDirectory struct {
	Directory
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedDirectory(inner Directory, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedDirectory {
	return &CachedDirectory{Directory: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func (d *CachedDirectory) ListPartners(ctx context.Context) ([]Partner, error) {
	if cached, err := d.rdb.Get(ctx, listCacheKey).Bytes(); err == nil {
		var out []Partner
		if err := json.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
		// Unparseable cache entries are dropped, not served.
		d.rdb.Del(ctx, listCacheKey)
	}

	out, err := d.Directory.ListPartners(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(out); err == nil {
		if err := d.rdb.Set(ctx, listCacheKey, payload, d.ttl).Err(); err != nil {
			d.logger.WarnContext(ctx, "partner list cache write failed", "error", err)
		}
	}
	return out, nil
}

// Invalidate drops the cached listing, e.g. after the portal edits a partner.
func (d *CachedDirectory) Invalidate(ctx context.Context) {
	if err := d.rdb.Del(ctx, listCacheKey).Err(); err != nil {
		d.logger.WarnContext(ctx, "partner list cache invalidation failed", "error", err)
	}
}

// compile-time interface checks
var (
	_ Directory = (*InMemoryDirectory)(nil)
	_ Directory = (*PostgresDirectory)(nil)
	_ Directory = (*CachedDirectory)(nil)
)
