package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

const catalogBucket = "resource_types"

// DefaultCacheTTL is how long a cached per-region type list stays valid.
// The registry churns slowly; a day-old list is still a day fresher than
// re-walking every registry page on every run.
const DefaultCacheTTL = 24 * time.Hour

type cachedTypes struct {
	FetchedAt time.Time `json:"fetched_at"`
	Types     []string  `json:"types"`
}

// CachedCatalog wraps a TypeCatalog with an on-disk cache of per-region
// type lists. Cache problems degrade to a live lookup, never to a failure.
type CachedCatalog struct {
	inner  TypeCatalog
	db     *bolt.DB
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// OpenCachedCatalog opens (or creates) the cache file at path.
func OpenCachedCatalog(path string, inner TypeCatalog, logger zerolog.Logger) (*CachedCatalog, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open type cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(catalogBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init type cache %s: %w", path, err)
	}
	return &CachedCatalog{
		inner:  inner,
		db:     db,
		ttl:    DefaultCacheTTL,
		logger: logger,
		now:    time.Now,
	}, nil
}

// SupportedTypes serves the region's type list from cache when fresh,
// otherwise fetches it live and refreshes the cache.
func (c *CachedCatalog) SupportedTypes(ctx context.Context, region string) ([]string, error) {
	if cached, ok := c.lookup(region); ok {
		c.logger.Debug().Str("region", region).Int("types", len(cached)).Msg("resource types served from cache")
		return cached, nil
	}

	supported, err := c.inner.SupportedTypes(ctx, region)
	if err != nil {
		return nil, err
	}
	if err := c.store(region, supported); err != nil {
		c.logger.Warn().Err(err).Str("region", region).Msg("failed to update type cache")
	}
	return supported, nil
}

func (c *CachedCatalog) lookup(region string) ([]string, bool) {
	var entry cachedTypes
	found := false
	err := c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(catalogBucket)).Get([]byte(region))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			// Treat a corrupt entry as a miss; it gets rewritten.
			return nil
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return nil, false
	}
	if c.now().Sub(entry.FetchedAt) > c.ttl {
		return nil, false
	}
	return entry.Types, true
}

func (c *CachedCatalog) store(region string, supported []string) error {
	raw, err := json.Marshal(cachedTypes{FetchedAt: c.now(), Types: supported})
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(catalogBucket)).Put([]byte(region), raw)
	})
}

// Close closes the cache file.
func (c *CachedCatalog) Close() error {
	return c.db.Close()
}
