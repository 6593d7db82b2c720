// Package reccache caches recommendation results in a key-value store.
// Values are the JSON-encoded record IDs, namespaced by index configuration
// and dataset fingerprint.
package reccache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dinerec/internal/db"
	"github.com/kailas-cloud/dinerec/internal/domain/criteria"
)

// KeyPrefix namespaces cache keys.
const KeyPrefix = "dinerec:rec:"

// Store is the consumer interface for the cache (ISP).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache implements recommend.Cache. Store failures are logged and reported as misses.
type Cache struct {
	store     Store
	namespace string
	ttl       time.Duration
	logger    *zap.Logger
}

// New creates a cache with the given entry TTL. Namespace separates results
// computed under different index settings (see index.Config.Key).
func New(s Store, namespace string, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{store: s, namespace: namespace, ttl: ttl, logger: logger}
}

// Get returns cached IDs for the criteria.
func (c *Cache) Get(ctx context.Context, fingerprint string, cr *criteria.Criteria) ([]int, bool) {
	key := cacheKey(c.namespace, fingerprint, cr)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached recommendation", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		c.logger.Warn("Failed to parse cached recommendation", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return ids, true
}

// Put stores result IDs for the criteria.
func (c *Cache) Put(ctx context.Context, fingerprint string, cr *criteria.Criteria, ids []int) {
	key := cacheKey(c.namespace, fingerprint, cr)
	if ids == nil {
		ids = []int{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		c.logger.Warn("Failed to encode recommendation", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache recommendation", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(namespace, fingerprint string, cr *criteria.Criteria) string {
	h := sha256.Sum256([]byte(namespace + "\x00" + fingerprint + "\x00" + cr.Key()))
	return KeyPrefix + hex.EncodeToString(h[:])
}
