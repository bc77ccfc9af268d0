package offers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/qtyoffers/pkg/redis"
	"github.com/google/uuid"
)

// DefaultCacheTTL applies when the cache is built without a TTL.
const DefaultCacheTTL = 10 * time.Minute

type keyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	OffersKey(productID string) string
}

// Cache keeps serialized snapshots in redis. It never stores derived prices.
type Cache struct {
	store keyValueStore
	ttl   time.Duration
}

// NewCache wraps the redis client.
func NewCache(store keyValueStore, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{store: store, ttl: ttl}
}

// Get returns the cached snapshot. A miss returns ok=false with no error.
func (c *Cache) Get(ctx context.Context, productID uuid.UUID) (*Snapshot, bool, error) {
	raw, err := c.store.Get(ctx, c.store.OffersKey(productID.String()))
	if err != nil {
		if redis.IsMiss(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, false, fmt.Errorf("decode cached offers: %w", err)
	}
	return &snap, true, nil
}

// Put stores the snapshot with the configured TTL, replacing any cached copy.
// Writers use it after a commit so the cache holds the committed state.
func (c *Cache) Put(ctx context.Context, snap *Snapshot) error {
	payload, err := c.encode(snap)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.store.OffersKey(snap.ProductID.String()), payload, c.ttl)
}

// Fill stores a snapshot read from the database only when no copy is cached.
// A read that raced with a save therefore never replaces the saved snapshot.
func (c *Cache) Fill(ctx context.Context, snap *Snapshot) error {
	payload, err := c.encode(snap)
	if err != nil {
		return err
	}
	_, err = c.store.SetNX(ctx, c.store.OffersKey(snap.ProductID.String()), payload, c.ttl)
	return err
}

func (c *Cache) encode(snap *Snapshot) (string, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode offers: %w", err)
	}
	return string(payload), nil
}

// Invalidate drops the cached snapshot for the product.
func (c *Cache) Invalidate(ctx context.Context, productID uuid.UUID) error {
	return c.store.Del(ctx, c.store.OffersKey(productID.String()))
}
