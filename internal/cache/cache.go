package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"qrtrack/internal/entities"
)

// tombstone marks a slug whose cached record was just invalidated. While it
// is present, Get reports a miss and Set refuses to fill, so a fill racing an
// update or archive cannot reinstall the stale record.
const tombstone = "__invalidated__"

// tombstoneTTL bounds how long fills stay blocked after an invalidation. It
// only needs to outlive an in-flight redirect that read the old row.
const tombstoneTTL = 10 * time.Second

// QRCodeCache keeps resolved slugs in Redis so the redirect hot path can skip
// the database. Entries are invalidated on update and archive; any cache
// error degrades to a normal DB lookup.
type QRCodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *QRCodeCache {
	return &QRCodeCache{client: client, ttl: ttl}
}

func key(slug string) string { return "qrcode:" + slug }

// Get returns the cached record, or nil on a miss. A tombstoned slug reads as
// a miss so the caller falls through to the database.
func (c *QRCodeCache) Get(ctx context.Context, slug string) (*entities.QRCode, error) {
	raw, err := c.client.Get(ctx, key(slug)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if raw == tombstone {
		return nil, nil
	}

	var qr entities.QRCode
	if err := json.Unmarshal([]byte(raw), &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

// Set fills the cache only when the key is empty. SETNX leaves both an
// existing entry and a tombstone untouched, which makes a late fill after an
// invalidation a harmless no-op.
func (c *QRCodeCache) Set(ctx context.Context, qr *entities.QRCode) error {
	raw, err := json.Marshal(qr)
	if err != nil {
		return err
	}
	return c.client.SetNX(ctx, key(qr.Slug), raw, c.ttl).Err()
}

// Invalidate replaces the entry with a short-lived tombstone instead of
// deleting it. A plain DEL would let a concurrent fill that already read the
// old row re-create the entry; the tombstone blocks that window.
func (c *QRCodeCache) Invalidate(ctx context.Context, slug string) error {
	return c.client.Set(ctx, key(slug), tombstone, tombstoneTTL).Err()
}
