package httpclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/failfastlab/orderflow/internal/gateway/application"
)

// CachedCatalog is a read-through Redis cache over a catalog client. Prices
// are immutable for the lifetime of the demo, so a short TTL is purely a
// safety valve. Cache failures fall through to the origin.
type CachedCatalog struct {
	log  *slog.Logger
	next application.CatalogClient
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedCatalog(log *slog.Logger, next application.CatalogClient, rdb *redis.Client, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{log: log, next: next, rdb: rdb, ttl: ttl}
}

func (c *CachedCatalog) Get(ctx context.Context, productID string) (application.ProductInfo, error) {
	key := "catalog:" + productID

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var p application.ProductInfo
		if err := json.Unmarshal(raw, &p); err == nil {
			return p, nil
		}
	} else if err != redis.Nil {
		c.log.Warn("catalog cache read failed", "product_id", productID, "err", err)
	}

	p, err := c.next.Get(ctx, productID)
	if err != nil {
		return application.ProductInfo{}, err
	}

	if raw, err := json.Marshal(p); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn("catalog cache write failed", "product_id", productID, "err", err)
		}
	}
	return p, nil
}
