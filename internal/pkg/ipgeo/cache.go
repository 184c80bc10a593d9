package ipgeo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/utils"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "ipgeo:"

// CachedLocator memoizes lookups in Redis. Cache failures never fail a lookup.
type CachedLocator struct {
	next    Locator
	rdb     *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

// NewCachedLocator wraps next. A nil client disables caching. timeout bounds
// the whole lookup, cache reads and writes included; zero means no bound.
func NewCachedLocator(next Locator, rdb *redis.Client, ttl, timeout time.Duration) Locator {
	if rdb == nil {
		return next
	}
	return &CachedLocator{next: next, rdb: rdb, ttl: ttl, timeout: timeout}
}

type cachedCoordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Locate implements Locator.
func (c *CachedLocator) Locate(ctx context.Context, ip string) (utils.Coordinate, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	key := cacheKeyPrefix + ip

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var coord cachedCoordinate
		if jsonErr := json.Unmarshal([]byte(cached), &coord); jsonErr == nil {
			return utils.Coordinate{Latitude: coord.Latitude, Longitude: coord.Longitude}, nil
		}
	case !errors.Is(err, redis.Nil):
		slog.Warn("ipgeo cache read failed", "ip", ip, "error", err)
	}

	coord, err := c.next.Locate(ctx, ip)
	if err != nil {
		return utils.Coordinate{}, err
	}

	data, _ := json.Marshal(cachedCoordinate{Latitude: coord.Latitude, Longitude: coord.Longitude})
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("ipgeo cache write failed", "ip", ip, "error", err)
	}

	return coord, nil
}
