package ipgeo

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/diskominfo-klu/absensi-backend-go/internal/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLocator struct {
	coord       utils.Coordinate
	hadDeadline bool
}

func (s *staticLocator) Locate(ctx context.Context, _ string) (utils.Coordinate, error) {
	_, s.hadDeadline = ctx.Deadline()
	return s.coord, nil
}

// stalledRedis accepts connections and never answers.
func stalledRedis(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()

	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})
	return ln.Addr().String()
}

func TestCachedLocator_TimeoutCoversCache(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:                  stalledRedis(t),
		DialTimeout:           time.Second,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		MaxRetries:            -1,
		ContextTimeoutEnabled: true,
	})
	t.Cleanup(func() { rdb.Close() })

	inner := &staticLocator{coord: utils.Coordinate{Latitude: -6.2, Longitude: 106.8}}
	l := NewCachedLocator(inner, rdb, time.Hour, 100*time.Millisecond)

	start := time.Now()
	coord, err := l.Locate(context.Background(), "36.68.1.1")

	require.NoError(t, err)
	assert.Equal(t, inner.coord, coord)
	assert.True(t, inner.hadDeadline)
	assert.Less(t, time.Since(start), 2*time.Second)
}
