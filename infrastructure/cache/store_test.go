package cache

import (
	"testing"

	"github.com/fullstackyodha/wechat-backend/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// newTestStore runs an in-process redis and returns a store bound to it.
// The server and client are torn down with the test.
func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewStore(client, zap.NewNop(), metrics.NewCacheMetrics(prometheus.NewRegistry()))
	return store, mr
}
