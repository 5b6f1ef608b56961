package calculations

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/quantfolio/internal/database"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test state.
	db, err := database.New(database.Config{
		Path:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCache(db.Conn())
}

type cachedMatrix struct {
	Cov     [][]float64 `msgpack:"cov"`
	Tickers []string    `msgpack:"tickers"`
}

func TestCache_RoundTrip(t *testing.T) {
	cache := newTestCache(t)

	in := cachedMatrix{
		Cov:     [][]float64{{0.04, 0.01}, {0.01, 0.03}},
		Tickers: []string{"AAPL", "MSFT"},
	}
	require.NoError(t, cache.Set("cov:test", in, time.Minute))

	var out cachedMatrix
	require.NoError(t, cache.Get("cov:test", &out))
	assert.Equal(t, in, out)
}

func TestCache_Expiry(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Set("k", "v", -time.Second))

	var out string
	err := cache.Get("k", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_Miss(t *testing.T) {
	cache := newTestCache(t)

	var out string
	assert.Error(t, cache.Get("absent", &out))
}

func TestCache_DeleteByPrefix(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Set("cov:a", 1, time.Minute))
	require.NoError(t, cache.Set("cov:b", 2, time.Minute))
	require.NoError(t, cache.Set("other", 3, time.Minute))

	require.NoError(t, cache.DeleteByPrefix("cov:"))

	var out int
	assert.Error(t, cache.Get("cov:a", &out))
	assert.NoError(t, cache.Get("other", &out))
	assert.Equal(t, 3, out)
}

func TestHashTickers_OrderIndependent(t *testing.T) {
	a := HashTickers([]string{"MSFT", "AAPL", "GOOGL"})
	b := HashTickers([]string{"AAPL", "GOOGL", "MSFT"})
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}
