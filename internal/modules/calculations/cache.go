// Package calculations provides a TTL cache for expensive results such as
// covariance matrices, backed by cache.db.
package calculations

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// TTLCovariance is how long cached covariance results stay valid. Price
// history only changes once per trading day.
const TTLCovariance = 24 * time.Hour

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = sql.ErrNoRows

// Cache provides key-value storage with expiration over cache.db. Values
// are msgpack blobs, which keeps float matrices compact.
type Cache struct {
	db *sql.DB
}

// NewCache creates a new cache instance.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// HashTickers creates a deterministic cache key component from a list of
// tickers. Tickers are sorted so the hash is order-independent.
func HashTickers(tickers []string) string {
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)
	h := sha256.Sum256([]byte(strings.Join(sorted, ",")))
	return hex.EncodeToString(h[:16])
}

// Set stores a value under key with the given TTL.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value for %s: %w", key, err)
	}

	expiresAt := time.Now().Add(ttl).Unix()
	_, err = c.db.Exec(`
		INSERT INTO cache (key, value, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at
	`, key, data, expiresAt)
	return err
}

// Get retrieves a value into dest. Returns ErrCacheMiss when the key is
// absent or expired.
func (c *Cache) Get(key string, dest interface{}) error {
	var data []byte
	var expiresAt int64
	err := c.db.QueryRow("SELECT value, expires_at FROM cache WHERE key = ?", key).Scan(&data, &expiresAt)
	if err != nil {
		return err
	}

	if time.Now().Unix() >= expiresAt {
		return ErrCacheMiss
	}

	return msgpack.Unmarshal(data, dest)
}

// Delete removes a cache entry.
func (c *Cache) Delete(key string) error {
	_, err := c.db.Exec("DELETE FROM cache WHERE key = ?", key)
	return err
}

// DeleteByPrefix removes all cache entries matching a prefix.
func (c *Cache) DeleteByPrefix(prefix string) error {
	_, err := c.db.Exec("DELETE FROM cache WHERE key LIKE ?", prefix+"%")
	return err
}

// Prune removes expired entries.
func (c *Cache) Prune() error {
	_, err := c.db.Exec("DELETE FROM cache WHERE expires_at <= ?", time.Now().Unix())
	return err
}
