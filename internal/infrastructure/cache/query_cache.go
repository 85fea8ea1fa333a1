package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long query results stay cached when no TTL is configured.
const DefaultTTL = 5 * time.Minute

// QueryCache stores serialized query results under string keys with a TTL.
// Implementations must be safe for concurrent use.
type QueryCache interface {
	// Get returns the cached bytes for key and whether the key was present
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl. A non-positive ttl falls back to
	// the implementation's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// Close releases any resources held by the cache.
	Close() error
}

// Cache key builders. Keys follow the "<entity>:<qualifier>" convention so
// prefix invalidation can drop every page of a listing at once.

// InvoicesPageKey keys one page of the filtered invoice listing
func InvoicesPageKey(query string, page int) string {
	return fmt.Sprintf("invoices:%s:%d", query, page)
}

// InvoicesCountKey keys the page count for a filtered invoice listing
func InvoicesCountKey(query string) string {
	return fmt.Sprintf("invoices:count:%s", query)
}

// InvoiceKey keys a single invoice lookup
func InvoiceKey(id uuid.UUID) string {
	return "invoice:" + id.String()
}

// CustomersPageKey keys one page of the filtered customer listing
func CustomersPageKey(query string, page int) string {
	return fmt.Sprintf("customers:%s:%d", query, page)
}

// CustomersCountKey keys the page count for a filtered customer listing
func CustomersCountKey(query string) string {
	return fmt.Sprintf("customers:count:%s", query)
}

// CustomerKey keys a single customer lookup
func CustomerKey(id uuid.UUID) string {
	return "customer:" + id.String()
}

// LatestInvoicesKey keys the most-recent-invoices dashboard panel
func LatestInvoicesKey(limit int) string {
	return fmt.Sprintf("latest-invoices:%d", limit)
}

// DashboardCardsKey keys the dashboard card summary
const DashboardCardsKey = "dashboard:cards"

// RevenueKey keys the full revenue chart dataset
const RevenueKey = "revenue:all"

// GetJSON looks up key and unmarshals the cached bytes into T. A decode
// failure is treated as a miss so a stale or corrupt entry never breaks reads.
func GetJSON[T any](ctx context.Context, c QueryCache, key string) (*T, bool) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, false
	}
	return &value, true
}

// SetJSON marshals value and stores it under key
func SetJSON(ctx context.Context, c QueryCache, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
