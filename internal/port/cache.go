package port

import (
	"context"
	"time"
)

// CatalogCache is a JSON read-through cache for catalog listings.
// Implementations must treat a miss as (false, nil), not an error.
type CatalogCache interface {
	Get(ctx context.Context, key string, out interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Flush drops every cached listing. Called after admin catalog writes.
	Flush(ctx context.Context) error
}
