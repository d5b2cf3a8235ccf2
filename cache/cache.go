// Package cache provides a small read-through cache for API responses.
//
// The API layer caches serialized paycheck listings keyed by employee and
// year, and invalidates the keys whenever the engine rewrites a schedule.
// Two backends exist: an in-process map (default, tests) and Redis (for
// running several API instances against one database).
package cache

import "context"

// Cache stores serialized responses. A miss is (_, false), never an error;
// backends swallow transport failures because the database remains the
// source of truth. The context is the request's, so an abandoned request
// also abandons its cache round trip.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
