// Package storage provides the key-value stores backing the portal.
//
// Two logical namespaces exist at runtime: a durable one (user records,
// the failed-login ledger, the remember token) and a session-scoped one
// (the single active session). Both speak the same Store interface so
// the core is testable with an in-memory fake and portable between
// local (sqlite) and server-backed (postgres, redis) deployments.
package storage

import "context"

// Store is a minimal key-value blob store.
//
// Get returns (nil, nil) when the key is absent; callers treat missing
// and present-but-empty identically.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
