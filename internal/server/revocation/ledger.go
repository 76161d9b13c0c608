// Package revocation implements the revocation ledger: a volatile TTL-keyed
// set of revoked raw token strings layered on top of stateless tokens.
//
// Outage policy: when the backing cache is unreachable every operation,
// including IsRevoked, returns an error wrapping common.ErrUnavailable. The
// caller gets a retryable failure; access is neither silently permitted nor
// silently denied.
package revocation

import (
	"context"
	"time"
)

// Ledger tracks revoked tokens until their own validity would have elapsed.
type Ledger interface {
	// Revoke upserts a revocation marker for the exact raw token string
	// with the given TTL. Idempotent; callers pass the remaining-validity
	// window so the marker outlives the token.
	Revoke(ctx context.Context, token string, ttl time.Duration) error

	// RevokeIfAbsent atomically places the marker only if none exists.
	// It reports whether this call won; a false result means the token
	// was already revoked. Used for strictly single-use refresh tokens.
	RevokeIfAbsent(ctx context.Context, token string, ttl time.Duration) (bool, error)

	// IsRevoked reports whether the token has a live revocation marker.
	IsRevoked(ctx context.Context, token string) (bool, error)
}
