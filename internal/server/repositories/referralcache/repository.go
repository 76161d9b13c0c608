// Package referralcache owns the volatile projection of live referral codes,
// keyed "referrer:<email>". The projection is the sole source for the public
// lookup path: absence never distinguishes an unregistered email from a
// registered account without an active code.
package referralcache

import (
	"context"
	"time"
)

type Repository interface {
	// GetCode returns the live code for email, or common.ErrorNotFound when
	// no projection exists.
	GetCode(ctx context.Context, email string) (string, error)

	// SetCode writes the projection with a TTL aligned to the code's
	// expiration.
	SetCode(ctx context.Context, email, code string, ttl time.Duration) error

	// DeleteCode removes the projection.
	DeleteCode(ctx context.Context, email string) error
}
