// Package mailcheck talks to the external email-verification service
// (hunter.io API v2). Transient failures of the oracle are surfaced to the
// caller as common.ErrUnavailable; they are never treated as a verdict.
package mailcheck

import "context"

// Checker is the oracle contract consumed by the registration flow.
type Checker interface {
	// IsDeliverable reports whether email can actually receive mail.
	IsDeliverable(ctx context.Context, email string) (bool, error)

	// AvailableVerifications returns how many verifications remain on the
	// oracle account (available minus used).
	AvailableVerifications(ctx context.Context) (int, error)
}
