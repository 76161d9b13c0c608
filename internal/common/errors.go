// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors. ErrInvalidToken covers malformed structure, bad signature
	// and unsupported signing algorithm; the remaining four are business-rule
	// rejections, kept distinct so callers can tell them apart.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrTokenExpired        = errors.New("token expired")
	ErrWrongTokenType      = errors.New("wrong token type")
	ErrFingerprintMismatch = errors.New("token fingerprint mismatch")

	// Registration and referral-code errors.
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrEmailNotDeliverable = errors.New("email is not deliverable")
	ErrInvalidCodeLifetime = errors.New("code lifetime must be at least one hour")

	// ErrUnavailable marks a transient failure of a backing store or an
	// external oracle. It is surfaced to the caller, never masked as a
	// business outcome.
	ErrUnavailable = errors.New("upstream unavailable")
)
