package models

import "time"

// ReferralCode is the durable record of a referral code. The cache projection
// keyed by the owner's email is authoritative for liveness; a row whose
// ExpiresAt has passed is dead and is cleaned up on the owner's next create.
type ReferralCode struct {
	ID        string
	Code      string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
