// Package models contains the persistent entities of the referral service.
package models

import "time"

// User is a registered principal. ReferrerID points at the user whose
// referral code was supplied at registration, if any. ReferralCode is the
// user's currently stored code row; nil means the user owns no code.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	ReferrerID   *string
	ReferralCode *ReferralCode
	CreatedAt    time.Time
}

// UserReferrals is the referrals listing for a user: the user itself plus
// everyone who registered with their code.
type UserReferrals struct {
	User           *User
	ReferralsCount int
	Referrals      []*User
}
