package httpapi

import (
	"time"

	"github.com/dmitrijs2005/referral/internal/server/models"
	"github.com/dmitrijs2005/referral/internal/server/services"
)

// tokenScheme is the wire scheme for tokens. Clients send and receive tokens
// as "bearer jwt <jwt>".
const tokenScheme = "bearer jwt"

const tokenWirePrefix = tokenScheme + " "

type registrationRequest struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	ReferralCode *string `json:"referral_code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshLoginRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type createCodeRequest struct {
	LifetimeInHours int `json:"lifetime_in_hours"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type referralCodeView struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	CodeExpiration time.Time `json:"code_expiration"`
	UserID         string    `json:"user_id"`
}

type userView struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	ReferralCode *referralCodeView `json:"referral_code"`
	ReferrerID   *string           `json:"referrer_id"`
}

type userReferralsView struct {
	userView
	ReferralsCount int        `json:"referrals_count"`
	ReferralsList  []userView `json:"referrals_list"`
}

type jwtView struct {
	Token string `json:"token"`
}

type tokenPairView struct {
	TokensType   string  `json:"tokens_type"`
	AccessToken  jwtView `json:"access_token"`
	RefreshToken jwtView `json:"refresh_token"`
}

type codeByEmailView struct {
	Email        string  `json:"email"`
	ReferralCode *string `json:"referral_code"`
}

type registrationsAvailableView struct {
	RegistrationsAvailableCount int `json:"registrations_available_count"`
}

type detailView struct {
	Detail string `json:"detail"`
}

func toReferralCodeView(c *models.ReferralCode) *referralCodeView {
	if c == nil {
		return nil
	}
	return &referralCodeView{
		ID:             c.ID,
		Code:           c.Code,
		CodeExpiration: c.ExpiresAt,
		UserID:         c.UserID,
	}
}

func toUserView(u *models.User) userView {
	return userView{
		ID:           u.ID,
		Email:        u.Email,
		ReferralCode: toReferralCodeView(u.ReferralCode),
		ReferrerID:   u.ReferrerID,
	}
}

func toUserReferralsView(r *models.UserReferrals) userReferralsView {
	list := make([]userView, 0, len(r.Referrals))
	for _, u := range r.Referrals {
		list = append(list, toUserView(u))
	}
	return userReferralsView{
		userView:       toUserView(r.User),
		ReferralsCount: r.ReferralsCount,
		ReferralsList:  list,
	}
}

func toTokenPairView(p *services.TokenPair) tokenPairView {
	return tokenPairView{
		TokensType:   tokenScheme,
		AccessToken:  jwtView{Token: tokenWirePrefix + p.AccessToken},
		RefreshToken: jwtView{Token: tokenWirePrefix + p.RefreshToken},
	}
}
