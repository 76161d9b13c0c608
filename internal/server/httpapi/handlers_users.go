package httpapi

import (
	"errors"
	"net/http"
	"strings"
)

func validateCredentials(email, password string) error {
	if email == "" || len(email) > 64 || !strings.Contains(email, "@") {
		return errors.New("valid email is required")
	}
	if len(password) < 8 || len(password) > 64 {
		return errors.New("password must be between 8 and 64 characters")
	}
	return nil
}

func (a *API) handleRegistration(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := validateCredentials(req.Email, req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	user, err := a.users.Register(r.Context(), req.Email, req.Password, req.ReferralCode)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserView(user))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := validateCredentials(req.Email, req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	pair, err := a.users.Login(r.Context(), req.Email, req.Password, r.UserAgent())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTokenPairView(pair))
}

func (a *API) handleRefreshLogin(w http.ResponseWriter, r *http.Request) {
	var req refreshLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if !strings.HasPrefix(req.RefreshToken, tokenWirePrefix) {
		respondError(w, http.StatusBadRequest, errors.New("refresh_token must use the \"bearer jwt\" scheme"))
		return
	}
	token := strings.TrimPrefix(req.RefreshToken, tokenWirePrefix)

	pair, err := a.tokens.RotateRefresh(r.Context(), token, r.UserAgent())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTokenPairView(pair))
}

// handleLogout revokes the presented access token. The refresh token stays
// valid; the client re-enters through /user/refresh_login.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.tokens.RevokeAccess(r.Context(), accessToken(r.Context())); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, detailView{Detail: "logged out, access token revoked"})
}

func (a *API) handleReferrals(w http.ResponseWriter, r *http.Request) {
	referrals, err := a.users.Referrals(r.Context(), principal(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserReferralsView(referrals))
}

func (a *API) handleRegistrationsAvailableCount(w http.ResponseWriter, r *http.Request) {
	count, err := a.users.RegistrationsAvailable(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, registrationsAvailableView{RegistrationsAvailableCount: count})
}
