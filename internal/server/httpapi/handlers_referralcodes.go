package httpapi

import (
	"errors"
	"net/http"
)

func (a *API) handleCreateCode(w http.ResponseWriter, r *http.Request) {
	var req createCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.LifetimeInHours < 1 {
		respondError(w, http.StatusBadRequest, errors.New("lifetime_in_hours must be at least 1"))
		return
	}

	code, err := a.referrals.Create(r.Context(), principal(r.Context()), req.LifetimeInHours)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toReferralCodeView(code))
}

func (a *API) handleDeleteCode(w http.ResponseWriter, r *http.Request) {
	deleted, err := a.referrals.Delete(r.Context(), principal(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if !deleted {
		respondJSON(w, http.StatusOK, detailView{Detail: "no active referral code"})
		return
	}
	respondJSON(w, http.StatusOK, detailView{Detail: "referral code deleted"})
}

// handleCodeByEmail is the public lookup. It answers identically for an
// unknown email and for a known account without an active code, so the
// endpoint leaks nothing about account existence.
func (a *API) handleCodeByEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, errors.New("email is required"))
		return
	}

	code, err := a.referrals.LookupByEmail(r.Context(), req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	view := codeByEmailView{Email: req.Email}
	if code != "" {
		view.ReferralCode = &code
	}
	respondJSON(w, http.StatusOK, view)
}
