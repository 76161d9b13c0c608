package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/referral/internal/common"
)

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	respondJSON(w, status, map[string]any{"error": err.Error()})
}

// respondServiceError maps domain sentinels to HTTP statuses. Revocation and
// bad credentials are 401; tokens that decode but fail a check are 403, same
// as conflicts. Backing-store outages are 503, never silently ignored.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrTokenRevoked), errors.Is(err, common.ErrorUnauthorized):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrWrongTokenType),
		errors.Is(err, common.ErrFingerprintMismatch):
		respondError(w, http.StatusForbidden, err)
	case errors.Is(err, common.ErrorAlreadyExists):
		respondError(w, http.StatusForbidden, err)
	case errors.Is(err, common.ErrInvalidReferralCode),
		errors.Is(err, common.ErrEmailNotDeliverable),
		errors.Is(err, common.ErrInvalidCodeLifetime):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, common.ErrorNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, common.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, err)
	default:
		respondError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
