// Package httpapi exposes the account and referral-code operations over HTTP.
// Request and response bodies are JSON; tokens travel as "bearer jwt <jwt>"
// in the Authorization header and in token payloads.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/referral/internal/logging"
	"github.com/dmitrijs2005/referral/internal/server/models"
	"github.com/dmitrijs2005/referral/internal/server/services"
)

// UserProvider is the account surface the handlers need.
type UserProvider interface {
	Register(ctx context.Context, email, password string, referralCode *string) (*models.User, error)
	Login(ctx context.Context, email, password, fingerprint string) (*services.TokenPair, error)
	ResolvePrincipal(ctx context.Context, accessToken, fingerprint string) (*models.User, error)
	Referrals(ctx context.Context, user *models.User) (*models.UserReferrals, error)
	RegistrationsAvailable(ctx context.Context) (int, error)
}

// TokenProvider covers the token operations the handlers drive directly.
type TokenProvider interface {
	RotateRefresh(ctx context.Context, refreshToken, fingerprint string) (*services.TokenPair, error)
	RevokeAccess(ctx context.Context, accessToken string) error
}

// ReferralProvider is the referral-code surface the handlers need.
type ReferralProvider interface {
	Create(ctx context.Context, user *models.User, lifetimeHours int) (*models.ReferralCode, error)
	Delete(ctx context.Context, user *models.User) (bool, error)
	LookupByEmail(ctx context.Context, email string) (string, error)
}

// API wires the services into HTTP handlers.
type API struct {
	users     UserProvider
	tokens    TokenProvider
	referrals ReferralProvider
	logger    logging.Logger
}

func New(users UserProvider, tokens TokenProvider, referrals ReferralProvider, logger logging.Logger) *API {
	return &API{users: users, tokens: tokens, referrals: referrals, logger: logger}
}

// Routes builds the router. The /user and /referral_code trees carry the
// business endpoints; /healthz and /metrics serve operations.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(a.requestLogger)
	r.Use(measureRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/user", func(r chi.Router) {
		r.Post("/registration", a.handleRegistration)
		r.Post("/login", a.handleLogin)
		r.Post("/refresh_login", a.handleRefreshLogin)
		r.Get("/registrations_available_count", a.handleRegistrationsAvailableCount)

		r.Group(func(r chi.Router) {
			r.Use(a.authenticate)
			r.Get("/logout", a.handleLogout)
			r.Get("/referrals", a.handleReferrals)
		})
	})

	r.Route("/referral_code", func(r chi.Router) {
		r.Post("/get_user_referral_code", a.handleCodeByEmail)

		r.Group(func(r chi.Router) {
			r.Use(a.authenticate)
			r.Post("/create", a.handleCreateCode)
			r.Delete("/delete", a.handleDeleteCode)
		})
	})

	return r
}
