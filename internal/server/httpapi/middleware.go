package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrijs2005/referral/internal/server/models"
)

type ctxKey int

const (
	principalKey ctxKey = iota
	accessTokenKey
)

// principal returns the authenticated user placed in the context by
// authenticate. It is only valid behind that middleware.
func principal(ctx context.Context) *models.User {
	u, _ := ctx.Value(principalKey).(*models.User)
	return u
}

func accessToken(ctx context.Context) string {
	t, _ := ctx.Value(accessTokenKey).(string)
	return t
}

// authenticate resolves the caller from the Authorization header. The header
// must carry the "bearer jwt <jwt>" wire form; the token is checked against
// the User-Agent fingerprint it was minted for.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, tokenWirePrefix) {
			respondError(w, http.StatusUnauthorized, errors.New("authorization header required"))
			return
		}
		token := strings.TrimPrefix(header, tokenWirePrefix)

		user, err := a.users.ResolvePrincipal(r.Context(), token, r.UserAgent())
		if err != nil {
			respondServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, user)
		ctx = context.WithValue(ctx, accessTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		a.logger.Info(r.Context(), "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "referral_http_requests_total",
		Help: "HTTP requests by method, path and status code.",
	}, []string{"method", "path", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "referral_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

func measureRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// Label with the route pattern, not the raw path, so arbitrary
		// client paths cannot blow up series cardinality.
		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
		requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
