package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/srgjo27/stay_engine/internal/core/domain"
	"github.com/srgjo27/stay_engine/internal/core/ports"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
)

type ctxKey int

const sessionKey ctxKey = iota

func sessionFrom(ctx context.Context) (domain.GuestSession, bool) {
	s, ok := ctx.Value(sessionKey).(domain.GuestSession)
	return s, ok
}

// GuestSession verifies the bearer token and binds it to the stay code in
// the path. A token for another stay is treated like a bad token.
func GuestSession(verifier ports.SessionVerifier, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "session_expired"})
				return
			}

			session, err := verifier.VerifyGuestToken(r.Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrSessionExpired) {
					log.WithError(err).Debug("guest token rejected")
				}
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "session_expired"})
				return
			}

			if !strings.EqualFold(session.StayCode, r.PathValue("code")) {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "session_expired"})
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
		})
	}
}

// AdminKey guards owner-side endpoints with a shared key in X-Admin-Key.
func AdminKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Key")
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit throttles a route. keyFn picks the bucket; nil keys by client IP.
func RateLimit(store limiter.Store, rate limiter.Rate, keyFn func(*http.Request) string, log *logrus.Logger) func(http.Handler) http.Handler {
	opts := []stdlib.Option{
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate_limited"})
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			log.WithError(err).Error("rate limiter store failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error"})
		}),
	}
	if keyFn != nil {
		opts = append(opts, stdlib.WithKeyGetter(keyFn))
	}

	mw := stdlib.NewMiddleware(limiter.New(store, rate), opts...)

	return mw.Handler
}

func stayCodeKey(r *http.Request) string {
	return "stay:" + strings.ToUpper(r.PathValue("code"))
}

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}
