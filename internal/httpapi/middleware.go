package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/internal/auth"
	"socialMediaAPI/models"
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth is middleware that resolves the Authorization bearer token and
// injects the user into the request context. Every token failure produces
// the same 401 response.
func RequireAuth(authn Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeUnauthenticated(w)
				return
			}
			u, err := authn.Authenticate(r.Context(), tok)
			if err != nil {
				if !errors.Is(err, apperr.ErrUnauthenticated) {
					writeError(w, r, log, err)
					return
				}
				writeUnauthenticated(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}

// accessLog logs one line per request once the handler returns.
func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				level := slog.LevelInfo
				if ww.Status() >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				log.Log(r.Context(), level, "http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", chimw.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// actor returns the user injected by RequireAuth.
func actor(r *http.Request) *models.User {
	u, _ := auth.UserFromContext(r.Context())
	return u
}
