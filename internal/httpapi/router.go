// Package httpapi exposes the service over JSON/HTTP with chi.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"socialMediaAPI/internal/logging"
	"socialMediaAPI/internal/service"
)

// Pinger reports storage liveness for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures NewRouter.
type Options struct {
	Logger      *slog.Logger
	CORSOrigins []string
	DB          Pinger
}

// Handler holds the HTTP handlers.
type Handler struct {
	svc *service.Service
	log *slog.Logger
	db  Pinger
}

// NewRouter builds the HTTP routes.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	h := &Handler{svc: svc, log: log, db: opts.DB}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(accessLog(log))
	r.Use(chimw.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			ExposedHeaders:   []string{"WWW-Authenticate"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", h.Health)
	r.Post("/register", h.Register)
	r.Post("/token", h.Token)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(svc, log))

		r.Get("/users/me", h.Me)
		r.Delete("/users/me", h.DeleteMe)

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", h.CreatePost)
			r.Get("/", h.ListPosts)
			r.Get("/{id}", h.GetPost)
			r.Put("/{id}", h.UpdatePost)
			r.Patch("/{id}", h.UpdatePost)
			r.Delete("/{id}", h.DeletePost)
		})

		r.Post("/votes", h.Vote)
	})
	return r
}

// Health pings storage.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.log.WarnContext(ctx, "health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
