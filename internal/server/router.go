package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/pullpilot/internal/auth"
	"github.com/sevigo/pullpilot/internal/config"
	"github.com/sevigo/pullpilot/internal/server/handler"
)

// NewRouter creates the HTTP router with middleware and API routes.
func NewRouter(cfg *config.Config, reviews handler.ReviewService, tokens *auth.TokenManager, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Authenticate(tokens, logger))

		h := handler.NewReviewHandler(reviews, logger)
		r.Post("/reviews", h.Submit)
		r.Get("/reviews/{id}", h.Get)
		r.Post("/reviews/{id}/cancel", h.Cancel)
		r.Get("/repositories/{id}/reviews", h.ListByRepository)
		r.Delete("/repositories/{id}", h.DisconnectRepository)
	})

	return r
}

// Authenticate requires a valid bearer token and stores its user id on the
// request context.
func Authenticate(tokens *auth.TokenManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}
			claims, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("rejected bearer token", "error", err)
				unauthorized(w, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), claims.UserID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="pullpilot"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}` + "\n"))
}
