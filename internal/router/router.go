// Package router sets up all HTTP routes and middleware chains for the
// community hub API. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lancasterhub/internal/handlers"
	"lancasterhub/internal/middleware"
	"lancasterhub/internal/models"
	"lancasterhub/internal/session"
)

// Deps carries everything the router wires together.
type Deps struct {
	Tokens      session.Tokens
	CORSOrigins []string

	// SubmitLimiter throttles anonymous submissions and login attempts per
	// client IP. Nil disables throttling.
	SubmitLimiter *middleware.RateLimiter

	Health http.HandlerFunc
	Public *handlers.Public
	Admin  *handlers.Admin
	Auth   *handlers.Auth
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(d.CORSOrigins))

	r.NotFound(jsonError(http.StatusNotFound, "not found"))
	r.MethodNotAllowed(jsonError(http.StatusMethodNotAllowed, "method not allowed"))

	throttle := func(next http.Handler) http.Handler { return next }
	if d.SubmitLimiter != nil {
		throttle = d.SubmitLimiter.Middleware
	}
	requireAdmin := middleware.RequireAdmin(d.Tokens)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", d.Health)
		r.Get("/languages", d.Public.Languages)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Public.ListPosts)
			r.With(throttle).Post("/", d.Public.CreatePost)
			r.Get("/{id}", d.Public.GetPost)
			r.With(requireAdmin).Post("/{id}/publish", d.Admin.Publish(models.KindPost))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", d.Public.ListEvents)
			r.With(throttle).Post("/", d.Public.CreateEvent)
			r.Get("/{id}", d.Public.GetEvent)
			r.With(requireAdmin).Post("/{id}/publish", d.Admin.Publish(models.KindEvent))
		})

		r.Route("/admin", func(r chi.Router) {
			// Accessible without a token.
			r.With(throttle).Post("/login", d.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)

				r.Post("/logout", d.Auth.Logout)
				r.Get("/2fa/qr", d.Auth.TwoFAQR)
				r.Post("/detect-language", d.Admin.DetectLanguage)

				r.Get("/posts", d.Admin.ListPosts)
				r.Get("/events", d.Admin.ListEvents)

				for _, kind := range []models.Kind{models.KindPost, models.KindEvent} {
					base := "/" + string(kind) + "s/{id}"
					r.Delete(base, d.Admin.Delete(kind))
					r.Post(base+"/unpublish", d.Admin.Unpublish(kind))
					r.Post(base+"/retranslate", d.Admin.Retranslate(kind))
					r.Get(base+"/translations", d.Admin.Translations(kind))
				}
			})
		})
	})

	return r
}

// jsonError returns a handler that always answers with {"error": msg}.
func jsonError(status int, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
	}
}
