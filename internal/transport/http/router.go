package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gowtham-garimella/pixora/internal/handler"
	"github.com/gowtham-garimella/pixora/internal/httputil"
	appmw "github.com/gowtham-garimella/pixora/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler

	// Auth guards every route except /auth/*.
	Auth func(http.Handler) http.Handler

	APIPrefix      string
	AllowedOrigins []string
}

// NewRouter mounts the API under cfg.APIPrefix. /health and /metrics stay at the root.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route(cfg.APIPrefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(cfg.Auth)

			r.Get("/me", cfg.UserHandler.Me)
			r.Put("/me", cfg.UserHandler.UpdateMe)
			r.Post("/me/avatar", cfg.UserHandler.UploadAvatar)
			r.Get("/me/activity", cfg.UserHandler.Activity)

			r.Get("/posts", cfg.PostHandler.List)
			r.Post("/posts", cfg.PostHandler.Create)
			r.Route("/posts/{id}", func(r chi.Router) {
				r.Delete("/", cfg.PostHandler.Delete)
				r.Post("/like", cfg.PostHandler.Like)
				r.Post("/unlike", cfg.PostHandler.Unlike)
				r.Post("/comments", cfg.CommentHandler.Create)
				r.Delete("/comments/{commentId}", cfg.CommentHandler.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
