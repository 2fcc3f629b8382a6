package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appMiddleware "github.com/devlink/backend/internal/middleware"
	"github.com/devlink/backend/internal/services"
)

// NewRouter wires the full API surface. Private routes sit behind the token
// gate; profile listing, public profile lookup and the GitHub proxy stay open.
func NewRouter(
	users *UserHandler,
	auth *AuthHandler,
	profiles *ProfileHandler,
	posts *PostHandler,
	tokens *services.TokenService,
) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "x-auth-token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", users.Register)
		r.Post("/auth", auth.Login)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profiles.List)
			r.Get("/user/{userId}", profiles.GetByUser)
			r.Get("/github/{username}", profiles.GithubRepos)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.RequireAuth(tokens))

				r.Get("/me", profiles.Me)
				r.Post("/", profiles.Upsert)
				r.Delete("/", profiles.Delete)

				r.Put("/experience", profiles.AddExperience)
				r.Delete("/experience/{expId}", profiles.RemoveExperience)
				r.Put("/education", profiles.AddEducation)
				r.Delete("/education/{eduId}", profiles.RemoveEducation)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireAuth(tokens))

			r.Get("/auth", auth.Self)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", posts.List)
				r.Post("/", posts.Create)
				r.Get("/{id}", posts.Get)
				r.Delete("/{id}", posts.Delete)

				r.Put("/like/{id}", posts.Like)
				r.Put("/unlike/{id}", posts.Unlike)
				r.Post("/comment/{id}", posts.AddComment)
				r.Delete("/comment/{id}/{commentId}", posts.RemoveComment)
			})
		})
	})

	return r
}
