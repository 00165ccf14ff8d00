package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Elections  *ElectionHandler
	Candidates *CandidateHandler
	Votes      *VoteHandler
	Feed       *FeedHandler

	AuthService ports.AuthService
	Metrics     http.Handler
	// Ready reports storage health for /health. Nil means always healthy.
	Ready func(ctx context.Context) error
}

func NewHandler(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Post("/oauth/callback", h.Auth.GoogleCallback)
	r.Post("/auth/logout", h.Auth.Logout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/current-election", h.Elections.Current)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.AuthService))
			admin := RequireRole(domain.RoleAdmin)
			voter := RequireRole(domain.RoleVoter)

			r.Get("/me", h.Users.GetMe)

			r.Route("/elections", func(r chi.Router) {
				r.Get("/", h.Elections.List)
				r.With(admin).Post("/", h.Elections.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Elections.Get)
					r.With(admin).Put("/", h.Elections.Update)
					r.With(admin).Delete("/", h.Elections.Delete)
					r.With(voter).Get("/my-vote", h.Votes.MyVote)
					r.With(admin).Get("/results", h.Votes.Results)
					r.With(admin).Get("/stream", h.Feed.StreamElection)
					r.With(admin).Get("/stream/hourly", h.Feed.StreamHourly)
				})
			})

			r.Route("/candidates", func(r chi.Router) {
				r.Get("/", h.Candidates.List)
				r.With(admin).Post("/", h.Candidates.Create)
				r.Get("/{id}", h.Candidates.Get)
				r.With(admin).Put("/{id}", h.Candidates.Update)
				r.With(admin).Delete("/{id}", h.Candidates.Delete)
			})

			r.With(voter).Post("/votes", h.Votes.CastVote)
		})
	})

	return r
}

func (h Handlers) health(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil {
		if err := h.Ready(r.Context()); err != nil {
			ErrorResponse(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}
	JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
