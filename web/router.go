package web

import (
	"time"

	"github.com/JackBruzan/espn-scrape-sub000/controller"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/render"
)

func getRouter(ctrl controller.C, render *render.Render) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/", rootHandler(ctrl, render))

	r.Route("/players", func(r chi.Router) {
		r.Get("/", playerSearchHandler(ctrl, render))
		r.Get("/{playerID}", getPlayerHandler(ctrl, render))
		r.Post("/{playerID}", updatePlayerHandler(ctrl, render))
		r.Get("/{playerID}/stats", getPlayerStatsHandler(ctrl, render))
		r.Post("/{playerID}/link", linkPlayerHandler(ctrl, render))
	})

	r.Route("/sync", func(r chi.Router) {
		// Sync runs block until they finish, which can be a while for a
		// full season.
		r.Use(middleware.Timeout(30 * time.Minute))

		r.Post("/players", syncPlayersHandler(ctrl, render))
		r.Post("/stats", syncStatsHandler(ctrl, render))
		r.Post("/full", fullSyncHandler(ctrl, render))
		r.Post("/cancel", cancelSyncHandler(ctrl, render))
		r.Get("/running", syncRunningHandler(ctrl, render))
		r.Get("/last", lastSyncHandler(ctrl, render))
		r.Get("/connectivity", connectivityHandler(ctrl, render))
		r.Get("/ratelimit", rateLimitHandler(ctrl, render))
	})

	return r
}
