package web

import (
	"time"

	"github.com/TmRxJD/tower-tracker/controller"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/render"
)

func getRouter(ctrl controller.C, render *render.Render, adminPassword string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(10 * time.Second))

	r.Route("/guilds", func(r chi.Router) {
		r.Post("/", addGuildHandler(ctrl, render))
		r.Route("/{guildID:\\d+}", func(r chi.Router) {
			r.Get("/", getGuildHandler(ctrl, render))
			r.Delete("/", removeGuildHandler(ctrl, render))

			r.Get("/players", listPlayersHandler(ctrl, render))
			r.Post("/players", addPlayerHandler(ctrl, render))
			r.Delete("/players/{playerID}", removePlayerHandler(ctrl, render))

			r.Get("/results", resultsHandler(ctrl, render))
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.BasicAuth("tower-tracker", map[string]string{"admin": adminPassword}))
		// Manual syncs scrape the whole roster, give them more room.
		r.Use(middleware.Timeout(5 * time.Minute))

		r.Post("/guilds/{guildID:\\d+}/sync", syncGuildHandler(ctrl, render))
	})

	return r
}
