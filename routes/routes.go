package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sebamarsal/truco-tournament/config"
	"github.com/sebamarsal/truco-tournament/handlers"
	"github.com/sebamarsal/truco-tournament/middleware"
)

// SetupRoutes wires the public surface (signup, current state, live socket)
// and the token-guarded admin surface (inscription management and tournament
// progression).
func SetupRoutes(
	router *chi.Mux,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	inscriptionHandler *handlers.InscriptionHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Post("/auth/login", authHandler.Login)

		// Public surface
		r.Post("/inscriptions", inscriptionHandler.Create)
		r.Get("/tournament/current", tournamentHandler.CurrentState)
		r.Get("/tournament/{tournamentID}/live", webSocketHandler.ServeWs)

		// Admin surface
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.JWTSecretKey))

			r.Route("/inscriptions", func(r chi.Router) {
				r.Get("/", inscriptionHandler.List)
				r.Put("/{id}", inscriptionHandler.Update)
				r.Patch("/{id}/paid", inscriptionHandler.SetPaid)
				r.Delete("/{id}", inscriptionHandler.Delete)
				r.Post("/{id}/receipt", inscriptionHandler.UploadReceipt)
			})

			r.Route("/tournament", func(r chi.Router) {
				r.Post("/", tournamentHandler.Start)

				r.Route("/{tournamentID}", func(r chi.Router) {
					r.Get("/", tournamentHandler.State)
					r.Post("/reset", tournamentHandler.Reset)

					r.Post("/draw-head", tournamentHandler.DrawHead)
					r.Post("/draw-second", tournamentHandler.DrawSecond)
					r.Post("/select-second", tournamentHandler.SelectSecond)
					r.Post("/confirm-team", tournamentHandler.ConfirmTeam)
					r.Post("/next-team", tournamentHandler.NextTeam)

					r.Post("/groups", tournamentHandler.BuildGroups)
					r.Post("/matches/{matchID}/result", tournamentHandler.RecordMatchResult)

					r.Post("/bracket", tournamentHandler.BuildBracket)
					r.Post("/bracket/{matchID}/result", tournamentHandler.RecordBracketResult)
				})
			})
		})
	})
}
