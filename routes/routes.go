package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/markbrown88/pickleball-app-sub006/docs"
	"github.com/markbrown88/pickleball-app-sub006/handlers"
	"github.com/markbrown88/pickleball-app-sub006/middleware"
)

// SetupRoutes wires every HTTP endpoint. Reads are public; anything that
// mutates scores or brackets requires a scorekeeper or admin token.
func SetupRoutes(
	router *chi.Mux,
	matchHandler *handlers.MatchHandler,
	bracketHandler *handlers.BracketHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	scorekeeper := func(r chi.Router) chi.Router {
		return r.With(
			middleware.Authenticate(jwtSecret),
			middleware.Authorize("scorekeeper", "admin"),
		)
	}

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", matchHandler.GetMatchHandler)

		protected := scorekeeper(r)
		protected.Post("/games", matchHandler.SeedGamesHandler)
		protected.Put("/games/{gameID}/score", matchHandler.SubmitGameScoreHandler)
		protected.Post("/evaluate", matchHandler.EvaluateMatchHandler)
		protected.Post("/tiebreaker-decision", matchHandler.TiebreakerDecisionHandler)
		protected.Post("/complete", matchHandler.CompleteMatchHandler)
	})

	router.Route("/stops/{stopID}", func(r chi.Router) {
		r.Get("/bracket", bracketHandler.GetStopBracketHandler)

		scorekeeper(r).Post("/bracket", bracketHandler.GenerateBracketHandler)
	})

	router.Get("/ws/stops/{stopID}", webSocketHandler.ServeWs)

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.OpenAPISpec)
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
