package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/almasbek/fightcard/handlers"
	"github.com/almasbek/fightcard/middleware"
	"github.com/almasbek/fightcard/models"
)

// SetupRoutes wires every endpoint. Reads are public; submitting predictions
// and scorecards requires a user token; entering results requires admin.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	fighterHandler *handlers.FighterHandler,
	eventHandler *handlers.EventHandler,
	fightHandler *handlers.FightHandler,
	predictionHandler *handlers.PredictionHandler,
	scorecardHandler *handlers.ScorecardHandler,
	resultHandler *handlers.ResultHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Post("/auth/telegram", authHandler.TelegramLogin)
	router.Post("/auth/admin/login", authHandler.AdminLogin)

	router.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.ListEvents)
		r.Get("/organizations", eventHandler.ListOrganizations)
		r.Get("/{eventID}", eventHandler.GetEventDetail)
		r.Get("/{eventID}/fights", eventHandler.ListEventFights)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/", eventHandler.CreateEvent)
			r.Put("/{eventID}", eventHandler.UpdateEvent)
			r.Delete("/{eventID}", eventHandler.DeleteEvent)
		})
	})

	router.Route("/fighters", func(r chi.Router) {
		r.Get("/", fighterHandler.ListFighters)
		r.Get("/{fighterID}", fighterHandler.GetFighterByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/", fighterHandler.CreateFighter)
			r.Put("/{fighterID}", fighterHandler.UpdateFighter)
			r.Delete("/{fighterID}", fighterHandler.DeleteFighter)
			r.Post("/{fighterID}/photo", fighterHandler.UploadFighterPhoto)
		})
	})

	router.Route("/fights", func(r chi.Router) {
		r.Get("/{fightID}", fightHandler.GetFightSummary)
		r.Get("/{fightID}/result", resultHandler.GetFightResult)
		r.Get("/{fightID}/predictions", predictionHandler.GetFightPredictions)
		r.Get("/{fightID}/predictions/stats", predictionHandler.GetFightPredictionStats)
		r.Get("/{fightID}/scorecards", scorecardHandler.GetFightScorecards)
		r.Get("/{fightID}/scorecards/stats", scorecardHandler.GetFightScorecardStats)

		// Submitting picks requires a logged-in user.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(models.RoleUser))

			r.Post("/{fightID}/predictions", predictionHandler.CreatePrediction)
			r.Get("/{fightID}/predictions/mine", predictionHandler.GetMyPrediction)
			r.Post("/{fightID}/scorecards", scorecardHandler.CreateScorecard)
			r.Get("/{fightID}/scorecards/mine", scorecardHandler.GetMyScorecard)
		})

		// Result entry drives resolution, admin only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/", fightHandler.CreateFight)
			r.Put("/{fightID}", fightHandler.UpdateFight)
			r.Delete("/{fightID}", fightHandler.DeleteFight)
			r.Post("/{fightID}/result", resultHandler.CreateFightResult)
			r.Put("/{fightID}/result", resultHandler.UpdateFightResult)
			r.Delete("/{fightID}/result", resultHandler.DeleteFightResult)
		})
	})

	router.Route("/users", func(r chi.Router) {
		r.Get("/{userID}", userHandler.GetUserProfile)
		r.Get("/{userID}/stats", userHandler.GetUserStats)
	})

	router.Route("/me", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.RequireRole(models.RoleUser))

		r.Get("/", userHandler.GetMe)
		r.Get("/stats", userHandler.GetMyStats)
		r.Get("/predictions", userHandler.GetMyPredictions)
		r.Get("/scorecards", userHandler.GetMyScorecards)
	})

	router.Get("/ws/events/{eventID}", webSocketHandler.SubscribeToEvent)
}
