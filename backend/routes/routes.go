package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"learnio/backend/assistant"
	"learnio/backend/config"
	"learnio/backend/controllers"
	"learnio/backend/hydrator"
	"learnio/backend/middleware"
	"learnio/backend/session"
	"learnio/backend/store"
)

func SetupRoutes(app *fiber.App, st store.DocumentStore, kv *store.KV, cfg *config.Config, logger *logrus.Logger) {
	courseHydrator := hydrator.New(st, logger)
	sessions := session.New(st)
	studyAssistant := assistant.New(assistant.Options{
		Endpoint: cfg.AssistantEndpoint,
		APIKey:   cfg.AssistantAPIKey,
		Model:    cfg.AssistantModel,
	}, logger)

	// Auth routes
	authController := controllers.NewAuthController(sessions, cfg)
	app.Post("/api/auth/session", authController.SignIn)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// Courses routes
	coursesController := controllers.NewCoursesController(courseHydrator, sessions, st, kv, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Post("/:id/lectures/:lectureId/complete", coursesController.CompleteLecture)

	// User routes
	userController := controllers.NewUserController(sessions, cfg)
	user := app.Group("/api/user", authMiddleware)
	user.Get("/profile", userController.GetProfile)
	user.Put("/theme", userController.UpdateTheme)
	user.Post("/wishlist/:courseId", userController.ToggleWishlist)
	user.Post("/courses/:courseId", userController.EnrollCourse)
	user.Post("/tasks", userController.AddTask)
	user.Put("/tasks/:taskId/complete", userController.CompleteTask)

	// Leaderboard routes
	leaderboardController := controllers.NewLeaderboardController(st, kv, cfg)
	app.Get("/api/leaderboard", authMiddleware, leaderboardController.GetLeaderboard)

	// Assistant routes
	assistantController := controllers.NewAssistantController(studyAssistant)
	app.Post("/api/assistant/ask", authMiddleware, assistantController.Ask)

	// Playback session routes
	playbackController := controllers.NewPlaybackController(logger)
	playbackGroup := app.Group("/api/playback", authMiddleware)
	playbackGroup.Post("/", playbackController.CreateSession)
	playbackGroup.Get("/:sessionId", playbackController.GetState)
	playbackGroup.Post("/:sessionId/event", playbackController.HandleEvent)
	playbackGroup.Post("/:sessionId/source", playbackController.SetSource)
	playbackGroup.Post("/:sessionId/:op", playbackController.Control)
	playbackGroup.Delete("/:sessionId", playbackController.CloseSession)
}
