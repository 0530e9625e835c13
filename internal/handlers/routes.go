package handlers

import "github.com/gofiber/fiber/v2"

// Register mounts the health checks and the v1 session API on app
func Register(app *fiber.App, health *HealthHandler, predict *PredictHandler, ui *UIHandler) {
	app.Get("/health", health.Health)
	app.Get("/health/ready", health.Ready)

	v1 := app.Group("/v1")
	v1.Get("/catalog", predict.Catalog)
	v1.Post("/predict/quick", predict.Quick)
	v1.Post("/predict", predict.Detailed)
	v1.Get("/session", predict.View)
	v1.Delete("/session/result", predict.ResetResult)

	v1.Post("/ui/tab", ui.SelectTab)
	v1.Post("/ui/profile-menu/toggle", ui.ToggleProfileMenu)
	v1.Post("/ui/mobile-menu/toggle", ui.ToggleMobileMenu)
	v1.Post("/ui/pointer-down", ui.PointerDown)
	v1.Post("/ui/history/open", ui.OpenHistory)
	v1.Post("/ui/history/close", ui.CloseHistory)
	v1.Delete("/history", ui.ClearHistory)
	v1.Post("/ui/settings/open", ui.OpenSettings)
	v1.Post("/ui/settings/close", ui.CloseSettings)
	v1.Get("/settings", ui.GetSettings)
	v1.Put("/settings", ui.PutSettings)
	v1.Get("/images/allowed", ui.ImageAllowed)
}
