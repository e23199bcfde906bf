package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/controllers"
)

// SetupAgoraRoutes configures the video-call token route
func SetupAgoraRoutes(app *fiber.App, cfg *config.Config) {
	agora := app.Group("/agora")
	agora.Get("/token", controllers.GenerateRTCToken(cfg))
}
