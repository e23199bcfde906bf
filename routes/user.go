package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/controllers"
	"github.com/medbook/medbook-server/middleware"
)

// SetupUserRoutes configures the user identity routes
func SetupUserRoutes(app *fiber.App, gdb *gorm.DB, cfg *config.Config) {
	users := app.Group("/users")
	users.Get("/me", middleware.Protected(cfg, gdb), controllers.Me())
}
