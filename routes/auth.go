package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/controllers"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App, gdb *gorm.DB, cfg *config.Config) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", controllers.Register(gdb))
	auth.Post("/login", controllers.Login(gdb, cfg))
	auth.Post("/refresh", controllers.RefreshToken(gdb, cfg))
}
