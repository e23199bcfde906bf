package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/controllers"
	"github.com/medbook/medbook-server/middleware"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App, gdb *gorm.DB, cfg *config.Config) {
	appointments := app.Group("/appointments", middleware.Protected(cfg, gdb))

	appointments.Get("/", controllers.ListAppointments(gdb))
	appointments.Get("/admin/all", middleware.RequireAdmin(), controllers.AdminListAppointments(gdb))
	appointments.Get("/:id", controllers.GetAppointment(gdb))
	appointments.Post("/", controllers.CreateAppointment(gdb, cfg))
	appointments.Put("/:id/cancel", controllers.CancelAppointment(gdb, cfg))
	appointments.Put("/:id/status", middleware.RequireAdmin(), controllers.UpdateAppointmentStatus(gdb))
}
