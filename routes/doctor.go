package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/medbook/medbook-server/cache"
	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/controllers"
	"github.com/medbook/medbook-server/middleware"
)

// SetupDoctorRoutes configures the doctor directory routes. Listings and
// details are public; management is admin only and delete is a deactivation.
func SetupDoctorRoutes(app *fiber.App, gdb *gorm.DB, cfg *config.Config, cc *cache.Cache) {
	doctors := app.Group("/doctors")
	doctors.Get("/", controllers.ListDoctors(gdb, cc))
	doctors.Get("/:id", controllers.GetDoctor(gdb))
	doctors.Get("/:id/slots", controllers.GetDoctorSlots(gdb))

	doctors.Post("/", middleware.Protected(cfg, gdb), middleware.RequireAdmin(), controllers.CreateDoctor(gdb, cc))
	doctors.Put("/:id", middleware.Protected(cfg, gdb), middleware.RequireAdmin(), controllers.UpdateDoctor(gdb, cc))
	doctors.Delete("/:id", middleware.Protected(cfg, gdb), middleware.RequireAdmin(), controllers.DeleteDoctor(gdb, cc))
	doctors.Post("/:id/image", middleware.Protected(cfg, gdb), middleware.RequireAdmin(), controllers.UploadDoctorImage(gdb, cfg, cc))
}
