package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/medbook/medbook-server/cache"
	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/cron"
	"github.com/medbook/medbook-server/db"
	"github.com/medbook/medbook-server/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := db.Seed(gdb); err != nil {
			log.Fatal("Failed to seed database: ", err)
		}
		return
	}

	cc, err := cache.New(cfg.RedisAddr)
	if err != nil {
		log.Println("Warning: continuing without Redis cache:", err)
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.SetupAuthRoutes(app, gdb, cfg)
	routes.SetupUserRoutes(app, gdb, cfg)
	routes.SetupDoctorRoutes(app, gdb, cfg, cc)
	routes.SetupAppointmentRoutes(app, gdb, cfg)
	routes.SetupAgoraRoutes(app, cfg)

	if _, err := cron.StartReminderJob(gdb, cfg); err != nil {
		log.Fatal(err)
	}

	log.Println("Server started on port " + cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
