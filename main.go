package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"plangen/config"
	adminControllers "plangen/controllers/admin"
	calendarControllers "plangen/controllers/calendar"
	orderControllers "plangen/controllers/orders"
	roadmapControllers "plangen/controllers/roadmap"
	"plangen/database"
	adminRoutes "plangen/routers/adminRoutes"
	calendarRoutes "plangen/routers/calendarRoutes"
	orderRoutes "plangen/routers/orderRoutes"
	roadmapRoutes "plangen/routers/roadmapRoutes"
	"plangen/store"
	"plangen/utils"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	progressStore := store.New(db)
	emailService := utils.NewEmailService(cfg)

	scheduler := utils.NewReminderScheduler(db, emailService, cfg)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start reminder scheduler: %v", err)
	}
	defer scheduler.Stop()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	roadmapRoutes.SetupRoadmapRoutes(app, cfg, roadmapControllers.NewRoadmapController(progressStore, cfg, emailService))
	adminRoutes.SetupAdminRoutes(app, cfg, db, adminControllers.NewAdminController(progressStore, cfg, emailService))
	calendarRoutes.SetupCalendarRoutes(app, cfg, calendarControllers.NewCalendarController(progressStore, cfg))
	orderRoutes.SetupOrderRoutes(app, orderControllers.NewOrderController(progressStore, cfg, emailService))

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
