package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"github.com/localnerve/breedwatch/internal/config"
	"github.com/localnerve/breedwatch/internal/database"
	"github.com/localnerve/breedwatch/internal/handlers"
	"github.com/localnerve/breedwatch/internal/middleware"
	"github.com/localnerve/breedwatch/internal/services"
	"github.com/localnerve/breedwatch/internal/types"

	_ "github.com/localnerve/breedwatch/docs/api" // Swagger docs
)

// @title BreedWatch API
// @version 1.0.0
// @description Integration backend for the mosquito breeding-site detection program
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/breedwatch
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https

func main() {
	// Optional .env for local development; the container environment wins
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// External collaborators
	storage := services.NewBlobStorage(cfg)
	detection := services.NewDetectionClient(cfg)
	if detection == nil {
		log.Printf("DETECTION_API_URL not set; detection submissions disabled")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
		BodyLimit:             32 * 1024 * 1024, // image uploads
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	// Mobile and portal clients call from arbitrary origins
	app.Use(cors.New())
	app.Use(compress.New())
	app.Use(middleware.VersionMiddleware())

	// Prometheus metrics
	prometheus := fiberprometheus.New("breedwatch")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	healthHandler := &handlers.HealthHandler{Config: cfg, DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	portalUserHandler := &handlers.PortalUserHandler{DB: db}
	campaignHandler := &handlers.CampaignHandler{DB: db}
	resultHandler := &handlers.ResultHandler{DB: db, Storage: storage, Detection: detection}

	app.Get("/health", healthHandler.Health)

	// Mobile-user routes
	user := app.Group("/user")
	user.Post("/createUser", userHandler.CreateUser)
	user.Post("/login", userHandler.Login)
	user.Get("/getAllUsers", userHandler.GetAllUsers)
	user.Get("/getUser/:userId", userHandler.GetUser)
	user.Put("/updateUser/:userId", userHandler.UpdateUser)
	user.Delete("/deleteUser/:userId", userHandler.DeleteUser)

	// Portal-user routes
	userPortal := app.Group("/userPortal")
	userPortal.Post("/createUserPortal", portalUserHandler.CreatePortalUser)
	userPortal.Post("/login", portalUserHandler.Login)
	userPortal.Get("/getAllUserPortals", portalUserHandler.GetAllPortalUsers)
	userPortal.Get("/getUserPortal/:portalUserId", portalUserHandler.GetPortalUser)
	userPortal.Put("/updateUserPortal/:portalUserId", portalUserHandler.UpdatePortalUser)
	userPortal.Delete("/deleteUserPortal/:portalUserId", portalUserHandler.DeletePortalUser)

	// Campaign routes
	campaigns := app.Group("/campaigns")
	campaigns.Post("/createCampaign", campaignHandler.CreateCampaign)
	campaigns.Get("/getCampaign/:campaignId", campaignHandler.GetCampaign)
	campaigns.Get("/getCampaignByUser/:userId", campaignHandler.GetCampaignsByUser)
	campaigns.Get("/getCampaignByUserPortal/:portalUserId", campaignHandler.GetCampaignsByPortalUser)
	campaigns.Get("/getCampaignHome/:userId", campaignHandler.GetCampaignHome)
	campaigns.Get("/getAllCampaigns", campaignHandler.GetAllCampaigns)
	campaigns.Put("/updateCampaign/:campaignId", campaignHandler.UpdateCampaign)
	campaigns.Delete("/deleteCampaign/:campaignId", campaignHandler.DeleteCampaign)

	// Result routes
	results := app.Group("/results")
	results.Post("/createResult", resultHandler.CreateResult)
	results.Post("/uploadImages", resultHandler.UploadImages)
	results.Get("/getResult/:resultId", resultHandler.GetResult)
	results.Get("/getResultByUser/:userId", resultHandler.GetResultsByUser)
	results.Get("/getAllResults", resultHandler.GetAllResults)
	results.Put("/updateResultStatus", resultHandler.UpdateResultStatus)
	results.Put("/updateResultImage", resultHandler.UpdateResultImage)
	results.Put("/updateResultFeedback", resultHandler.UpdateResultFeedback)
	results.Delete("/deleteResult/:resultId", resultHandler.DeleteResult)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Errors raised with an explicit status and outcome type
	var customError *types.CustomError
	if errors.As(err, &customError) {
		code = customError.Code
		message = customError.Message
		errorType = customError.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
