// @title           Trash Classifier Backend API
// @version         1.0.0
// @description     Backend API for classifying uploaded trash images with a pretrained model, collecting user feedback on the predictions, and serving per-day feedback statistics for a dashboard.

// @host      localhost:8080
// @BasePath  /api

package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"trash-classifier-backend/internal/classifier"
	"trash-classifier-backend/internal/config"
	"trash-classifier-backend/internal/database"
	"trash-classifier-backend/internal/handlers"
	"trash-classifier-backend/internal/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Run migrations
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: Failed to initialize migrator: %v", err)
	} else {
		defer migrator.Close()
		if err := migrator.Run(); err != nil {
			log.Printf("Warning: Migration failed: %v", err)
		} else {
			log.Println("Migrations completed successfully")
		}
	}

	// Create database client
	dbClient, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	// Construct the classifier. The model loads lazily on first use; warm
	// it up here so a broken artifact is visible at startup.
	model := classifier.New(cfg.ModelPath, cfg.ModelMetadataPath)
	defer model.Close()
	if err := model.Warmup(); err != nil {
		log.Printf("Warning: Classifier warmup failed: %v", err)
		log.Println("Uploads will fail until the model artifact is available.")
	} else {
		log.Printf("Model loaded: %s", cfg.ModelPath)
	}

	// Initialize handlers
	picturesHandler := handlers.NewPicturesHandler(dbClient, model)
	feedbackHandler := handlers.NewFeedbackHandler(dbClient)
	dashboardHandler := handlers.NewDashboardHandler(dbClient)

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(middleware.CORSMiddleware(cfg))

	// Liveness (no /api prefix)
	router.GET("/", handlers.IndexHandler)
	router.GET("/health", handlers.HealthHandler)

	// API routes
	api := router.Group("/api")

	api.POST("/picture", picturesHandler.Upload)
	api.GET("/picture/:id", picturesHandler.GetPicture)

	api.POST("/feedback/:picture_id", feedbackHandler.SubmitFeedback)

	api.GET("/dashboard", dashboardHandler.GetDashboard)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
