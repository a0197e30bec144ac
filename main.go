package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/cleantrack/config"
	"github.com/yeremiapane/cleantrack/database"
	"github.com/yeremiapane/cleantrack/middlewares"
	"github.com/yeremiapane/cleantrack/realtime"
	"github.com/yeremiapane/cleantrack/router"
	"github.com/yeremiapane/cleantrack/store"
	"github.com/yeremiapane/cleantrack/utils"
)

func init() {
	// Load .env sebelum apa pun membaca environment.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	adapter := store.NewAdapter(db)

	// Change monitor: poll feed perubahan dan dorong snapshot ke
	// subscriber live.
	monitor := store.NewChangeMonitor(adapter)
	monitor.Start()
	defer monitor.Stop()

	hub := realtime.NewHub()
	defer hub.CloseAll()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(adapter, hub)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
