package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cosmicpalm/destiny-backend/internal/db"
	"github.com/cosmicpalm/destiny-backend/internal/handlers"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/middleware"
	"github.com/cosmicpalm/destiny-backend/internal/repos"
	"github.com/cosmicpalm/destiny-backend/internal/server"
	"github.com/cosmicpalm/destiny-backend/internal/services"
	"github.com/cosmicpalm/destiny-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	webhookSecret := utils.GetEnv("RAZORPAY_WEBHOOK_SECRET", "", log)
	requirePayment := utils.GetEnvAsBool("REQUIRE_PAYMENT", false, log)
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	readingRepo := repos.NewReadingRepo(thePG, log)
	orderRepo := repos.NewOrderRepo(thePG, log)
	horoscopeRepo := repos.NewHoroscopeRepo(thePG, log)

	// Services
	log.Info("Setting up services from main...")
	geminiClient, err := services.NewGeminiClient(log)
	if err != nil {
		log.Error("Could not init GeminiClient", "error", err)
		os.Exit(1)
	}
	promptService := services.NewPromptService()
	horoscopeCache, err := services.NewHoroscopeCache(log)
	if err != nil {
		log.Warn("Could not init HoroscopeCache, continuing without cache", "error", err)
		horoscopeCache = nil
	}
	readingService := services.NewReadingService(log, readingRepo, orderRepo, geminiClient, promptService, requirePayment)
	horoscopeService := services.NewHoroscopeService(log, horoscopeRepo, geminiClient, promptService, horoscopeCache)
	orderService := services.NewOrderService(log, orderRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	readingHandler := handlers.NewReadingHandler(log, readingService)
	horoscopeHandler := handlers.NewHoroscopeHandler(log, horoscopeService)
	orderHandler := handlers.NewOrderHandler(log, orderService)
	webhookHandler := handlers.NewWebhookHandler(log, orderService, webhookSecret)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:   authMiddleware,
		ReadingHandler:   readingHandler,
		HoroscopeHandler: horoscopeHandler,
		OrderHandler:     orderHandler,
		WebhookHandler:   webhookHandler,
		AllowOrigins:     allowOrigins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
