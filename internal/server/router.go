package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cosmicpalm/destiny-backend/internal/handlers"
	"github.com/cosmicpalm/destiny-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware   *middleware.AuthMiddleware
	ReadingHandler   *handlers.ReadingHandler
	HoroscopeHandler *handlers.HoroscopeHandler
	OrderHandler     *handlers.OrderHandler
	WebhookHandler   *handlers.WebhookHandler
	AllowOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/api/webhooks/razorpay", cfg.WebhookHandler.HandleRazorpay)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.POST("/readings", cfg.ReadingHandler.Generate)
		api.GET("/readings", cfg.ReadingHandler.List)
		api.DELETE("/readings/:id", cfg.ReadingHandler.Delete)
		api.PATCH("/readings/:id/name", cfg.ReadingHandler.Rename)
		api.POST("/readings/:id/translate", cfg.ReadingHandler.Translate)

		api.POST("/horoscopes/daily", cfg.HoroscopeHandler.Daily)
		api.GET("/horoscopes", cfg.HoroscopeHandler.History)

		api.POST("/orders", cfg.OrderHandler.Create)
		api.GET("/orders", cfg.OrderHandler.List)
	}

	return router
}
