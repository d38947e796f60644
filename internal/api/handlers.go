package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
)

// Version is reported by the health and status endpoints
const Version = "1.0.0"

// Deps holds everything the HTTP layer needs. Exporter and PlanLimiter may be
// nil when S3 or Redis are not configured.
type Deps struct {
	Config              *config.Config
	DB                  *gorm.DB
	AuthService         service.IAuthService
	PlanService         service.IPlanService
	Generator           service.IPlanGenerator
	FoodPriceService    service.IFoodPriceService
	SubscriptionService service.ISubscriptionService
	Exporter            service.IPlanExporter
	PlanLimiter         *middleware.RateLimiter
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "NutriPlan API is running",
		"version": Version,
	})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api")
	v1.GET("/health", HealthCheck)
	v1.GET("/status", statusHandler(deps))

	NewAuthHandler(deps.AuthService).RegisterRoutes(v1)
	NewPlanHandler(deps.AuthService, deps.PlanService, deps.Generator, deps.Exporter, deps.PlanLimiter).RegisterRoutes(v1)
	NewFoodPriceHandler(deps.AuthService, deps.FoodPriceService).RegisterRoutes(v1)
	NewSubscriptionHandler(deps.AuthService, deps.SubscriptionService).RegisterRoutes(v1)
	NewRateLimitHandler(deps.AuthService, deps.PlanLimiter).RegisterRoutes(v1)
}

// statusHandler reports which backing services are configured. Only flags
// and names are returned, never credentials.
func statusHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := deps.Config
		if cfg == nil {
			cfg = &config.Config{}
		}

		dbStatus := "connected"
		if deps.DB == nil {
			dbStatus = "unavailable"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := database.HealthCheck(ctx, deps.DB); err != nil {
				dbStatus = "unavailable"
			}
		}

		provider := "fallback"
		if deps.Generator != nil {
			provider = deps.Generator.ProviderName()
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"version":     Version,
			"environment": string(config.GetEnvironment()),
			"database": gin.H{
				"type":   databaseType(deps.DB),
				"status": dbStatus,
			},
			"ai_service": gin.H{
				"configured": provider != "fallback",
				"provider":   provider,
			},
			"integrations": gin.H{
				"rate_limiting": deps.PlanLimiter.Enabled(),
				"plan_export":   deps.Exporter != nil,
				"events":        cfg.AMQPURL != "",
				"email":         cfg.SMTPHost != "",
			},
			"endpoints": gin.H{
				"auth":          "/api/auth",
				"diet_plans":    "/api/diet-plans",
				"food_prices":   "/api/food-prices",
				"subscriptions": "/api/subscriptions",
				"rate_limits":   "/api/rate-limits",
			},
		})
	}
}

func databaseType(db *gorm.DB) string {
	if db == nil {
		return "none"
	}
	switch db.Dialector.Name() {
	case "postgres":
		return "PostgreSQL"
	case "sqlite":
		return "SQLite"
	default:
		return db.Dialector.Name()
	}
}
