package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
)

// RateLimitHandler reports how much of the generation allowance is left
type RateLimitHandler struct {
	authService service.IAuthService
	limiter     *middleware.RateLimiter
}

func NewRateLimitHandler(authService service.IAuthService, limiter *middleware.RateLimiter) *RateLimitHandler {
	return &RateLimitHandler{authService: authService, limiter: limiter}
}

func (h *RateLimitHandler) RegisterRoutes(router *gin.RouterGroup) {
	limits := router.Group("/rate-limits")
	limits.Use(middleware.AuthMiddleware(h.authService))
	limits.GET("/plan-generation", h.PlanGeneration)
}

func (h *RateLimitHandler) PlanGeneration(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	status, err := h.limiter.Status(c.Request.Context(), userID.String())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_generation": status})
}
