package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

type SubscriptionHandler struct {
	authService         service.IAuthService
	subscriptionService service.ISubscriptionService
}

func NewSubscriptionHandler(authService service.IAuthService, subscriptionService service.ISubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		authService:         authService,
		subscriptionService: subscriptionService,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	subs := router.Group("/subscriptions")
	subs.Use(middleware.AuthMiddleware(h.authService))
	{
		subs.GET("", h.List)
		subs.POST("", h.Create)
		subs.POST("/:id/cancel", h.Cancel)
	}
}

func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	subs, err := h.subscriptionService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req types.CreateSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.subscriptionService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription ID"})
		return
	}

	sub, err := h.subscriptionService.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "subscription cancelled",
		"subscription": sub,
	})
}
