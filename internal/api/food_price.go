package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// FoodPriceHandler serves the food price reference table. Any account may
// read it; only professionals maintain it.
type FoodPriceHandler struct {
	authService      service.IAuthService
	foodPriceService service.IFoodPriceService
}

func NewFoodPriceHandler(authService service.IAuthService, foodPriceService service.IFoodPriceService) *FoodPriceHandler {
	return &FoodPriceHandler{
		authService:      authService,
		foodPriceService: foodPriceService,
	}
}

func (h *FoodPriceHandler) RegisterRoutes(router *gin.RouterGroup) {
	prices := router.Group("/food-prices")
	prices.Use(middleware.AuthMiddleware(h.authService))
	{
		prices.GET("", h.List)
		prices.GET("/:id", h.Get)

		write := prices.Group("")
		write.Use(middleware.RequireRole(models.RoleProfessional))
		write.POST("", h.Create)
		write.PUT("/:id", h.Update)
		write.DELETE("/:id", h.Delete)
	}
}

func (h *FoodPriceHandler) List(c *gin.Context) {
	prices, err := h.foodPriceService.List(c.Request.Context(), service.FoodPriceFilter{
		Name:     c.Query("name"),
		Location: c.Query("location"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"food_prices": prices})
}

func (h *FoodPriceHandler) Get(c *gin.Context) {
	id, ok := foodPriceIDParam(c)
	if !ok {
		return
	}

	price, err := h.foodPriceService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"food_price": price})
}

func (h *FoodPriceHandler) Create(c *gin.Context) {
	var req types.FoodPriceRequest
	if !bindJSON(c, &req) {
		return
	}

	price, err := h.foodPriceService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"food_price": price})
}

func (h *FoodPriceHandler) Update(c *gin.Context) {
	id, ok := foodPriceIDParam(c)
	if !ok {
		return
	}

	var req types.FoodPriceRequest
	if !bindJSON(c, &req) {
		return
	}

	price, err := h.foodPriceService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"food_price": price})
}

func (h *FoodPriceHandler) Delete(c *gin.Context) {
	id, ok := foodPriceIDParam(c)
	if !ok {
		return
	}

	if err := h.foodPriceService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func foodPriceIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food price ID"})
		return uuid.Nil, false
	}
	return id, true
}
