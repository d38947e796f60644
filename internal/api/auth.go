package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	protected := auth.Group("")
	protected.Use(middleware.AuthMiddleware(h.authService))
	{
		protected.GET("/me", h.Me)
		protected.PUT("/update-profile", h.UpdateProfile)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, "user registered successfully", account)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(c, fmt.Errorf("%w: email and password are required", service.ErrValidation))
		return
	}

	account, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, "login successful", account)
}

func (h *AuthHandler) Me(c *gin.Context) {
	account, ok := currentAccount(c, h.authService)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.authService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated successfully",
		"user":    account,
	})
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, message string, account *models.Account) {
	token, err := h.authService.GenerateToken(account)
	if err != nil {
		respondError(c, fmt.Errorf("failed to generate token: %w", err))
		return
	}

	c.JSON(status, gin.H{
		"message":      message,
		"access_token": token,
		"user":         account,
	})
}

// currentAccount loads the caller's account, answering 401 or 404 when it
// cannot
func currentAccount(c *gin.Context, auth service.IAuthService) (*models.Account, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}

	account, err := auth.GetAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return account, true
}
