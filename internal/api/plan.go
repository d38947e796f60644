package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

type PlanHandler struct {
	authService service.IAuthService
	planService service.IPlanService
	generator   service.IPlanGenerator
	exporter    service.IPlanExporter
	limiter     *middleware.RateLimiter
}

// NewPlanHandler creates the diet plan handler. exporter and limiter may be nil.
func NewPlanHandler(
	authService service.IAuthService,
	planService service.IPlanService,
	generator service.IPlanGenerator,
	exporter service.IPlanExporter,
	limiter *middleware.RateLimiter,
) *PlanHandler {
	return &PlanHandler{
		authService: authService,
		planService: planService,
		generator:   generator,
		exporter:    exporter,
		limiter:     limiter,
	}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/diet-plans")
	plans.Use(middleware.AuthMiddleware(h.authService))
	{
		plans.POST("/generate",
			middleware.RequireRole(models.RoleEndUser),
			h.limiter.RateLimitMiddleware(),
			h.Generate,
		)
		plans.GET("/my-plans", h.MyPlans)
		plans.GET("/pending", middleware.RequireRole(models.RoleProfessional), h.Pending)
		plans.GET("/stats", middleware.RequireRole(models.RoleProfessional), h.Stats)
		plans.GET("/:id", h.Get)
		plans.POST("/:id/validate", middleware.RequireRole(models.RoleProfessional), h.Validate)
		plans.POST("/:id/export", h.Export)
	}
}

func (h *PlanHandler) Generate(c *gin.Context) {
	account, ok := currentAccount(c, h.authService)
	if !ok {
		return
	}

	var overrides types.GeneratePlanRequest
	if !bindOptionalJSON(c, &overrides) {
		return
	}

	snapshot, req, err := service.NewProfileSnapshot(account, &overrides)
	if err != nil {
		respondError(c, err)
		return
	}

	doc := h.generator.Generate(c.Request.Context(), snapshot)

	plan, err := h.planService.Create(c.Request.Context(), account.ID, req, doc)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "diet plan generated successfully",
		"diet_plan": types.NewPlanResponse(plan),
	})
}

func (h *PlanHandler) MyPlans(c *gin.Context) {
	account, ok := currentAccount(c, h.authService)
	if !ok {
		return
	}

	plans, err := h.planService.ListVisibleTo(c.Request.Context(), account)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": types.NewPlanResponses(plans)})
}

func (h *PlanHandler) Pending(c *gin.Context) {
	plans, err := h.planService.Pending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending_plans": types.NewPlanResponses(plans),
		"count":         len(plans),
	})
}

func (h *PlanHandler) Stats(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	stats, err := h.planService.StatsFor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *PlanHandler) Get(c *gin.Context) {
	plan, ok := h.visiblePlan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": types.NewPlanResponse(plan)})
}

func (h *PlanHandler) Validate(c *gin.Context) {
	planID, ok := planIDParam(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	// an empty body reaches Review so that a missing plan still answers 404
	var req types.ReviewPlanRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	plan, err := h.planService.Review(c.Request.Context(), planID, userID, models.ReviewDecision(req.Action), req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "plan approved successfully"
	if plan.Status == models.PlanRejected {
		message = "plan rejected successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"plan":    types.NewPlanResponse(plan),
	})
}

func (h *PlanHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		respondError(c, config.ErrStorageDisabled)
		return
	}

	plan, ok := h.visiblePlan(c)
	if !ok {
		return
	}

	export, err := h.exporter.Export(c.Request.Context(), plan)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, export)
}

func (h *PlanHandler) visiblePlan(c *gin.Context) (*models.DietPlan, bool) {
	planID, ok := planIDParam(c)
	if !ok {
		return nil, false
	}
	account, ok := currentAccount(c, h.authService)
	if !ok {
		return nil, false
	}

	plan, err := h.planService.Get(c.Request.Context(), planID, account)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return plan, true
}

// planIDParam parses :id. Malformed ids cannot name a plan and answer 404.
func planIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}
