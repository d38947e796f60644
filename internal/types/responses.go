package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// PlanResponse is the wire shape of a diet plan
type PlanResponse struct {
	ID                   uuid.UUID           `json:"id"`
	UserID               uuid.UUID           `json:"user_id"`
	NutritionistID       *uuid.UUID          `json:"nutritionist_id"`
	Goal                 string              `json:"goal"`
	BudgetPerMeal        float64             `json:"budget_per_meal"`
	DietaryRestrictions  string              `json:"dietary_restrictions"`
	AIPlan               models.PlanDocument `json:"ai_plan"`
	Status               models.PlanStatus   `json:"status"`
	NutritionistFeedback string              `json:"nutritionist_feedback"`
	CreatedAt            time.Time           `json:"created_at"`
	ValidatedAt          *time.Time          `json:"validated_at"`
	UserName             *string             `json:"user_name"`
	NutritionistName     *string             `json:"nutritionist_name"`
}

// NewPlanResponse converts a plan with its preloaded owner and reviewer
func NewPlanResponse(p *models.DietPlan) PlanResponse {
	resp := PlanResponse{
		ID:                   p.ID,
		UserID:               p.UserID,
		NutritionistID:       p.NutritionistID,
		Goal:                 p.Goal,
		BudgetPerMeal:        p.BudgetPerMeal,
		DietaryRestrictions:  p.DietaryRestrictions,
		AIPlan:               p.Plan,
		Status:               p.Status,
		NutritionistFeedback: p.NutritionistFeedback,
		CreatedAt:            p.CreatedAt,
		ValidatedAt:          p.ValidatedAt,
	}
	if p.Owner != nil {
		resp.UserName = &p.Owner.Name
	}
	if p.Reviewer != nil {
		resp.NutritionistName = &p.Reviewer.Name
	}
	return resp
}

// NewPlanResponses converts a list of plans
func NewPlanResponses(plans []*models.DietPlan) []PlanResponse {
	out := make([]PlanResponse, len(plans))
	for i, p := range plans {
		out[i] = NewPlanResponse(p)
	}
	return out
}

// ReviewerStats summarises a professional's review activity
type ReviewerStats struct {
	TotalValidated int64   `json:"total_validated"`
	Approved       int64   `json:"approved"`
	Rejected       int64   `json:"rejected"`
	Pending        int64   `json:"pending"`
	UniquePatients int64   `json:"unique_patients"`
	ApprovalRate   float64 `json:"approval_rate"`
}

// PlanExport points at an uploaded copy of an approved plan
type PlanExport struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"object_key"`
	ExpiresAt time.Time `json:"expires_at"`
}
