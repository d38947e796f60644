package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanStatus is the approval state of a diet plan
type PlanStatus string

const (
	PlanPending  PlanStatus = "pending"
	PlanApproved PlanStatus = "approved"
	PlanRejected PlanStatus = "rejected"
)

// ReviewDecision is what a professional decides about a pending plan
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

// Status returns the status a decision moves a plan to
func (d ReviewDecision) Status() (PlanStatus, bool) {
	switch d {
	case DecisionApprove:
		return PlanApproved, true
	case DecisionReject:
		return PlanRejected, true
	}
	return "", false
}

// DietPlan is one generated meal plan and its review state
type DietPlan struct {
	ID                   uuid.UUID    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID               uuid.UUID    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	NutritionistID       *uuid.UUID   `gorm:"type:varchar(36);index" json:"nutritionist_id"`
	Goal                 string       `gorm:"type:text;not null" json:"goal"`
	BudgetPerMeal        float64      `gorm:"not null" json:"budget_per_meal"`
	DietaryRestrictions  string       `gorm:"type:text" json:"dietary_restrictions"`
	Plan                 PlanDocument `gorm:"column:ai_plan;type:text;not null" json:"ai_plan"`
	Status               PlanStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	NutritionistFeedback string       `gorm:"type:text" json:"nutritionist_feedback"`
	CreatedAt            time.Time    `gorm:"index" json:"created_at"`
	ValidatedAt          *time.Time   `json:"validated_at"`

	Owner    *Account `gorm:"foreignKey:UserID" json:"-"`
	Reviewer *Account `gorm:"foreignKey:NutritionistID" json:"-"`
}

// BeforeCreate assigns an id when the caller did not
func (p *DietPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether the account requested this plan
func (p *DietPlan) OwnedBy(accountID uuid.UUID) bool {
	return p.UserID == accountID
}

// ReviewedBy reports whether the account made the review decision
func (p *DietPlan) ReviewedBy(accountID uuid.UUID) bool {
	return p.NutritionistID != nil && *p.NutritionistID == accountID
}
