package types

import (
	"time"
)

// RegisterRequest represents the request body for creating an account.
// Required fields are checked by the account service so that the same
// rules apply to every caller.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	UserType string `json:"user_type"`

	Age                 *int     `json:"age"`
	Weight              *float64 `json:"weight"`
	Height              *float64 `json:"height"`
	Goal                *string  `json:"goal"`
	BudgetPerMeal       *float64 `json:"budget_per_meal"`
	DietaryRestrictions *string  `json:"dietary_restrictions"`

	CRNNumber      *string `json:"crn_number"`
	Specialization *string `json:"specialization"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the fields a caller wants to change. Fields
// that do not belong to the caller's role are ignored.
type UpdateProfileRequest struct {
	Name *string `json:"name"`

	Age                 *int     `json:"age"`
	Weight              *float64 `json:"weight"`
	Height              *float64 `json:"height"`
	Goal                *string  `json:"goal"`
	BudgetPerMeal       *float64 `json:"budget_per_meal"`
	DietaryRestrictions *string  `json:"dietary_restrictions"`

	CRNNumber      *string `json:"crn_number"`
	Specialization *string `json:"specialization"`
}

// GeneratePlanRequest holds optional overrides of the caller's profile
type GeneratePlanRequest struct {
	Goal                *string  `json:"goal"`
	BudgetPerMeal       *float64 `json:"budget_per_meal"`
	DietaryRestrictions *string  `json:"dietary_restrictions"`
}

// ReviewPlanRequest is a professional's decision on a pending plan
type ReviewPlanRequest struct {
	Action   string `json:"action"`
	Feedback string `json:"feedback"`
}

// FoodPriceRequest represents the request body for creating or updating a food price
type FoodPriceRequest struct {
	FoodName     string  `json:"food_name" binding:"required,max=100"`
	PricePerUnit float64 `json:"price_per_unit" binding:"required,gt=0"`
	Unit         string  `json:"unit" binding:"required,max=20"`
	Supermarket  string  `json:"supermarket" binding:"max=50"`
	Location     string  `json:"location" binding:"max=100"`
}

// CreateSubscriptionRequest represents the request body for subscribing
type CreateSubscriptionRequest struct {
	PlanType string     `json:"plan_type" binding:"required,oneof=smart plus"`
	Price    float64    `json:"price" binding:"gte=0"`
	EndDate  *time.Time `json:"end_date"`
}
