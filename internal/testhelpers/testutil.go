package testhelpers

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// TestPassword is the password of every account created by the helpers
const TestPassword = "testpassword123"

// CreateEndUser registers an end user with a unique e-mail
func CreateEndUser(t *testing.T, auth service.IAuthService, budget float64, goal string) *models.Account {
	t.Helper()
	req := &types.RegisterRequest{
		Email:         fmt.Sprintf("user+%s@example.com", uuid.NewString()),
		Password:      TestPassword,
		Name:          "Test User",
		UserType:      "end_user",
		BudgetPerMeal: &budget,
	}
	if goal != "" {
		req.Goal = &goal
	}
	account, err := auth.Register(context.Background(), req)
	require.NoError(t, err)
	return account
}

// CreateProfessional registers a nutrition professional with a unique e-mail
func CreateProfessional(t *testing.T, auth service.IAuthService) *models.Account {
	t.Helper()
	crn := "CRN-3 " + uuid.NewString()[:5]
	account, err := auth.Register(context.Background(), &types.RegisterRequest{
		Email:     fmt.Sprintf("pro+%s@example.com", uuid.NewString()),
		Password:  TestPassword,
		Name:      "Test Nutritionist",
		UserType:  "nutrition_professional",
		CRNNumber: &crn,
	})
	require.NoError(t, err)
	return account
}

// CreatePendingPlan stores a fallback plan for the owner
func CreatePendingPlan(t *testing.T, db *gorm.DB, owner *models.Account) *models.DietPlan {
	t.Helper()
	plan := &models.DietPlan{
		UserID:        owner.ID,
		Goal:          service.DefaultGoal,
		BudgetPerMeal: owner.Budget(),
		Plan:          service.FallbackPlan(service.DefaultGoal, owner.Budget()),
		Status:        models.PlanPending,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}
