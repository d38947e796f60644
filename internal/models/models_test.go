package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func setupModelDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every new connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Account{}, &DietPlan{}, &FoodPrice{}, &Subscription{}))
	return db
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"end_user", RoleEndUser, true},
		{"user", RoleEndUser, true},
		{"nutrition_professional", RoleProfessional, true},
		{"nutritionist", RoleProfessional, true},
		{"admin", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestAccountVariants(t *testing.T) {
	user := NewAccount("ana@email.com", "hash", "Ana", RoleEndUser)
	require.NoError(t, user.SetEndUser(EndUserProfile{Goal: strPtr("Perder peso")}))
	assert.ErrorIs(t, user.SetProfessional(ProfessionalProfile{LicenseNumber: strPtr("CRN-1")}), ErrWrongRole)
	_, err := user.Professional()
	assert.ErrorIs(t, err, ErrWrongRole)

	pro := NewAccount("maria@nutri.com", "hash", "Maria", RoleProfessional)
	assert.ErrorIs(t, pro.SetEndUser(EndUserProfile{Goal: strPtr("x")}), ErrWrongRole)
	_, err = pro.EndUser()
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestAccountBeforeSaveRejectsForeignFields(t *testing.T) {
	db := setupModelDB(t)

	pro := NewAccount("maria@nutri.com", "hash", "Maria", RoleProfessional)
	pro.EndUserFields.Goal = strPtr("sneaky")
	err := db.Create(pro).Error
	assert.ErrorIs(t, err, ErrWrongRole)

	user := NewAccount("ana@email.com", "hash", "Ana", RoleEndUser)
	require.NoError(t, db.Create(user).Error)
}

func TestAccountJSONCarriesOnlyActiveVariant(t *testing.T) {
	user := NewAccount("ana@email.com", "hash", "Ana", RoleEndUser)
	budget := 30.0
	require.NoError(t, user.SetEndUser(EndUserProfile{BudgetPerMeal: &budget}))

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "end_user", out["user_type"])
	assert.Equal(t, 30.0, out["budget_per_meal"])
	assert.NotContains(t, out, "crn_number")
	assert.NotContains(t, out, "password_hash")

	pro := NewAccount("maria@nutri.com", "hash", "Maria", RoleProfessional)
	raw, err = json.Marshal(pro)
	require.NoError(t, err)
	out = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Contains(t, out, "crn_number")
	assert.NotContains(t, out, "weight")
	assert.NotContains(t, out, "goal")
}

func TestAccountBudgetDefault(t *testing.T) {
	user := NewAccount("ana@email.com", "hash", "Ana", RoleEndUser)
	assert.Equal(t, DefaultBudgetPerMeal, user.Budget())
}

func TestPlanDocumentRoundTripThroughDatabase(t *testing.T) {
	db := setupModelDB(t)
	owner := NewAccount("ana@email.com", "hash", "Ana", RoleEndUser)
	require.NoError(t, db.Create(owner).Error)

	meal := &Meal{Description: "Ovos", Foods: []string{"Ovos (2 unidades)"}, EstimatedCost: 10, Calories: 200, Macros: Macros{Protein: 12}}
	plan := &DietPlan{
		UserID:        owner.ID,
		Goal:          "Manter peso",
		BudgetPerMeal: 25,
		Plan:          PlanDocument{Breakfast: meal, Lunch: meal, Dinner: meal, Snack: meal, TotalCalories: 800},
		Status:        PlanPending,
	}
	require.NoError(t, db.Create(plan).Error)

	var loaded DietPlan
	require.NoError(t, db.Preload("Owner").First(&loaded, "id = ?", plan.ID).Error)
	assert.True(t, loaded.Plan.Complete())
	assert.Equal(t, 800.0, loaded.Plan.TotalCalories)
	assert.Equal(t, []string{"Ovos (2 unidades)"}, loaded.Plan.Lunch.Foods)
	require.NotNil(t, loaded.Owner)
	assert.Equal(t, "Ana", loaded.Owner.Name)
}

func TestDecodePlanDocument(t *testing.T) {
	_, err := DecodePlanDocument([]byte(`{"breakfast":{},"lunch":{},"dinner":{}}`))
	assert.ErrorIs(t, err, ErrIncompletePlan)

	_, err = DecodePlanDocument([]byte(`not json`))
	assert.Error(t, err)

	doc, err := DecodePlanDocument([]byte(`{"breakfast":{},"lunch":{},"dinner":{},"snack":{"calories":150}}`))
	require.NoError(t, err)
	assert.Equal(t, 150.0, doc.Snack.Calories)
}

func TestReviewDecisionStatus(t *testing.T) {
	s, ok := DecisionApprove.Status()
	assert.True(t, ok)
	assert.Equal(t, PlanApproved, s)

	s, ok = DecisionReject.Status()
	assert.True(t, ok)
	assert.Equal(t, PlanRejected, s)

	_, ok = ReviewDecision("maybe").Status()
	assert.False(t, ok)
}
