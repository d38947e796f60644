package api_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
)

func TestGeneratePlan(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.endUser(t, 25)
	_, proToken := env.professional(t)

	w, body := env.do(t, http.MethodPost, "/api/diet-plans/generate", token, map[string]interface{}{
		"budget_per_meal":      30.0,
		"dietary_restrictions": "Sem glúten",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	plan := asMap(t, body["diet_plan"])
	assert.Equal(t, "pending", plan["status"])
	assert.Equal(t, owner.ID.String(), plan["user_id"])
	assert.Nil(t, plan["nutritionist_id"])
	assert.Equal(t, 30.0, plan["budget_per_meal"])
	assert.Equal(t, "Sem glúten", plan["dietary_restrictions"])
	assert.Equal(t, service.DefaultGoal, plan["goal"])
	assert.Equal(t, "Test User", plan["user_name"])

	doc := asMap(t, plan["ai_plan"])
	for _, meal := range []string{"breakfast", "lunch", "dinner", "snack"} {
		assert.Contains(t, doc, meal)
	}
	assert.Equal(t, 108.0, doc["total_cost"])

	// Without a body the profile values are used
	w, body = env.do(t, http.MethodPost, "/api/diet-plans/generate", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 25.0, asMap(t, body["diet_plan"])["budget_per_meal"])

	w, _ = env.do(t, http.MethodPost, "/api/diet-plans/generate", token, map[string]interface{}{"budget_per_meal": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/diet-plans/generate", proToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/diet-plans/generate", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGeneratePlanUsesProvider(t *testing.T) {
	provider := new(testhelpers.MockCompletionProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("upstream unavailable"))

	env := setupTestEnv(t, func(d *api.Deps) {
		d.Generator = service.NewPlanGenerator(provider, 0)
	})
	user := testhelpers.CreateEndUser(t, env.auth, 25, "Perder peso")
	token := env.token(t, user)

	w, body := env.do(t, http.MethodPost, "/api/diet-plans/generate", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	doc := asMap(t, asMap(t, body["diet_plan"])["ai_plan"])
	assert.Equal(t, 80.0, doc["total_cost"])
	provider.AssertExpectations(t)
}

func TestListPlans(t *testing.T) {
	env := setupTestEnv(t)
	owner, ownerToken := env.endUser(t, 25)
	other, otherToken := env.endUser(t, 25)
	_, proToken := env.professional(t)

	testhelpers.CreatePendingPlan(t, env.db, owner)
	testhelpers.CreatePendingPlan(t, env.db, owner)
	testhelpers.CreatePendingPlan(t, env.db, other)

	w, body := env.do(t, http.MethodGet, "/api/diet-plans/my-plans", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, asSlice(t, body["plans"]), 2)

	w, body = env.do(t, http.MethodGet, "/api/diet-plans/my-plans", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, asSlice(t, body["plans"]), 1)

	w, body = env.do(t, http.MethodGet, "/api/diet-plans/my-plans", proToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, asSlice(t, body["plans"]), 3)

	w, body = env.do(t, http.MethodGet, "/api/diet-plans/pending", proToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, body["count"])
	assert.Len(t, asSlice(t, body["pending_plans"]), 3)

	w, _ = env.do(t, http.MethodGet, "/api/diet-plans/pending", ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetPlan(t *testing.T) {
	env := setupTestEnv(t)
	owner, ownerToken := env.endUser(t, 25)
	_, otherToken := env.endUser(t, 25)
	_, proToken := env.professional(t)

	plan := testhelpers.CreatePendingPlan(t, env.db, owner)
	path := "/api/diet-plans/" + plan.ID.String()

	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
	}{
		{"owner", path, ownerToken, http.StatusOK},
		{"other end user", path, otherToken, http.StatusForbidden},
		{"professional on pending plan", path, proToken, http.StatusOK},
		{"unknown plan", "/api/diet-plans/" + uuid.NewString(), ownerToken, http.StatusNotFound},
		{"malformed id", "/api/diet-plans/not-a-uuid", ownerToken, http.StatusNotFound},
		{"anonymous", path, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(t, http.MethodGet, tt.path, tt.token, nil)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, plan.ID.String(), asMap(t, body["plan"])["id"])
			}
		})
	}
}

func TestValidatePlan(t *testing.T) {
	env := setupTestEnv(t)
	owner, ownerToken := env.endUser(t, 25)
	reviewer, proToken := env.professional(t)
	_, secondProToken := env.professional(t)

	plan := testhelpers.CreatePendingPlan(t, env.db, owner)
	path := "/api/diet-plans/" + plan.ID.String() + "/validate"

	w, _ := env.do(t, http.MethodPost, path, ownerToken, map[string]interface{}{"action": "approve"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.do(t, http.MethodPost, path, proToken, map[string]interface{}{"action": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/diet-plans/"+uuid.NewString()+"/validate", proToken, map[string]interface{}{"action": "approve"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// absent plans answer 404 before the body is looked at
	w, _ = env.do(t, http.MethodPost, "/api/diet-plans/"+uuid.NewString()+"/validate", proToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = env.do(t, http.MethodPost, path, proToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := env.do(t, http.MethodPost, path, proToken, map[string]interface{}{
		"action":   "approve",
		"feedback": "Ótimo plano",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "plan approved successfully", body["message"])

	validated := asMap(t, body["plan"])
	assert.Equal(t, "approved", validated["status"])
	assert.Equal(t, reviewer.ID.String(), validated["nutritionist_id"])
	assert.Equal(t, "Ótimo plano", validated["nutritionist_feedback"])
	assert.NotNil(t, validated["validated_at"])
	assert.Equal(t, "Test Nutritionist", validated["nutritionist_name"])

	// A second review fails and leaves the first decision in place
	w, _ = env.do(t, http.MethodPost, path, secondProToken, map[string]interface{}{"action": "reject"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/diet-plans/"+plan.ID.String(), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "approved", asMap(t, body["plan"])["status"])
	assert.Equal(t, "Ótimo plano", asMap(t, body["plan"])["nutritionist_feedback"])

	// Only the recorded reviewer still sees a decided plan
	w, _ = env.do(t, http.MethodGet, "/api/diet-plans/"+plan.ID.String(), proToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(t, http.MethodGet, "/api/diet-plans/"+plan.ID.String(), secondProToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRejectPlan(t *testing.T) {
	env := setupTestEnv(t)
	owner, _ := env.endUser(t, 25)
	_, proToken := env.professional(t)
	plan := testhelpers.CreatePendingPlan(t, env.db, owner)

	w, body := env.do(t, http.MethodPost, "/api/diet-plans/"+plan.ID.String()+"/validate", proToken, map[string]interface{}{
		"action":   "reject",
		"feedback": "Muito sódio",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "plan rejected successfully", body["message"])
	assert.Equal(t, "rejected", asMap(t, body["plan"])["status"])
}

func TestPlanStats(t *testing.T) {
	env := setupTestEnv(t)
	ownerA, _ := env.endUser(t, 25)
	ownerB, _ := env.endUser(t, 25)
	_, proToken := env.professional(t)

	plans := []struct {
		id     uuid.UUID
		action string
	}{
		{testhelpers.CreatePendingPlan(t, env.db, ownerA).ID, "approve"},
		{testhelpers.CreatePendingPlan(t, env.db, ownerA).ID, "approve"},
		{testhelpers.CreatePendingPlan(t, env.db, ownerB).ID, "reject"},
	}
	testhelpers.CreatePendingPlan(t, env.db, ownerB)

	for _, p := range plans {
		w, _ := env.do(t, http.MethodPost, "/api/diet-plans/"+p.id.String()+"/validate", proToken, map[string]interface{}{"action": p.action})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := env.do(t, http.MethodGet, "/api/diet-plans/stats", proToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := asMap(t, body["stats"])
	assert.Equal(t, 3.0, stats["total_validated"])
	assert.Equal(t, 2.0, stats["approved"])
	assert.Equal(t, 1.0, stats["rejected"])
	assert.Equal(t, 1.0, stats["pending"])
	assert.Equal(t, 2.0, stats["unique_patients"])
	assert.Equal(t, 66.7, stats["approval_rate"])
}

func TestExportPlan(t *testing.T) {
	t.Run("storage not configured", func(t *testing.T) {
		env := setupTestEnv(t)
		owner, token := env.endUser(t, 25)
		plan := testhelpers.CreatePendingPlan(t, env.db, owner)

		w, _ := env.do(t, http.MethodPost, "/api/diet-plans/"+plan.ID.String()+"/export", token, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("approved plan", func(t *testing.T) {
		store := new(testhelpers.MockObjectStore)
		env := setupTestEnv(t, func(d *api.Deps) {
			d.Exporter = service.NewPlanExporter(store)
		})
		owner, token := env.endUser(t, 25)
		_, otherToken := env.endUser(t, 25)
		_, proToken := env.professional(t)
		plan := testhelpers.CreatePendingPlan(t, env.db, owner)
		exportPath := "/api/diet-plans/" + plan.ID.String() + "/export"

		w, _ := env.do(t, http.MethodPost, exportPath, token, nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		w, _ = env.do(t, http.MethodPost, "/api/diet-plans/"+plan.ID.String()+"/validate", proToken, map[string]interface{}{"action": "approve"})
		require.Equal(t, http.StatusOK, w.Code)

		key := "plans/" + plan.ID.String() + ".json"
		store.On("PutJSON", mock.Anything, key, mock.Anything).Return(nil).Once()
		store.On("GeneratePresignedURL", mock.Anything, key, service.ExportURLTTL).
			Return("https://bucket.example.com/"+key+"?signed", nil).Once()

		w, _ = env.do(t, http.MethodPost, exportPath, otherToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, body := env.do(t, http.MethodPost, exportPath, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "https://bucket.example.com/"+key+"?signed", body["url"])
		assert.Equal(t, key, body["object_key"])
		assert.NotEmpty(t, body["expires_at"])
		store.AssertExpectations(t)
	})
}
