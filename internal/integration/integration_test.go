package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/server"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
)

type client struct {
	t      *testing.T
	router *gin.Engine
}

func (c *client) call(method, path, token string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

// TestPlanWorkflow drives registration, generation and review against
// Postgres and Redis containers
func TestPlanWorkflow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDatabase(t)
	redisClient := testhelpers.SetupRedis(t)

	cfg := &config.Config{
		ServerPort:    "0",
		JWTSecret:     "integration-secret",
		PlanRateLimit: 1,
	}
	events := new(testhelpers.MockEventPublisher)
	events.On("PublishJSON", mock.Anything, service.EventPlanCreated, mock.Anything).Return(nil)
	events.On("PublishJSON", mock.Anything, service.EventPlanReviewed, mock.Anything).Return(nil)

	srv := server.New(cfg, api.Deps{
		DB:                  db,
		AuthService:         service.NewAuthService(db, cfg.JWTSecret),
		PlanService:         service.NewPlanService(db, events, nil),
		Generator:           service.NewPlanGenerator(nil, 0),
		FoodPriceService:    service.NewFoodPriceService(db),
		SubscriptionService: service.NewSubscriptionService(db),
		PlanLimiter:         middleware.NewPlanGenerationRateLimiter(redisClient, cfg.PlanRateLimit),
	})
	c := &client{t: t, router: srv.Router()}

	status, body := c.call(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":           "ana@email.com",
		"password":        "123456",
		"name":            "Ana Silva",
		"user_type":       "end_user",
		"budget_per_meal": 30.0,
	})
	require.Equal(t, http.StatusCreated, status)
	userToken := body["access_token"].(string)

	status, body = c.call(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":      "maria@nutricionista.com",
		"password":   "123456",
		"name":       "Dr. Maria Oliveira",
		"user_type":  "nutrition_professional",
		"crn_number": "CRN-3 12345",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body = c.call(http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "maria@nutricionista.com",
		"password": "123456",
	})
	require.Equal(t, http.StatusOK, status)
	proToken := body["access_token"].(string)

	status, body = c.call(http.MethodPost, "/api/diet-plans/generate", userToken, nil)
	require.Equal(t, http.StatusCreated, status)
	plan := body["diet_plan"].(map[string]interface{})
	planID := plan["id"].(string)
	assert.Equal(t, "pending", plan["status"])
	assert.Equal(t, 108.0, plan["ai_plan"].(map[string]interface{})["total_cost"])

	// Limit is one generation per hour
	status, _ = c.call(http.MethodPost, "/api/diet-plans/generate", userToken, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)

	status, body = c.call(http.MethodGet, "/api/rate-limits/plan-generation", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	limits := body["plan_generation"].(map[string]interface{})
	assert.Equal(t, true, limits["enabled"])
	assert.Equal(t, 0.0, limits["remaining"])

	status, body = c.call(http.MethodGet, "/api/diet-plans/pending", proToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["count"])

	status, body = c.call(http.MethodPost, "/api/diet-plans/"+planID+"/validate", proToken, map[string]interface{}{
		"action":   "approve",
		"feedback": "Plano equilibrado",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "approved", body["plan"].(map[string]interface{})["status"])

	status, _ = c.call(http.MethodPost, "/api/diet-plans/"+planID+"/validate", proToken, map[string]interface{}{"action": "reject"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.call(http.MethodGet, "/api/diet-plans/my-plans", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	plans := body["plans"].([]interface{})
	require.Len(t, plans, 1)
	assert.Equal(t, "Plano equilibrado", plans[0].(map[string]interface{})["nutritionist_feedback"])

	status, body = c.call(http.MethodGet, "/api/diet-plans/stats", proToken, nil)
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, 1.0, stats["approved"])
	assert.Equal(t, 100.0, stats["approval_rate"])

	status, body = c.call(http.MethodGet, "/api/status", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PostgreSQL", body["database"].(map[string]interface{})["type"])

	events.AssertNumberOfCalls(t, "PublishJSON", 2)
}
