package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/api"
	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewSQLiteDB(t)
	auth := service.NewAuthService(db, cfg.JWTSecret)

	return New(cfg, api.Deps{
		DB:                  db,
		AuthService:         auth,
		PlanService:         service.NewPlanService(db, nil, nil),
		Generator:           service.NewPlanGenerator(nil, 0),
		FoodPriceService:    service.NewFoodPriceService(db),
		SubscriptionService: service.NewSubscriptionService(db),
	})
}

func TestNew(t *testing.T) {
	cfg := &config.Config{
		ServerHost:  "localhost",
		ServerPort:  "8080",
		JWTSecret:   "test-secret",
		CORSOrigins: []string{"http://localhost:3000"},
	}

	server := newTestServer(t, cfg)
	require.NotNil(t, server)
	assert.Equal(t, "localhost:8080", server.Addr())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestCORSHeaders(t *testing.T) {
	cfg := &config.Config{
		ServerPort:  "8080",
		JWTSecret:   "test-secret",
		CORSOrigins: []string{"http://localhost:3000"},
	}
	server := newTestServer(t, cfg)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStartAndShutdown(t *testing.T) {
	cfg := &config.Config{
		ServerHost: "127.0.0.1",
		ServerPort: "0",
		JWTSecret:  "test-secret",
	}
	server := newTestServer(t, cfg)

	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, server.Shutdown(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
