package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoodPrices(t *testing.T) {
	env := setupTestEnv(t)
	_, userToken := env.endUser(t, 25)
	_, proToken := env.professional(t)

	rice := map[string]interface{}{
		"food_name":      "Arroz integral",
		"price_per_unit": 7.5,
		"unit":           "kg",
		"supermarket":    "Mercado Central",
		"location":       "São Paulo",
	}

	w, _ := env.do(t, http.MethodPost, "/api/food-prices", userToken, rice)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/food-prices", proToken, map[string]interface{}{"food_name": "Feijão"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := env.do(t, http.MethodPost, "/api/food-prices", proToken, rice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := asMap(t, body["food_price"])
	id := created["id"].(string)
	assert.Equal(t, "Arroz integral", created["food_name"])

	w, _ = env.do(t, http.MethodPost, "/api/food-prices", proToken, map[string]interface{}{
		"food_name":      "Frango",
		"price_per_unit": 18.9,
		"unit":           "kg",
		"location":       "Campinas",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/food-prices", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, asSlice(t, body["food_prices"]), 2)

	w, body = env.do(t, http.MethodGet, "/api/food-prices?name=arroz", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, asSlice(t, body["food_prices"]), 1)

	w, body = env.do(t, http.MethodGet, "/api/food-prices?location=campinas", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, asSlice(t, body["food_prices"]), 1)

	rice["price_per_unit"] = 8.25
	w, body = env.do(t, http.MethodPut, "/api/food-prices/"+id, proToken, rice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 8.25, asMap(t, body["food_price"])["price_per_unit"])

	w, _ = env.do(t, http.MethodDelete, "/api/food-prices/"+id, userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.do(t, http.MethodDelete, "/api/food-prices/"+id, proToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/food-prices/"+id, userToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = env.do(t, http.MethodDelete, "/api/food-prices/"+uuid.NewString(), proToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/food-prices/not-a-uuid", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/food-prices", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscriptions(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.endUser(t, 25)
	_, otherToken := env.endUser(t, 25)

	endDate := time.Now().Add(30 * 24 * time.Hour).UTC().Format(time.RFC3339)

	w, _ := env.do(t, http.MethodPost, "/api/subscriptions", token, map[string]interface{}{"plan_type": "gold", "price": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := env.do(t, http.MethodPost, "/api/subscriptions", token, map[string]interface{}{
		"plan_type": "smart",
		"price":     29.9,
		"end_date":  endDate,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := asMap(t, body["subscription"])
	assert.Equal(t, "active", first["status"])

	w, body = env.do(t, http.MethodPost, "/api/subscriptions", token, map[string]interface{}{
		"plan_type": "plus",
		"price":     49.9,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	second := asMap(t, body["subscription"])
	secondID := second["id"].(string)

	w, body = env.do(t, http.MethodGet, "/api/subscriptions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	subs := asSlice(t, body["subscriptions"])
	require.Len(t, subs, 2)

	active := 0
	for _, s := range subs {
		if asMap(t, s)["status"] == "active" {
			active++
		}
	}
	assert.Equal(t, 1, active)

	w, body = env.do(t, http.MethodGet, "/api/subscriptions", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["subscriptions"])

	w, _ = env.do(t, http.MethodPost, "/api/subscriptions/"+secondID+"/cancel", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = env.do(t, http.MethodPost, "/api/subscriptions/"+secondID+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", asMap(t, body["subscription"])["status"])

	w, _ = env.do(t, http.MethodPost, "/api/subscriptions/"+secondID+"/cancel", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
