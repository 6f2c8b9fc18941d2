package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipechef/backend/config"
	"github.com/swipechef/backend/internal/server"
	"github.com/swipechef/backend/internal/testhelpers"
	"github.com/swipechef/backend/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Auth: config.AuthConfig{
			JWTSecret: "server-test-secret-value",
			Issuer:    "swipechef",
			TokenTTL:  time.Hour,
		},
		Feed: config.FeedConfig{
			ReportThreshold: 2,
			OverFetchFactor: 3,
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Cache: config.CacheConfig{CatalogTTL: time.Minute},
	}
}

func do(t *testing.T, h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	srv := server.New(testConfig(), db, server.Deps{})

	w := do(t, srv.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = do(t, srv.Handler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swipechef_")

	w = do(t, srv.Handler(), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedRequiresAuth(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	srv := server.New(testConfig(), db, server.Deps{})

	w := do(t, srv.Handler(), http.MethodGet, "/api/v1/feed", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// catalog is public
	w = do(t, srv.Handler(), http.MethodGet, "/api/v1/categories", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeedEndToEnd(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	srv := server.New(testConfig(), db, server.Deps{})

	userID := uuid.New()
	token, err := srv.Tokens().GenerateToken(userID, "cook@example.com")
	require.NoError(t, err)

	recipes := testhelpers.CreateTestRecipes(t, db, 4)
	testhelpers.SaveForUser(t, db, userID, recipes[0].ID)
	testhelpers.ReportBy(t, db, recipes[1].ID, uuid.New(), uuid.New())

	w := do(t, srv.Handler(), http.MethodGet, "/api/v1/feed?limit=10", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.FeedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	ids := []int64{resp.Recipes[0].ID, resp.Recipes[1].ID}
	assert.ElementsMatch(t, []int64{recipes[2].ID, recipes[3].ID}, ids)

	w = do(t, srv.Handler(), http.MethodGet, "/api/v1/feed?limit=0", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartStopsOnCancel(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	srv := server.New(testConfig(), db, server.Deps{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRecipeCreationLimitIsSeparate(t *testing.T) {
	rdb := testhelpers.SetupRedis(t)
	db := testhelpers.SetupSQLite(t)

	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{
		Enabled:        true,
		Requests:       100,
		Window:         time.Minute,
		ReportRequests: 10,
		ReportWindow:   time.Hour,
		RecipeRequests: 1,
		RecipeWindow:   time.Hour,
	}
	srv := server.New(cfg, db, server.Deps{Redis: rdb})

	token, err := srv.Tokens().GenerateToken(uuid.New(), "cook@example.com")
	require.NoError(t, err)

	// an empty body still counts against the creation limit
	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/recipes", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = do(t, srv.Handler(), http.MethodPost, "/api/v1/recipes", token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = do(t, srv.Handler(), http.MethodGet, "/api/v1/recipes", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}
