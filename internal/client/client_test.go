package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipechef/backend/config"
	"github.com/swipechef/backend/internal/api"
	"github.com/swipechef/backend/internal/client"
	"github.com/swipechef/backend/internal/feed"
	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/server"
	"github.com/swipechef/backend/internal/session"
	"github.com/swipechef/backend/internal/testhelpers"
)

func newBackend(t *testing.T) (*httptest.Server, *server.Server) {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	cfg := &config.Config{
		Server: config.ServerConfig{CORSOrigins: []string{"*"}},
		Auth: config.AuthConfig{
			JWTSecret: "client-test-secret-value",
			Issuer:    "swipechef",
			TokenTTL:  time.Hour,
		},
		Feed:  config.FeedConfig{ReportThreshold: 2, OverFetchFactor: 3, DefaultPageSize: 20, MaxPageSize: 100},
		Cache: config.CacheConfig{CatalogTTL: time.Minute},
	}
	srv := server.New(cfg, db, server.Deps{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, srv
}

func TestFeedQueryRoundTrip(t *testing.T) {
	cat := int64(7)
	d := models.DifficultyMedium
	prep := 25
	in := feed.Criteria{CategoryID: &cat, Difficulty: &d, MaxPrepTime: &prep, TagIDs: []int64{3, 5}}

	limit, out, err := api.ParseFeedQuery(client.FeedQuery(12, in), 20, 100)
	require.NoError(t, err)
	assert.Equal(t, 12, limit)
	assert.Equal(t, in, out)
}

func TestClientAgainstServer(t *testing.T) {
	ts, srv := newBackend(t)

	store := session.NewStore()
	c, err := client.New(client.Config{BaseURL: ts.URL + "/api/v1", Tokens: store, HTTPClient: ts.Client()})
	require.NoError(t, err)

	userID := uuid.New()
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		_, err := c.Fetch(ctx, userID, 5, feed.Criteria{})
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	})

	token, err := srv.Tokens().GenerateToken(userID, "cook@example.com")
	require.NoError(t, err)
	store.SignIn(session.Identity{UserID: userID, Token: token})

	t.Run("empty pool", func(t *testing.T) {
		page, err := c.Fetch(ctx, userID, 5, feed.Criteria{})
		require.NoError(t, err)
		assert.NotNil(t, page)
		assert.Empty(t, page)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := c.Fetch(ctx, uuid.Nil, 5, feed.Criteria{})
		assert.ErrorIs(t, err, feed.ErrInvalidUser)
		_, err = c.Fetch(ctx, userID, 0, feed.Criteria{})
		assert.ErrorIs(t, err, feed.ErrInvalidLimit)
	})

	t.Run("save of a missing recipe", func(t *testing.T) {
		err := c.Save(ctx, userID, 999)
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	})

	t.Run("categories", func(t *testing.T) {
		cats, err := c.Categories(ctx)
		require.NoError(t, err)
		assert.Empty(t, cats)
	})
}

func TestSessionOverHTTP(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	cfg := &config.Config{
		Server: config.ServerConfig{CORSOrigins: []string{"*"}},
		Auth: config.AuthConfig{
			JWTSecret: "client-test-secret-value",
			Issuer:    "swipechef",
			TokenTTL:  time.Hour,
		},
		Feed:  config.FeedConfig{ReportThreshold: 1, OverFetchFactor: 3, DefaultPageSize: 20, MaxPageSize: 100},
		Cache: config.CacheConfig{CatalogTTL: time.Minute},
	}
	srv := server.New(cfg, db, server.Deps{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	recipes := testhelpers.CreateTestRecipes(t, db, 6)

	store := session.NewStore()
	c, err := client.New(client.Config{BaseURL: ts.URL + "/api/v1", Tokens: store, HTTPClient: ts.Client()})
	require.NoError(t, err)

	userID := uuid.New()
	token, err := srv.Tokens().GenerateToken(userID, "cook@example.com")
	require.NoError(t, err)
	store.SignIn(session.Identity{UserID: userID, Token: token})

	s := feed.NewSession(c, c, store, feed.SessionConfig{PageSize: 10, RefetchAt: 1})
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	snap := s.Snapshot()
	require.Equal(t, feed.StateReady, snap.State)
	require.Len(t, snap.Page, len(recipes))

	liked := snap.Page[0].ID
	reported := snap.Page[1].ID
	require.NoError(t, s.Like(ctx, liked))
	require.NoError(t, s.Report(ctx, reported, "spam"))

	// a fresh page never contains the liked or reported recipe
	require.NoError(t, s.Load(ctx))
	snap = s.Snapshot()
	assert.Len(t, snap.Page, len(recipes)-2)
	for _, r := range snap.Page {
		assert.NotEqual(t, liked, r.ID)
		assert.NotEqual(t, reported, r.ID)
	}

	var saved int64
	require.NoError(t, db.Model(&models.SavedRecipe{}).Where("user_id = ?", userID).Count(&saved).Error)
	assert.Equal(t, int64(1), saved)
}
