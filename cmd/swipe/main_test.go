package main

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipechef/backend/internal/feed"
	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/service"
)

func TestIdentityFromToken(t *testing.T) {
	tokens := service.NewTokenService("swipe-cli-test-secret", "swipechef", time.Hour)
	userID := uuid.New()
	raw, err := tokens.GenerateToken(userID, "cook@example.com")
	require.NoError(t, err)

	id, err := identityFromToken(raw)
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
	assert.Equal(t, "cook@example.com", id.Email)
	assert.Equal(t, raw, id.Token)

	_, err = identityFromToken("")
	assert.Error(t, err)
	_, err = identityFromToken("not.a.jwt")
	assert.Error(t, err)
}

func TestParseFilter(t *testing.T) {
	c, err := parseFilter(feed.Criteria{}, "difficulty=Hard")
	require.NoError(t, err)
	require.NotNil(t, c.Difficulty)
	assert.Equal(t, models.DifficultyHard, *c.Difficulty)

	c, err = parseFilter(c, "tags=1, 4")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, c.TagIDs)
	assert.NotNil(t, c.Difficulty, "earlier facets are kept")

	c, err = parseFilter(c, "clear")
	require.NoError(t, err)
	assert.False(t, c.Active())

	for _, bad := range []string{"difficulty", "prep=-2", "category=x", "color=red"} {
		_, err := parseFilter(feed.Criteria{}, bad)
		assert.Error(t, err, bad)
	}
}
