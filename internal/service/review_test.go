package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipechef/backend/internal/testhelpers"
)

func TestReviews(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := NewReviewService(db)
	ctx := context.Background()
	recipe := testhelpers.CreateTestRecipe(t, db)
	author := uuid.New()

	_, err := svc.AddReview(ctx, author, recipe.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddReview(ctx, author, 999, "great")
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := svc.AddReview(ctx, author, recipe.ID, "Loved it")
	require.NoError(t, err)
	second, err := svc.AddReview(ctx, uuid.New(), recipe.ID, "Too salty")
	require.NoError(t, err)

	reviews, err := svc.ListReviews(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ID, reviews[0].ID)
	assert.Equal(t, first.ID, reviews[1].ID)

	assert.ErrorIs(t, svc.DeleteReview(ctx, author, second.ID), ErrForbidden)
	require.NoError(t, svc.DeleteReview(ctx, author, first.ID))
	assert.ErrorIs(t, svc.DeleteReview(ctx, author, first.ID), ErrNotFound)

	reviews, err = svc.ListReviews(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}
