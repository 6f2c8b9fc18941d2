package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/swipechef/backend/internal/models"
)

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) RateRecipe(ctx context.Context, userID uuid.UUID, recipeID int64, stars int) (*models.Rating, error) {
	args := m.Called(ctx, userID, recipeID, stars)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) GetUserRating(ctx context.Context, userID uuid.UUID, recipeID int64) (*models.Rating, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) AverageRating(ctx context.Context, recipeID int64) (float64, int64, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) AddReview(ctx context.Context, userID uuid.UUID, recipeID int64, comment string) (*models.Review, error) {
	args := m.Called(ctx, userID, recipeID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) ListReviews(ctx context.Context, recipeID int64) ([]models.Review, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, userID uuid.UUID, reviewID int64) error {
	return m.Called(ctx, userID, reviewID).Error(0)
}
