package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/swipechef/backend/internal/models"
)

type MockSavedService struct {
	mock.Mock
}

func (m *MockSavedService) SaveRecipe(ctx context.Context, userID uuid.UUID, recipeID int64) (*models.SavedRecipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavedRecipe), args.Error(1)
}

func (m *MockSavedService) RemoveSavedRecipe(ctx context.Context, userID uuid.UUID, recipeID int64) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockSavedService) ToggleFavorite(ctx context.Context, userID uuid.UUID, recipeID int64) (*models.SavedRecipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SavedRecipe), args.Error(1)
}

func (m *MockSavedService) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.SavedRecipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SavedRecipe), args.Error(1)
}

func (m *MockSavedService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.SavedRecipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SavedRecipe), args.Error(1)
}

func (m *MockSavedService) IsSaved(ctx context.Context, userID uuid.UUID, recipeID int64) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ReportRecipe(ctx context.Context, userID uuid.UUID, recipeID int64, reason string) (*models.Report, error) {
	args := m.Called(ctx, userID, recipeID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportService) HasUserReported(ctx context.Context, userID uuid.UUID, recipeID int64) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReportService) ReportCount(ctx context.Context, recipeID int64) (int64, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).(int64), args.Error(1)
}
