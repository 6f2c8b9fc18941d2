package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/types"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCatalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockCatalogService) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

// MockImageService mocks service.IImageService
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) PresignUpload(ctx context.Context, authorID uuid.UUID, recipeID int64, ext string) (*types.PresignedUpload, error) {
	args := m.Called(ctx, authorID, recipeID, ext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PresignedUpload), args.Error(1)
}

func (m *MockImageService) AddImage(ctx context.Context, authorID uuid.UUID, recipeID int64, objectKey string, isPrimary bool) (*models.RecipeImage, error) {
	args := m.Called(ctx, authorID, recipeID, objectKey, isPrimary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecipeImage), args.Error(1)
}

func (m *MockImageService) SetPrimaryImage(ctx context.Context, authorID uuid.UUID, recipeID, imageID int64) error {
	return m.Called(ctx, authorID, recipeID, imageID).Error(0)
}

func (m *MockImageService) DeleteImage(ctx context.Context, authorID uuid.UUID, recipeID, imageID int64) error {
	return m.Called(ctx, authorID, recipeID, imageID).Error(0)
}
