package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/types"
)

// EmbeddingServiceInterface turns recipe text into a search vector.
type EmbeddingServiceInterface interface {
	GenerateEmbedding(text string) (pgvector.Vector, error)
}

// Cache is a small byte cache. RedisCache is the production implementation.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ObjectStorage is the slice of S3 the image service needs.
type ObjectStorage interface {
	PresignPut(ctx context.Context, key, contentType string) (string, time.Time, error)
	DeleteObject(ctx context.Context, key string) error
	PublicURL(key string) string
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, authorID uuid.UUID, id int64, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, authorID uuid.UUID, id int64) error
	ListRecipes(ctx context.Context, filter types.RecipeFilter) ([]models.Recipe, error)
	SearchRecipes(ctx context.Context, query string, limit int) ([]models.Recipe, error)
	RandomRecipes(ctx context.Context, limit int) ([]models.Recipe, error)
}

// ISavedService covers likes, the saved list and favorites.
type ISavedService interface {
	SaveRecipe(ctx context.Context, userID uuid.UUID, recipeID int64) (*models.SavedRecipe, error)
	RemoveSavedRecipe(ctx context.Context, userID uuid.UUID, recipeID int64) error
	ToggleFavorite(ctx context.Context, userID uuid.UUID, recipeID int64) (*models.SavedRecipe, error)
	ListSaved(ctx context.Context, userID uuid.UUID) ([]models.SavedRecipe, error)
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.SavedRecipe, error)
	IsSaved(ctx context.Context, userID uuid.UUID, recipeID int64) (bool, error)
}

type IReportService interface {
	ReportRecipe(ctx context.Context, userID uuid.UUID, recipeID int64, reason string) (*models.Report, error)
	HasUserReported(ctx context.Context, userID uuid.UUID, recipeID int64) (bool, error)
	ReportCount(ctx context.Context, recipeID int64) (int64, error)
}

type IRatingService interface {
	RateRecipe(ctx context.Context, userID uuid.UUID, recipeID int64, stars int) (*models.Rating, error)
	GetUserRating(ctx context.Context, userID uuid.UUID, recipeID int64) (*models.Rating, error)
	AverageRating(ctx context.Context, recipeID int64) (float64, int64, error)
}

type IReviewService interface {
	AddReview(ctx context.Context, userID uuid.UUID, recipeID int64, comment string) (*models.Review, error)
	ListReviews(ctx context.Context, recipeID int64) ([]models.Review, error)
	DeleteReview(ctx context.Context, userID uuid.UUID, reviewID int64) error
}

type ICatalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id int64) (*models.Tag, error)
}

type IImageService interface {
	PresignUpload(ctx context.Context, authorID uuid.UUID, recipeID int64, ext string) (*types.PresignedUpload, error)
	AddImage(ctx context.Context, authorID uuid.UUID, recipeID int64, objectKey string, isPrimary bool) (*models.RecipeImage, error)
	SetPrimaryImage(ctx context.Context, authorID uuid.UUID, recipeID, imageID int64) error
	DeleteImage(ctx context.Context, authorID uuid.UUID, recipeID, imageID int64) error
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.Profile, error)
}
