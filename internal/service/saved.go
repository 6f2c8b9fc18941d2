package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swipechef/backend/internal/models"
)

// SavedService handles likes. A saved row is what removes a recipe from the
// user's feed.
type SavedService struct {
	db *gorm.DB
}

var _ ISavedService = (*SavedService)(nil)

func NewSavedService(db *gorm.DB) *SavedService {
	return &SavedService{db: db}
}

// SaveRecipe records a like. Saving twice returns the existing row.
func (s *SavedService) SaveRecipe(ctx context.Context, userID uuid.UUID, recipeID int64) (*models.SavedRecipe, error) {
	if err := recipeExists(s.db.WithContext(ctx), recipeID); err != nil {
		return nil, err
	}
	saved := &models.SavedRecipe{UserID: userID, RecipeID: recipeID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoNothing: true,
		}).
		Create(saved).Error
	if err != nil {
		return nil, err
	}
	return s.find(ctx, userID, recipeID)
}

// RemoveSavedRecipe drops the like, returning the recipe to the feed pool.
func (s *SavedService) RemoveSavedRecipe(ctx context.Context, userID uuid.UUID, recipeID int64) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.SavedRecipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFavorite flips the favorite flag, saving the recipe first if needed.
func (s *SavedService) ToggleFavorite(ctx context.Context, userID uuid.UUID, recipeID int64) (*models.SavedRecipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var saved models.SavedRecipe
		err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&saved).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := recipeExists(tx, recipeID); err != nil {
				return err
			}
			return tx.Create(&models.SavedRecipe{UserID: userID, RecipeID: recipeID, IsFavorite: true}).Error
		case err != nil:
			return err
		}
		return tx.Model(&saved).Update("is_favorite", !saved.IsFavorite).Error
	})
	if err != nil {
		return nil, err
	}
	return s.find(ctx, userID, recipeID)
}

// ListSaved returns the user's saved recipes, newest first.
func (s *SavedService) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.SavedRecipe, error) {
	return s.list(ctx, "user_id = ?", userID)
}

func (s *SavedService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.SavedRecipe, error) {
	return s.list(ctx, "user_id = ? AND is_favorite = ?", userID, true)
}

func (s *SavedService) IsSaved(ctx context.Context, userID uuid.UUID, recipeID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.SavedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	return n > 0, err
}

func (s *SavedService) list(ctx context.Context, where string, args ...interface{}) ([]models.SavedRecipe, error) {
	saved := make([]models.SavedRecipe, 0)
	err := s.db.WithContext(ctx).
		Where(where, args...).
		Preload("Recipe").
		Preload("Recipe.Images").
		Preload("Recipe.Tags").
		Order("created_at DESC, id DESC").
		Find(&saved).Error
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SavedService) find(ctx context.Context, userID uuid.UUID, recipeID int64) (*models.SavedRecipe, error) {
	var saved models.SavedRecipe
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&saved).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &saved, nil
}

func recipeExists(tx *gorm.DB, recipeID int64) error {
	var n int64
	if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
