package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swipechef/backend/internal/models"
)

// RatingService keeps star ratings and the denormalised recipes.avg_rating.
type RatingService struct {
	db *gorm.DB
}

var _ IRatingService = (*RatingService)(nil)

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// RateRecipe creates or overwrites the user's rating and refreshes the average.
func (s *RatingService) RateRecipe(ctx context.Context, userID uuid.UUID, recipeID int64, stars int) (*models.Rating, error) {
	if stars < 1 || stars > 5 {
		return nil, ErrInvalidRating
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := recipeExists(tx, recipeID); err != nil {
			return err
		}
		rating := &models.Rating{UserID: userID, RecipeID: recipeID, Stars: stars}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stars", "updated_at"}),
		}).Create(rating).Error
		if err != nil {
			return err
		}
		avg, _, err := averageRating(tx, recipeID)
		if err != nil {
			return err
		}
		return tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Update("avg_rating", avg).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetUserRating(ctx, userID, recipeID)
}

func (s *RatingService) GetUserRating(ctx context.Context, userID uuid.UUID, recipeID int64) (*models.Rating, error) {
	var rating models.Rating
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&rating).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rating, nil
}

// AverageRating returns the mean star count and the number of ratings.
// An unrated recipe averages 0.
func (s *RatingService) AverageRating(ctx context.Context, recipeID int64) (float64, int64, error) {
	return averageRating(s.db.WithContext(ctx), recipeID)
}

func averageRating(tx *gorm.DB, recipeID int64) (float64, int64, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := tx.Model(&models.Rating{}).
		Select("AVG(stars) AS average, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	if row.Average == nil {
		return 0, row.Count, nil
	}
	return *row.Average, row.Count, nil
}
