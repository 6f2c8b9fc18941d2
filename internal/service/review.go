package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipechef/backend/internal/models"
)

type ReviewService struct {
	db *gorm.DB
}

var _ IReviewService = (*ReviewService)(nil)

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func (s *ReviewService) AddReview(ctx context.Context, userID uuid.UUID, recipeID int64, comment string) (*models.Review, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}
	db := s.db.WithContext(ctx)
	if err := recipeExists(db, recipeID); err != nil {
		return nil, err
	}
	review := &models.Review{UserID: userID, RecipeID: recipeID, Comment: comment}
	if err := db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns the recipe's reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, recipeID int64) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// DeleteReview removes a review written by userID.
func (s *ReviewService) DeleteReview(ctx context.Context, userID uuid.UUID, reviewID int64) error {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		return notFound(err)
	}
	if review.UserID != userID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&review).Error
}
