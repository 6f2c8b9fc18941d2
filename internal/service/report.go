package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipechef/backend/internal/logging"
	"github.com/swipechef/backend/internal/models"
)

// DefaultReportReason is recorded when the reporter gives none.
const DefaultReportReason = "Inappropriate content"

// ReportService records content reports. Once a recipe collects enough of
// them it drops out of every feed.
type ReportService struct {
	db *gorm.DB
}

var _ IReportService = (*ReportService)(nil)

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// ReportRecipe files one report per (user, recipe).
func (s *ReportService) ReportRecipe(ctx context.Context, userID uuid.UUID, recipeID int64, reason string) (*models.Report, error) {
	db := s.db.WithContext(ctx)
	if err := recipeExists(db, recipeID); err != nil {
		return nil, err
	}
	reported, err := s.HasUserReported(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if reported {
		return nil, ErrAlreadyReported
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultReportReason
	}
	report := &models.Report{UserID: userID, RecipeID: recipeID, Reason: reason}
	if err := db.Create(report).Error; err != nil {
		// lost a race with a concurrent report from the same user
		if isUniqueViolation(err) {
			return nil, ErrAlreadyReported
		}
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("component", "reports").
		Int64("recipe_id", recipeID).
		Msg("recipe reported")
	return report, nil
}

func (s *ReportService) HasUserReported(ctx context.Context, userID uuid.UUID, recipeID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	return n > 0, err
}

// ReportCount returns how many users reported the recipe.
func (s *ReportService) ReportCount(ctx context.Context, recipeID int64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("recipe_id = ?", recipeID).
		Count(&n).Error
	return n, err
}
