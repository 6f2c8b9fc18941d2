package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/swipechef/backend/internal/feed"
	"github.com/swipechef/backend/internal/models"
)

// FeedStore backs feed.Selector with the relational store. Facets and the
// exclusion list are pushed into SQL; the selector still re-checks both.
type FeedStore struct {
	db *gorm.DB
}

var _ feed.Store = (*FeedStore)(nil)

func NewFeedStore(db *gorm.DB) *FeedStore {
	return &FeedStore{db: db}
}

// NewFeedSelector wires a selector over the database.
func NewFeedSelector(db *gorm.DB, opts feed.Options) *feed.Selector {
	return feed.NewSelector(NewFeedStore(db), opts)
}

func (s *FeedStore) SavedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	ids := make([]int64, 0)
	err := s.db.WithContext(ctx).
		Model(&models.SavedRecipe{}).
		Where("user_id = ?", userID).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *FeedStore) ReportCounts(ctx context.Context) (map[int64]int, error) {
	var rows []struct {
		RecipeID int64
		Reports  int
	}
	err := s.db.WithContext(ctx).
		Model(&models.Report{}).
		Select("recipe_id, COUNT(*) AS reports").
		Group("recipe_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.RecipeID] = r.Reports
	}
	return counts, nil
}

func (s *FeedStore) Candidates(ctx context.Context, q feed.CandidateQuery) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Preload("Tags").
		Preload("Images").
		Preload("Category")

	if len(q.Exclude) > 0 {
		if s.db.Dialector.Name() == "postgres" {
			// one array parameter however large the exclusion set grows
			query = query.Where("recipes.id <> ALL(?)", pq.Array(q.Exclude))
		} else {
			query = query.Where("recipes.id NOT IN ?", q.Exclude)
		}
	}
	query = applyFacets(s.db, query, q.Criteria.CategoryID, q.Criteria.Difficulty, q.Criteria.MaxPrepTime, q.Criteria.TagIDs)
	if q.Limit > 0 {
		// a capped read must not always favour the oldest recipes
		query = query.Order("RANDOM()").Limit(q.Limit)
	} else {
		query = query.Order("recipes.id ASC")
	}

	recipes := make([]models.Recipe, 0)
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// applyFacets adds the shared facet predicates used by the feed and by recipe
// listing. Tag matching is inclusive.
func applyFacets(db, query *gorm.DB, categoryID *int64, difficulty *models.Difficulty, maxPrep *int, tagIDs []int64) *gorm.DB {
	if categoryID != nil {
		query = query.Where("recipes.category_id = ?", *categoryID)
	}
	if difficulty != nil {
		query = query.Where("recipes.difficulty = ?", *difficulty)
	}
	if maxPrep != nil {
		query = query.Where("recipes.prep_time_minutes IS NOT NULL AND recipes.prep_time_minutes <= ?", *maxPrep)
	}
	if len(tagIDs) > 0 {
		sub := db.Table("recipe_tags").Select("recipe_id").Where("tag_id IN ?", tagIDs)
		query = query.Where("recipes.id IN (?)", sub)
	}
	return query
}

// FeedActions lets a feed.Session persist swipes without going over HTTP.
type FeedActions struct {
	saved   ISavedService
	reports IReportService
}

var _ feed.Actions = (*FeedActions)(nil)

func NewFeedActions(saved ISavedService, reports IReportService) *FeedActions {
	return &FeedActions{saved: saved, reports: reports}
}

func (a *FeedActions) Save(ctx context.Context, userID uuid.UUID, recipeID int64) error {
	_, err := a.saved.SaveRecipe(ctx, userID, recipeID)
	return err
}

// Report files a report; one already on record counts as done.
func (a *FeedActions) Report(ctx context.Context, userID uuid.UUID, recipeID int64, reason string) error {
	_, err := a.reports.ReportRecipe(ctx, userID, recipeID, reason)
	if errors.Is(err, ErrAlreadyReported) {
		return nil
	}
	return err
}
