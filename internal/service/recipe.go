package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipechef/backend/internal/feed"
	"github.com/swipechef/backend/internal/logging"
	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/types"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// RecipeService handles recipe operations
type RecipeService struct {
	db               *gorm.DB
	embeddingService EmbeddingServiceInterface
	reportThreshold  int
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance. reportThreshold hides
// over-reported recipes from RandomRecipes.
func NewRecipeService(db *gorm.DB, embeddingService EmbeddingServiceInterface, reportThreshold int) *RecipeService {
	if embeddingService == nil {
		embeddingService = LetterEmbedder{}
	}
	if reportThreshold <= 0 {
		reportThreshold = 2
	}
	return &RecipeService{
		db:               db,
		embeddingService: embeddingService,
		reportThreshold:  reportThreshold,
	}
}

// CreateRecipe stores a recipe authored by authorID together with its tags.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	if authorID == uuid.Nil {
		return nil, fmt.Errorf("%w: author is required", ErrInvalidInput)
	}
	if !req.Difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, req.Difficulty)
	}

	recipe := &models.Recipe{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Ingredients:     models.Ingredients(req.Ingredients),
		Steps:           models.Steps(req.Steps),
		Difficulty:      req.Difficulty,
		PrepTimeMinutes: req.PrepTimeMinutes,
		Servings:        req.Servings,
		AuthorID:        authorID,
		CategoryID:      req.CategoryID,
	}
	if recipe.Servings <= 0 {
		recipe.Servings = 1
	}
	if err := s.embed(recipe); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, req.TagIDs)
		if err != nil {
			return err
		}
		recipe.Tags = tags
		return tx.Create(recipe).Error
	})
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("component", "recipes").
		Int64("recipe_id", recipe.ID).
		Msg("recipe created")
	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe retrieves a recipe with its category, tags and images.
func (s *RecipeService) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Preload("Images").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// UpdateRecipe applies a partial update. Only the author may edit.
func (s *RecipeService) UpdateRecipe(ctx context.Context, authorID uuid.UUID, id int64, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := ownedRecipe(tx, authorID, id)
		if err != nil {
			return err
		}

		if req.Title != nil {
			recipe.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			recipe.Description = *req.Description
		}
		if req.Ingredients != nil {
			recipe.Ingredients = models.Ingredients(req.Ingredients)
		}
		if req.Steps != nil {
			recipe.Steps = models.Steps(req.Steps)
		}
		if req.Difficulty != nil {
			if !req.Difficulty.Valid() {
				return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, *req.Difficulty)
			}
			recipe.Difficulty = *req.Difficulty
		}
		if req.PrepTimeMinutes != nil {
			recipe.PrepTimeMinutes = req.PrepTimeMinutes
		}
		if req.Servings != nil {
			recipe.Servings = *req.Servings
		}
		if req.CategoryID != nil {
			recipe.CategoryID = req.CategoryID
		}
		if req.Title != nil || req.Description != nil {
			if err := s.embed(recipe); err != nil {
				return err
			}
		}

		if err := tx.Omit("Tags", "Images", "Category").Save(recipe).Error; err != nil {
			return err
		}
		if req.TagIDs != nil {
			tags, err := loadTags(tx, *req.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes a recipe and everything hanging off it. Only the author may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, authorID uuid.UUID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := ownedRecipe(tx, authorID, id)
		if err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		for _, m := range []interface{}{
			&models.RecipeImage{}, &models.SavedRecipe{}, &models.Report{}, &models.Rating{}, &models.Review{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// ListRecipes lists recipes newest first, narrowed by filter.
func (s *RecipeService) ListRecipes(ctx context.Context, filter types.RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Preload("Category").
		Preload("Tags").
		Preload("Images")
	query = applyFacets(s.db, query, filter.CategoryID, filter.Difficulty, filter.MaxPrepTime, filter.TagIDs)
	if q := strings.TrimSpace(filter.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(recipes.title) LIKE ? OR LOWER(recipes.description) LIKE ?", like, like)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	recipes := make([]models.Recipe, 0)
	err := query.Order("recipes.created_at DESC, recipes.id DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// SearchRecipes searches for recipes
func (s *RecipeService) SearchRecipes(ctx context.Context, query string, limit int) ([]models.Recipe, error) {
	query = strings.TrimSpace(query)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	recipes := make([]models.Recipe, 0)
	if query == "" {
		return recipes, nil
	}

	like := "%" + strings.ToLower(query) + "%"
	dbQuery := s.db.WithContext(ctx).Model(&models.Recipe{}).Preload("Tags").Preload("Images")

	if s.db.Dialector.Name() == "postgres" {
		vec, err := s.embeddingService.GenerateEmbedding(query)
		if err != nil {
			return nil, err
		}
		// keyword matches ranked by embedding distance
		subQuery := s.db.Model(&models.Recipe{}).
			Select("id, embedding <-> ? AS similarity", vec).
			Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients::text) LIKE ?", like, like, like)
		dbQuery = dbQuery.Joins("JOIN (?) AS search ON recipes.id = search.id", subQuery).
			Order("search.similarity ASC")
	} else {
		dbQuery = dbQuery.
			Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients) LIKE ?", like, like, like).
			Order("recipes.id ASC")
	}

	if err := dbQuery.Limit(limit).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// RandomRecipes returns up to limit shuffled recipes, skipping any that reached
// the report threshold. Unlike the feed it ignores what the caller has saved.
func (s *RecipeService) RandomRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	if limit <= 0 {
		limit = 10
	}
	hidden := s.db.Model(&models.Report{}).
		Select("recipe_id").
		Group("recipe_id").
		Having("COUNT(*) >= ?", s.reportThreshold)

	recipes := make([]models.Recipe, 0)
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Images").
		Where("id NOT IN (?)", hidden).
		Order("RANDOM()").
		Limit(limit * feed.DefaultOverFetchFactor).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return feed.Sample(recipes, limit, nil), nil
}

func (s *RecipeService) embed(recipe *models.Recipe) error {
	vec, err := s.embeddingService.GenerateEmbedding(recipeText(recipe.Title, recipe.Description))
	if err != nil {
		return fmt.Errorf("failed to generate embedding: %w", err)
	}
	recipe.Embedding = &vec
	return nil
}

// ownedRecipe loads a recipe and checks the caller wrote it.
func ownedRecipe(tx *gorm.DB, authorID uuid.UUID, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	if recipe.AuthorID != authorID {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

func loadTags(tx *gorm.DB, ids []int64) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(ids)) {
		return nil, fmt.Errorf("%w: unknown tag id", ErrInvalidInput)
	}
	return tags, nil
}

func uniqueIDs(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// isUniqueViolation reports whether err came from a unique index.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
