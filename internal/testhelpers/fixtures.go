package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swipechef/backend/internal/models"
)

// RecipeOption tweaks a fixture recipe before insert.
type RecipeOption func(*models.Recipe)

func WithDifficulty(d models.Difficulty) RecipeOption {
	return func(r *models.Recipe) { r.Difficulty = d }
}

func WithPrepTime(minutes int) RecipeOption {
	return func(r *models.Recipe) { r.PrepTimeMinutes = &minutes }
}

func WithCategory(id int64) RecipeOption {
	return func(r *models.Recipe) { r.CategoryID = &id }
}

func WithAuthor(id uuid.UUID) RecipeOption {
	return func(r *models.Recipe) { r.AuthorID = id }
}

func WithTags(tags ...models.Tag) RecipeOption {
	return func(r *models.Recipe) { r.Tags = tags }
}

func WithTitle(title string) RecipeOption {
	return func(r *models.Recipe) { r.Title = title }
}

// CreateTestRecipe inserts a recipe with sensible defaults.
func CreateTestRecipe(t *testing.T, db *gorm.DB, opts ...RecipeOption) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Title:       "Test Recipe",
		Description: "A test recipe",
		Ingredients: models.Ingredients{{Name: "flour", Amount: "200", Unit: "g"}},
		Steps:       models.Steps{{Order: 1, Instruction: "Mix everything."}},
		Difficulty:  models.DifficultyEasy,
		Servings:    2,
		AuthorID:    uuid.New(),
	}
	for _, opt := range opts {
		opt(recipe)
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

// CreateTestRecipes inserts n default recipes titled "Recipe 1".."Recipe n".
func CreateTestRecipes(t *testing.T, db *gorm.DB, n int, opts ...RecipeOption) []models.Recipe {
	t.Helper()
	recipes := make([]models.Recipe, 0, n)
	for i := 1; i <= n; i++ {
		all := append([]RecipeOption{WithTitle(fmt.Sprintf("Recipe %d", i))}, opts...)
		recipes = append(recipes, *CreateTestRecipe(t, db, all...))
	}
	return recipes
}

func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Slug: slug(name)}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateTestTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug(name)}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// SaveForUser records a like without going through the service layer.
func SaveForUser(t *testing.T, db *gorm.DB, userID uuid.UUID, recipeID int64) {
	t.Helper()
	require.NoError(t, db.Create(&models.SavedRecipe{UserID: userID, RecipeID: recipeID}).Error)
}

// ReportBy files a report from each of users.
func ReportBy(t *testing.T, db *gorm.DB, recipeID int64, users ...uuid.UUID) {
	t.Helper()
	for _, u := range users {
		require.NoError(t, db.Create(&models.Report{UserID: u, RecipeID: recipeID, Reason: "spam"}).Error)
	}
}

func slug(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
