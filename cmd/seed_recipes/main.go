package main

import (
	"context"
	_ "embed"
	"flag"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipechef/backend/config"
	"github.com/swipechef/backend/internal/database"
	"github.com/swipechef/backend/internal/logging"
	"github.com/swipechef/backend/internal/models"
	"github.com/swipechef/backend/internal/service"
	"github.com/swipechef/backend/internal/types"
)

//go:embed recipes.json
var seedData []byte

// seedAuthor owns every seeded recipe unless -author is given.
var seedAuthor = uuid.MustParse("00000000-0000-4000-8000-000000000001")

type RecipeData struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Difficulty  string      `json:"difficulty"`
	PrepTime    int         `json:"prep_time"`
	Servings    int         `json:"servings"`
	Tags        []string    `json:"tags"`
	Ingredients [][2]string `json:"ingredients"`
	Steps       []string    `json:"steps"`
}

func main() {
	author := flag.String("author", seedAuthor.String(), "Author id for seeded recipes")
	flag.Parse()

	authorID, err := uuid.Parse(*author)
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid author id")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})

	db, err := database.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.Database.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	var recipes []RecipeData
	if err := json.Unmarshal(seedData, &recipes); err != nil {
		logging.Fatal().Err(err).Msg("failed to parse seed data")
	}

	ctx := context.Background()
	recipeService := service.NewRecipeService(db, service.LetterEmbedder{}, cfg.Feed.ReportThreshold)

	created := 0
	for _, data := range recipes {
		var existing int64
		if err := db.Model(&models.Recipe{}).Where("title = ?", data.Title).Count(&existing).Error; err != nil {
			logging.Fatal().Err(err).Msg("failed to check existing recipes")
		}
		if existing > 0 {
			logging.Debug().Str("title", data.Title).Msg("recipe already seeded")
			continue
		}

		req, err := buildRequest(db, data)
		if err != nil {
			logging.Fatal().Err(err).Str("title", data.Title).Msg("failed to prepare recipe")
		}
		recipe, err := recipeService.CreateRecipe(ctx, authorID, req)
		if err != nil {
			logging.Fatal().Err(err).Str("title", data.Title).Msg("failed to create recipe")
		}
		logging.Info().Int64("id", recipe.ID).Str("title", recipe.Title).Msg("seeded recipe")
		created++
	}

	// cached category and tag lists are stale now
	if cfg.Redis.Enabled {
		if client, err := database.NewRedisClient(cfg.Redis); err == nil {
			catalog := service.NewCatalogService(db, service.NewRedisCache(client), cfg.Cache.CatalogTTL)
			if err := catalog.Invalidate(ctx); err != nil {
				logging.Warn().Err(err).Msg("failed to invalidate catalog cache")
			}
			_ = client.Close()
		}
	}

	logging.Info().Int("created", created).Int("total", len(recipes)).Msg("seeding finished")
}

func buildRequest(db *gorm.DB, data RecipeData) (*types.CreateRecipeRequest, error) {
	difficulty, err := models.ParseDifficulty(data.Difficulty)
	if err != nil {
		return nil, err
	}

	category := models.Category{Name: data.Category, Slug: slug(data.Category)}
	if err := db.Where("slug = ?", category.Slug).FirstOrCreate(&category).Error; err != nil {
		return nil, err
	}

	tagIDs := make([]int64, 0, len(data.Tags))
	for _, name := range data.Tags {
		tag := models.Tag{Name: name, Slug: slug(name)}
		if err := db.Where("slug = ?", tag.Slug).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	ingredients := make([]models.Ingredient, len(data.Ingredients))
	for i, ing := range data.Ingredients {
		ingredients[i] = models.Ingredient{Name: ing[0], Amount: ing[1]}
	}
	steps := make([]models.Step, len(data.Steps))
	for i, s := range data.Steps {
		steps[i] = models.Step{Order: i + 1, Instruction: s}
	}

	prep := data.PrepTime
	return &types.CreateRecipeRequest{
		Title:           data.Title,
		Description:     data.Description,
		Ingredients:     ingredients,
		Steps:           steps,
		Difficulty:      difficulty,
		PrepTimeMinutes: &prep,
		Servings:        data.Servings,
		CategoryID:      &category.ID,
		TagIDs:          tagIDs,
	}, nil
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
