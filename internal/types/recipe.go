package types

import (
	"time"

	"github.com/swipechef/backend/internal/models"
)

// RecipeFilter narrows ListRecipes. Zero values place no restriction.
type RecipeFilter struct {
	CategoryID  *int64
	Difficulty  *models.Difficulty
	MaxPrepTime *int
	TagIDs      []int64
	Search      string
	Limit       int
	Offset      int
}

// PresignedUpload tells the client where to PUT the image bytes.
type PresignedUpload struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"object_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AverageRating struct {
	RecipeID int64   `json:"recipe_id"`
	Average  float64 `json:"average"`
	Count    int64   `json:"count"`
}

type ReportStatus struct {
	RecipeID int64 `json:"recipe_id"`
	Reported bool  `json:"reported"`
	Count    int64 `json:"count"`
}

// FeedResponse is the body of GET /feed.
type FeedResponse struct {
	Recipes []models.Recipe `json:"recipes"`
	Count   int             `json:"count"`
}
