package types

import (
	"github.com/swipechef/backend/internal/models"
)

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title           string              `json:"title" binding:"required,max=200"`
	Description     string              `json:"description" binding:"max=5000"`
	Ingredients     []models.Ingredient `json:"ingredients" binding:"required,min=1,dive"`
	Steps           []models.Step       `json:"steps" binding:"required,min=1,dive"`
	Difficulty      models.Difficulty   `json:"difficulty" binding:"required,oneof=easy medium hard"`
	PrepTimeMinutes *int                `json:"prep_time_minutes" binding:"omitempty,min=0,max=1440"`
	Servings        int                 `json:"servings" binding:"omitempty,min=1,max=100"`
	CategoryID      *int64              `json:"category_id"`
	TagIDs          []int64             `json:"tag_ids"`
}

// UpdateRecipeRequest is a partial update; nil fields are left untouched.
type UpdateRecipeRequest struct {
	Title           *string             `json:"title" binding:"omitempty,max=200"`
	Description     *string             `json:"description" binding:"omitempty,max=5000"`
	Ingredients     []models.Ingredient `json:"ingredients" binding:"omitempty,dive"`
	Steps           []models.Step       `json:"steps" binding:"omitempty,dive"`
	Difficulty      *models.Difficulty  `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	PrepTimeMinutes *int                `json:"prep_time_minutes" binding:"omitempty,min=0,max=1440"`
	Servings        *int                `json:"servings" binding:"omitempty,min=1,max=100"`
	CategoryID      *int64              `json:"category_id"`
	TagIDs          *[]int64            `json:"tag_ids"`
}

type ReportRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type RatingRequest struct {
	Stars int `json:"stars" binding:"required,min=1,max=5"`
}

type ReviewRequest struct {
	Comment string `json:"comment" binding:"required,max=2000"`
}

type PresignImageRequest struct {
	Extension string `json:"extension" binding:"required,oneof=jpg jpeg png webp"`
}

type AddImageRequest struct {
	ObjectKey string `json:"object_key" binding:"required,max=300"`
	IsPrimary bool   `json:"is_primary"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url,max=500"`
}
